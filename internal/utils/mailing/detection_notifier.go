package mailing

import (
	"fmt"
	"html"
	"smart-fridge-backend/domain"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

// SendFunc matches SendMail.
type SendFunc func(toEmail string, subject string, body string) error

// DetectionNotifier mails a short report whenever a scan puts new items in the fridge.
type DetectionNotifier struct {
	toEmail string
	send    SendFunc
}

func NewDetectionNotifier(toEmail string, send SendFunc) *DetectionNotifier {
	if send == nil {
		send = SendMail
	}
	return &DetectionNotifier{
		toEmail: toEmail,
		send:    send,
	}
}

// NotifyDetection does nothing when the merge added no new entries.
func (n *DetectionNotifier) NotifyDetection(items []domain.DetectedItem, result domain.MergeResult) error {
	if n.toEmail == "" || result.Added == 0 {
		return nil
	}

	subject := fmt.Sprintf("Smart Fridge: %d new item(s) detected", result.Added)
	if err := n.send(n.toEmail, subject, detectionBody(items, result)); err != nil {
		return fmt.Errorf("send detection mail: %w", err)
	}
	log.Infof("detection mail sent to %s", n.toEmail)
	return nil
}

func detectionBody(items []domain.DetectedItem, result domain.MergeResult) string {
	var b strings.Builder
	b.WriteString("<h3>Latest fridge scan</h3><ul>")
	for _, item := range items {
		fmt.Fprintf(&b, "<li>%s &times; %d (%s, %.0f%%)</li>",
			html.EscapeString(item.Name), item.Quantity, item.Category, item.Confidence*100)
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p>%d updated, %d added, %d items in the inventory.</p>", result.Updated, result.Added, result.Total)
	return b.String()
}
