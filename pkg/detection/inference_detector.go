package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"smart-fridge-backend/domain"
	"strconv"
	"strings"
	"time"
)

type (
	inferenceDetector struct {
		inferenceURL string
		httpClient   *http.Client
	}

	inferenceResponse struct {
		Detections []struct {
			Class      string    `json:"class"`
			Confidence float64   `json:"confidence"`
			BBox       []float64 `json:"bbox"`
		} `json:"detections"`
	}
)

// NewInferenceDetector talks to a YOLO inference service that accepts a multipart "image"
// and answers with {"detections":[{"class","confidence","bbox":[x1,y1,x2,y2]}]}.
func NewInferenceDetector(inferenceURL string, timeout time.Duration) Detector {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &inferenceDetector{
		inferenceURL: strings.TrimRight(inferenceURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
	}
}

func (d *inferenceDetector) Name() string {
	return "inference"
}

func (d *inferenceDetector) Detect(ctx context.Context, image []byte, minConfidence float64) ([]RawDetection, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("write image: %w", err)
	}
	if err := writer.WriteField("conf", strconv.FormatFloat(minConfidence, 'f', -1, 64)); err != nil {
		return nil, fmt.Errorf("write conf field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.inferenceURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("inference failed: %s - %s", resp.Status, string(bodyBytes))
	}

	var result inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	detections := make([]RawDetection, 0, len(result.Detections))
	for _, det := range result.Detections {
		raw := RawDetection{
			Label:      det.Class,
			Confidence: det.Confidence,
		}
		if len(det.BBox) >= 4 {
			raw.Box = &domain.BoundingBox{X1: det.BBox[0], Y1: det.BBox[1], X2: det.BBox[2], Y2: det.BBox[3]}
		}
		detections = append(detections, raw)
	}

	return detections, nil
}

func (d *inferenceDetector) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.inferenceURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: %d", resp.StatusCode)
	}
	return nil
}
