package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gofiber/fiber/v2/log"
)

var ErrNotConnected = errors.New("mqtt not connected")

type (
	// Publisher sends capture commands to the fridge camera.
	Publisher interface {
		Publish(ctx context.Context, topic string, payload []byte) error
		Close()
	}

	MQTTPublisher struct {
		broker   string
		clientID string
		client   mqtt.Client

		mu        sync.RWMutex
		connected bool
	}
)

func NewMQTTPublisher(broker, clientID string) *MQTTPublisher {
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}
	return &MQTTPublisher{
		broker:   broker,
		clientID: clientID,
	}
}

// Connect keeps retrying in the background after the first attempt, so a broker that is
// down at startup only delays triggers.
func (p *MQTTPublisher) Connect() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(p.broker)
	opts.SetClientID(p.clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		p.setConnected(true)
		log.Infof("mqtt connection established: %s", p.broker)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		p.setConnected(false)
		log.Warnf("mqtt connection lost, will auto-reconnect: %v", err)
	}

	p.client = mqtt.NewClient(opts)

	token := p.client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}
	p.setConnected(true)
	return nil
}

func (p *MQTTPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	if !p.isConnected() {
		return ErrNotConnected
	}

	token := p.client.Publish(topic, 1, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Second):
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	return nil
}

func (p *MQTTPublisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
		log.Info("mqtt disconnected")
	}
	p.setConnected(false)
}

func (p *MQTTPublisher) setConnected(connected bool) {
	p.mu.Lock()
	p.connected = connected
	p.mu.Unlock()
}

func (p *MQTTPublisher) isConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connected
}
