package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/footprint/core/events"
	"github.com/kilianp07/footprint/core/model"
	coremon "github.com/kilianp07/footprint/core/monitoring"
	"github.com/kilianp07/footprint/infra/logger"
	"github.com/kilianp07/footprint/internal/eventbus"
)

const (
	statusOnline  = "online"
	statusOffline = "offline"
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Message is the JSON payload published for each calculation.
type Message struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Source    model.Source `json:"source"`
	Reason    string       `json:"fallback_reason,omitempty"`
	Results   model.Result `json:"results"`
}

// Publisher publishes completed calculations to an MQTT broker.
type Publisher struct {
	cli     pahoClient
	cfg     Config
	log     logger.Logger
	backoff time.Duration
}

// NewPublisher connects to the broker. A retained "offline" will is
// registered on the status topic and "online" is published on connect.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	p := &Publisher{cfg: cfg, log: log, backoff: time.Duration(cfg.BackoffMS) * time.Millisecond}

	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		if token := c.Publish(cfg.StatusTopic(), cfg.QoS, true, statusOnline); token.Wait() && token.Error() != nil {
			log.Errorf("status publish error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, token.Error())
	}
	p.cli = c
	return p, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	opts.SetConnectTimeout(5 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	opts.SetWill(cfg.StatusTopic(), statusOffline, cfg.QoS, true)
	return opts, nil
}

// Publish sends the calculation to its own topic and refreshes the retained
// latest topic. Failed publishes are retried with exponential backoff.
func (p *Publisher) Publish(ctx context.Context, ev events.Calculated) error {
	s := ev.Snapshot
	payload, err := json.Marshal(Message{
		ID:        s.ID,
		Timestamp: s.Timestamp,
		Source:    s.Source,
		Reason:    ev.Reason,
		Results:   s.Result,
	})
	if err != nil {
		return err
	}
	if err := p.publish(ctx, p.cfg.ResultTopic(s.ID), false, payload); err != nil {
		coremon.CaptureException(err, map[string]string{"module": "mqtt", "calculation_id": s.ID})
		return err
	}
	if err := p.publish(ctx, p.cfg.LatestTopic(), true, payload); err != nil {
		coremon.CaptureException(err, map[string]string{"module": "mqtt", "calculation_id": s.ID})
		return err
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, topic string, retained bool, payload []byte) error {
	var publishErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		token := p.cli.Publish(topic, p.cfg.QoS, retained, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.log.Debugf("published to %s", topic)
			return nil
		}
		p.log.Errorf("publish attempt %d to %s failed: %v", attempt+1, topic, publishErr)
		if attempt == p.cfg.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Join(publishErr, ctx.Err())
		case <-time.After(p.backoff * time.Duration(1<<attempt)):
		}
	}
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// Start publishes every calculation received on bus until ctx is done or
// the bus is closed. The returned channel is closed once it stops.
func (p *Publisher) Start(ctx context.Context, bus eventbus.EventBus[events.Calculated]) <-chan struct{} {
	done := make(chan struct{})
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := p.Publish(ctx, ev); err != nil {
					p.log.Warnf("publish calculation %s: %v", ev.Snapshot.ID, err)
				}
			}
		}
	}()
	return done
}

// Close publishes the offline status and disconnects.
func (p *Publisher) Close() {
	if p.cli == nil || !p.cli.IsConnected() {
		return
	}
	token := p.cli.Publish(p.cfg.StatusTopic(), p.cfg.QoS, true, statusOffline)
	token.WaitTimeout(time.Second)
	p.cli.Disconnect(250)
}
