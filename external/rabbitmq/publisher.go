package rabbitmq

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/riskibarqy/sports-mirror/internal/platform/logging"
	"github.com/riskibarqy/sports-mirror/internal/usecase"
)

const defaultRoutingKey = "sync.completed"

type Config struct {
	URL        string
	Exchange   string
	QueueName  string
	RoutingKey string
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends sync.completed events to a durable direct exchange.
type Publisher struct {
	conn       *amqp.Connection
	channel    channel
	exchange   string
	routingKey string
	logger     *logging.Logger
	now        func() time.Time
}

func NewPublisher(cfg Config, logger *logging.Logger) (*Publisher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	cfg.RoutingKey = strings.TrimSpace(cfg.RoutingKey)
	if cfg.RoutingKey == "" {
		cfg.RoutingKey = defaultRoutingKey
	}
	if strings.TrimSpace(cfg.Exchange) == "" {
		return nil, fmt.Errorf("rabbitmq exchange is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	pub := newPublisher(ch, cfg, logger)
	pub.conn = conn
	return pub, nil
}

func newPublisher(ch channel, cfg Config, logger *logging.Logger) *Publisher {
	if cfg.RoutingKey == "" {
		cfg.RoutingKey = defaultRoutingKey
	}
	return &Publisher{
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
		now:        time.Now,
	}
}

func declareTopology(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if strings.TrimSpace(cfg.QueueName) == "" {
		return nil
	}
	q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (p *Publisher) PublishSyncCompleted(ctx context.Context, event usecase.SyncEvent) error {
	body, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal sync event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    event.RunID,
		Type:         defaultRoutingKey,
		Body:         body,
		Timestamp:    p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("publish sync event run_id=%s: %w", event.RunID, err)
	}

	p.logger.DebugContext(ctx, "published sync event", "run_id", event.RunID, "resource", event.Resource, "mode", event.Mode)
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
