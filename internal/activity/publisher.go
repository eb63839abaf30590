package activity

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/harshad-dhokane/new-docx/pkg/lifecycle"
	"github.com/segmentio/kafka-go"
)

// Publisher mirrors recorded entries to an external event stream.
type Publisher interface {
	Publish(ctx context.Context, entry Entry) error
	Start(lc *lifecycle.Coordinator)
}

type kafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaPublisher writes entries to topic asynchronously, keyed by resource
// id so events for one template or artifact stay ordered within a partition.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) Publisher {
	logger = logger.With("system", "events", "topic", topic)

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 100 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("event delivery failed", "messages", len(messages), "error", err)
			}
		},
	}

	return &kafkaPublisher{
		writer: writer,
		logger: logger,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, entry Entry) error {
	msg, err := newMessage(entry)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *kafkaPublisher) Start(lc *lifecycle.Coordinator) {
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := p.writer.Close(); err != nil {
			p.logger.Error("event writer close failed", "error", err)
			return
		}
		p.logger.Info("event writer closed")
	})
}

func newMessage(entry Entry) (kafka.Message, error) {
	value, err := json.Marshal(entry)
	if err != nil {
		return kafka.Message{}, err
	}

	var key []byte
	if entry.ResourceID != nil {
		key = []byte(entry.ResourceID.String())
	}

	return kafka.Message{
		Key:   key,
		Value: value,
		Time:  entry.CreatedAt,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(entry.Action)},
		},
	}, nil
}
