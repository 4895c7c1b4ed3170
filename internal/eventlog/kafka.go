package eventlog

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"queuewise/internal/models"
)

// KafkaPublisher mirrors queue events to a topic keyed by queue id, so one queue's
// events stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 2 * time.Second,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event models.QueueEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "eventlog : marshal event")
	}
	return errors.Wrap(p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.QueueID), 10)),
		Value: payload,
		Time:  event.CreatedAt,
	}), "eventlog : kafka write")
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
