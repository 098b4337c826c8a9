package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/punchline/config"
	"github.com/spacesedan/punchline/internal/models"
)

const (
	DELIVERY_TIMEOUT = 10 * time.Second
	MAX_RETRIES      = 3
	FLUSH_TIMEOUT_MS = 5000
)

// KafkaPublisher produces each finished joke batch as one message keyed by
// the batch ID.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	slog.Info("[KafkaPublisher] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.JokesTopic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaPublisher] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaPublisher] Kafka Producer initialized successfully")
	return &KafkaPublisher{producer: p, topic: cfg.JokesTopic}, nil
}

// BuildBatchMessage serializes batch for topic.
func BuildBatchMessage(topic string, batch models.JokeBatch) (*kafka.Message, error) {
	value, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("[KafkaPublisher] marshal batch: %w", err)
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(batch.ID),
		Value:          value,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}, nil
}

// Publish waits for the delivery report or DELIVERY_TIMEOUT, whichever is
// first.
func (k *KafkaPublisher) Publish(ctx context.Context, batch models.JokeBatch) error {
	msg, err := BuildBatchMessage(k.topic, batch)
	if err != nil {
		return err
	}

	deliveries := make(chan kafka.Event, 1)
	for i := 0; i < MAX_RETRIES; i++ {
		err = k.producer.Produce(msg, deliveries)
		if err == nil {
			break
		}
		slog.Warn("[KafkaPublisher] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
	}
	if err != nil {
		return fmt.Errorf("[KafkaPublisher] produce failed after %d attempts: %w", MAX_RETRIES, err)
	}

	ctx, cancel := context.WithTimeout(ctx, DELIVERY_TIMEOUT)
	defer cancel()

	select {
	case <-ctx.Done():
		return fmt.Errorf("[KafkaPublisher] waiting for delivery: %w", ctx.Err())
	case ev := <-deliveries:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("[KafkaPublisher] unexpected delivery event %v", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("[KafkaPublisher] delivery failed: %w", m.TopicPartition.Error)
		}
		slog.Info("[KafkaPublisher] Published joke batch",
			slog.String("topic", k.topic),
			slog.String("batch_id", batch.ID),
			slog.Int("jokes", len(batch.Jokes)),
			slog.Any("offset", m.TopicPartition.Offset))
		return nil
	}
}

func (k *KafkaPublisher) Close() {
	slog.Info("[KafkaPublisher] Flushing Kafka producer before shutdown...")
	if remaining := k.producer.Flush(FLUSH_TIMEOUT_MS); remaining > 0 {
		slog.Warn("[KafkaPublisher] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	k.producer.Close()
	slog.Info("[KafkaPublisher] Kafka producer shut down")
}
