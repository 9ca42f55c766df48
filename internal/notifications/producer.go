package notifications

import (
	"context"
	"fmt"
	"time"

	"starevents/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// KafkaPublisher publishes notifications to the notifications topic with
// a synchronous, idempotent producer.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash on recipient so one customer's notifications stay ordered
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		log:      logger.GetDefault(),
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, notification Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	if notification.Subject == "" {
		notification.Subject = defaultSubject(&notification)
	}

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(notification.Recipient),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
			{Key: []byte("notification_type"), Value: []byte(notification.Type)},
		},
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	p.log.DebugWithContext(ctx, "notification published", map[string]interface{}{
		"type":      notification.Type,
		"recipient": notification.Recipient,
		"partition": partition,
		"offset":    offset,
	})

	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}
