package notifications

import (
	"context"
	"fmt"

	"starevents/internal/shared/config"
)

// Service owns the notification pipeline: the Kafka publisher handed to
// the domain services and the email consumer workers.
type Service struct {
	Publisher Publisher
	consumer  Consumer
	workers   int
}

// NewService builds the full pipeline. The consumer is optional: when SMTP
// is not configured the publisher still queues notifications and a worker
// deployment elsewhere can drain them.
func NewService(cfg *config.Config) (*Service, error) {
	publisher, err := NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification publisher: %w", err)
	}

	svc := &Service{
		Publisher: publisher,
		workers:   cfg.Kafka.ConsumerWorkers,
	}

	if cfg.Email.SMTPHost != "" {
		sender, err := NewSMTPEmailSender(cfg.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to create email sender: %w", err)
		}

		consumer, err := NewKafkaConsumer(
			DefaultConsumerConfig(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroupID, cfg.Kafka.NotificationTopic),
			sender,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create notification consumer: %w", err)
		}
		svc.consumer = consumer
	}

	return svc, nil
}

func (s *Service) Start(ctx context.Context) error {
	if s.consumer == nil {
		return nil
	}
	return s.consumer.Start(ctx, s.workers)
}

func (s *Service) Close() error {
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			return err
		}
	}
	return s.Publisher.Close()
}
