package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"starevents/pkg/logger"

	"github.com/IBM/sarama"
)

type Consumer interface {
	Start(ctx context.Context, numWorkers int) error
	Stop() error
}

type ConsumerConfig struct {
	Brokers        []string
	GroupID        string
	Topics         []string
	SessionTimeout time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
}

func DefaultConsumerConfig(brokers []string, groupID, topic string) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topics:         []string{topic},
		SessionTimeout: 30 * time.Second,
		MaxRetries:     3,
		RetryBackoff:   time.Second,
	}
}

// KafkaConsumer runs a pool of consumer-group workers that deliver queued
// notifications over email.
type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	sender        EmailSender
	log           *logger.Logger
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

func NewKafkaConsumer(config *ConsumerConfig, sender EmailSender) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		sender:        sender,
		log:           logger.GetDefault(),
	}, nil
}

func (kc *KafkaConsumer) Start(ctx context.Context, numWorkers int) error {
	ctx, kc.cancel = context.WithCancel(ctx)

	go kc.handleErrors()

	for i := 0; i < numWorkers; i++ {
		kc.wg.Add(1)
		go func(workerID int) {
			defer kc.wg.Done()
			kc.runWorker(ctx, workerID)
		}(i)
	}

	kc.log.InfoWithContext(ctx, "notification consumers started", map[string]interface{}{
		"workers": numWorkers,
		"topics":  kc.config.Topics,
	})
	return nil
}

func (kc *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &consumerGroupHandler{
		workerID:     workerID,
		sender:       kc.sender,
		maxRetries:   kc.config.MaxRetries,
		retryBackoff: kc.config.RetryBackoff,
		log:          kc.log,
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := kc.consumerGroup.Consume(ctx, kc.config.Topics, handler); err != nil {
				kc.log.ErrorWithContext(ctx, "consumer error", err, map[string]interface{}{
					"worker": workerID,
				})
				time.Sleep(time.Second)
			}
		}
	}
}

func (kc *KafkaConsumer) handleErrors() {
	for err := range kc.consumerGroup.Errors() {
		kc.log.WithError(err).Warn("consumer group error")
	}
}

func (kc *KafkaConsumer) Stop() error {
	if kc.cancel != nil {
		kc.cancel()
	}
	kc.wg.Wait()

	if err := kc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type consumerGroupHandler struct {
	workerID     int
	sender       EmailSender
	maxRetries   int
	retryBackoff time.Duration
	log          *logger.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := h.processMessage(session.Context(), message); err != nil {
				h.log.ErrorWithContext(session.Context(), "failed to process notification", err, map[string]interface{}{
					"worker":    h.workerID,
					"partition": message.Partition,
					"offset":    message.Offset,
				})
			}
			// Mark even on failure after retries are exhausted; a poison
			// message must not wedge the partition.
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	notification, err := FromJSON(message.Value)
	if err != nil {
		return err
	}

	return h.sendWithRetry(ctx, notification)
}

func (h *consumerGroupHandler) sendWithRetry(ctx context.Context, notification *Notification) error {
	backoff := h.retryBackoff

	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		err := h.sender.Send(ctx, notification)
		if err == nil {
			return nil
		}

		if attempt == h.maxRetries {
			return fmt.Errorf("giving up after %d attempts: %w", h.maxRetries+1, err)
		}

		delay := backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
