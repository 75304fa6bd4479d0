package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"server/internal/domain"
)

// BatchProcessor merges one delivery batch. A nil return means the whole
// batch is durable and may be acknowledged.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, events []domain.Event) error
}

type ConsumerConfig struct {
	Brokers       []string
	GroupID       string
	Topics        []string
	BatchSize     int
	FlushInterval time.Duration
}

// Consumer reads listing events from Kafka in batches. Offsets are marked
// only after the batch processor reports every delta durable; a failed batch
// marks nothing, so the transport redelivers it as a unit.
type Consumer struct {
	processor     BatchProcessor
	consumerGroup sarama.ConsumerGroup
	topics        []string
	batchSize     int
	flushInterval time.Duration
	logger        zerolog.Logger
	ready         chan struct{}
}

func NewConsumer(cfg ConsumerConfig, processor BatchProcessor, logger zerolog.Logger) (*Consumer, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V2_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	return &Consumer{
		processor:     processor,
		consumerGroup: group,
		topics:        cfg.Topics,
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
		logger:        logger,
		ready:         make(chan struct{}),
	}, nil
}

// Start begins consuming in a background goroutine and returns once the
// group session is established.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &groupHandler{consumer: c, ready: c.ready}

	go func() {
		for {
			if err := c.consumerGroup.Consume(ctx, c.topics, handler); err != nil {
				c.logger.Error().Err(err).Msg("kafka: consume session ended")
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-c.ready
	c.logger.Info().Strs("topics", c.topics).Msg("kafka: consumer started")
	return nil
}

func (c *Consumer) Close() error {
	return c.consumerGroup.Close()
}

type groupHandler struct {
	consumer *Consumer
	ready    chan struct{}
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	select {
	case <-h.ready:
	default:
		close(h.ready)
	}
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	c := h.consumer
	msgs := make([]*sarama.ConsumerMessage, 0, c.batchSize)
	events := make([]domain.Event, 0, c.batchSize)
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	flush := func() error {
		if len(msgs) == 0 {
			return nil
		}
		if err := c.processor.ProcessBatch(session.Context(), events); err != nil {
			c.logger.Error().Err(err).Int("size", len(msgs)).Msg("kafka: batch failed, nothing acknowledged")
			return err
		}
		for _, m := range msgs {
			session.MarkMessage(m, "")
		}
		msgs = msgs[:0]
		events = events[:0]
		return nil
	}

	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return flush()
			}
			var ev domain.Event
			if err := json.Unmarshal(message.Value, &ev); err != nil {
				// Undecodable payloads cannot become events; acknowledge
				// them individually so they do not poison the claim.
				c.logger.Warn().Err(err).Int64("offset", message.Offset).Msg("kafka: undecodable event dropped")
				session.MarkMessage(message, "")
				continue
			}
			msgs = append(msgs, message)
			events = append(events, ev)
			if len(msgs) >= c.batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		case <-ticker.C:
			if err := flush(); err != nil {
				return err
			}
		case <-session.Context().Done():
			return nil
		}
	}
}
