package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one message. A failing handler is retried with backoff;
// once the retries are exhausted the message is logged, committed and dropped.
type Handler func(context.Context, Message) error

type Consumer struct {
	reader     KafkaReader
	logger     *zap.Logger
	handlers   map[EventType]Handler
	newBackOff func() backoff.BackOff
	done       chan struct{}
}

func handlerBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxElapsedTime = time.Minute
	return b
}

// NewConsumer reads the event topic as part of consumer group groupID.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return newConsumer(kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
		Dialer:  kafka.DefaultDialer,
	}), logger)
}

func newConsumer(reader KafkaReader, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader:     reader,
		logger:     logger.Named("kafka_consumer"),
		handlers:   make(map[EventType]Handler),
		newBackOff: handlerBackOff,
		done:       make(chan struct{}),
	}
}

// RegisterHandler routes events of type t to fn. Events without a handler are committed and skipped.
func (c *Consumer) RegisterHandler(t EventType, fn Handler) {
	c.handlers[t] = fn
}

// Start consumes in a background goroutine until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					return
				}
				c.logger.Error("Failed to fetch message", zap.Error(err))
				continue
			}
			c.handle(ctx, msg)
		}
	}()
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	var event Message
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("Failed to parse event",
			zap.Error(err),
			zap.ByteString("value", msg.Value),
		)
		c.commit(ctx, msg, "")
		return
	}

	if fn, ok := c.handlers[event.Type]; ok {
		operation := func() error {
			return fn(ctx, event)
		}
		notify := func(err error, wait time.Duration) {
			c.logger.Warn("Retrying event handler",
				zap.Error(err),
				zap.String("event_type", string(event.Type)),
				zap.String("key", event.Key),
				zap.Duration("backoff", wait),
			)
		}
		if err := backoff.RetryNotify(operation, backoff.WithContext(c.newBackOff(), ctx), notify); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("Failed to handle event, dropping it",
				zap.Error(err),
				zap.String("event_type", string(event.Type)),
				zap.String("key", event.Key),
			)
		}
	}
	c.commit(ctx, msg, event.Type)
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message, t EventType) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message",
			zap.Error(err),
			zap.String("event_type", string(t)),
		)
	}
}

// Wait blocks until the consume loop started by Start has returned.
func (c *Consumer) Wait() {
	<-c.done
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close Kafka reader", zap.Error(err))
	}
}
