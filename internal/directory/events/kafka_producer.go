package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gartstein/partners/internal/pkg/clock"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

const queueSize = 1000

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer queues events in memory and writes them to Kafka from a single goroutine.
type Producer struct {
	writer    KafkaWriter
	events    chan Event
	clock     clock.Clock
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewProducer creates the topic when missing and starts the send loop.
func NewProducer(brokers []string, topic string, clk clock.Clock, logger *zap.Logger) (*Producer, error) {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
		Topic:    topic,
	}
	return newProducer(writer, clk, logger, queueSize), nil
}

func newProducer(writer KafkaWriter, clk clock.Clock, logger *zap.Logger, size int) *Producer {
	p := &Producer{
		writer:    writer,
		events:    make(chan Event, size),
		clock:     clk,
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.eventLoop()
	return p
}

// Produce enqueues an event without blocking. When the queue is full the event
// is dropped and ErrQueueFull returned.
func (p *Producer) Produce(eventType EventType, key string, data any) error {
	event := Event{Type: eventType, Key: key, Data: data, OccurredAt: p.clock.Now()}
	select {
	case p.events <- event:
		return nil
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("key", key),
		)
		return ErrQueueFull
	}
}

func (p *Producer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			p.drain()
			return
		}
	}
}

// drain flushes what is already queued at shutdown.
func (p *Producer) drain() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		default:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("key", event.Key),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("key", event.Key),
		)
	}
}

// Close stops the send loop after flushing queued events and closes the writer.
func (p *Producer) Close() {
	p.closeOnce.Do(func() {
		close(p.closeChan)
		<-p.done
		if err := p.writer.Close(); err != nil {
			p.logger.Error("Failed to close Kafka writer", zap.Error(err))
		}
	})
}
