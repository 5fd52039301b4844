package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gartstein/partners/internal/directory/models"
	"github.com/gartstein/partners/internal/pkg/clock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testTime = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestProducer_Produce(t *testing.T) {
	t.Run("queued", func(t *testing.T) {
		producer := &Producer{
			events: make(chan Event, 1),
			clock:  clock.NewMockClock(testTime),
			logger: zaptest.NewLogger(t),
		}

		err := producer.Produce(CompanyCreated, "7", EntityRef{ID: 7, Name: "Acme"})
		require.NoError(t, err)

		event := <-producer.events
		assert.Equal(t, CompanyCreated, event.Type)
		assert.Equal(t, "7", event.Key)
		assert.Equal(t, testTime, event.OccurredAt)
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := &Producer{
			events: make(chan Event, 1),
			clock:  clock.NewMockClock(testTime),
			logger: zap.New(core),
		}

		require.NoError(t, producer.Produce(CompanyCreated, "1", nil))
		err := producer.Produce(CompanyCreated, "2", nil)

		assert.ErrorIs(t, err, ErrQueueFull)
		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("key", "2")).Len())
	})
}

func TestProducer_SendEvent(t *testing.T) {
	event := Event{
		Type:       CompanyStatusChanged,
		Key:        "42",
		Data:       EntityRef{ID: 42, Name: "Acme Clinic", Status: "approved"},
		OccurredAt: testTime,
	}

	t.Run("successful send", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
		producer := &Producer{writer: mockWriter, logger: zaptest.NewLogger(t)}

		producer.sendEvent(context.Background(), event)

		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, []kafka.Message{
			{Key: []byte("42"), Value: mustMarshal(t, event)},
		})
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		producer := &Producer{writer: mockWriter, logger: zap.New(core)}

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ any) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("key", "42")).Len())
		mockWriter.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))
		producer := &Producer{writer: mockWriter, logger: zap.New(core)}

		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_CloseFlushesQueue(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
	mockWriter.On("Close").Return(nil)

	producer := newProducer(mockWriter, clock.NewMockClock(testTime), zaptest.NewLogger(t), 10)
	for i := 0; i < 3; i++ {
		require.NoError(t, producer.Produce(ContentCreated, "c", nil))
	}

	producer.Close()
	producer.Close()

	mockWriter.AssertNumberOfCalls(t, "WriteMessages", 3)
	mockWriter.AssertNumberOfCalls(t, "Close", 1)
}

func TestProducer_CloseWriterError(t *testing.T) {
	core, recorded := observer.New(zap.ErrorLevel)
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("Close").Return(errors.New("broken pipe"))

	producer := newProducer(mockWriter, clock.NewMockClock(testTime), zap.New(core), 1)
	producer.Close()

	assert.Equal(t, 1, recorded.FilterMessage("Failed to close Kafka writer").Len())
}

func TestInquiryNotifier(t *testing.T) {
	producer := &Producer{
		events: make(chan Event, 1),
		clock:  clock.NewMockClock(testTime),
		logger: zaptest.NewLogger(t),
	}
	notifier := NewInquiryNotifier(producer)
	n := models.InquiryNotification{ID: 9, Category: models.InquiryPurchase, Name: "Kim", Content: "Need samples please"}

	require.NoError(t, notifier.NotifyInquiry(context.Background(), n))

	event := <-producer.events
	assert.Equal(t, InquiryCreated, event.Type)
	assert.Equal(t, "9", event.Key)
	assert.Equal(t, n, event.Data)

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, notifier.NotifyInquiry(ctx, n), context.Canceled)
	})

	t.Run("queue full", func(t *testing.T) {
		require.NoError(t, notifier.NotifyInquiry(context.Background(), n))
		assert.ErrorIs(t, notifier.NotifyInquiry(context.Background(), n), ErrQueueFull)
	})
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
