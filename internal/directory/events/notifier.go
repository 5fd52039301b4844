package events

import (
	"context"
	"strconv"

	"github.com/gartstein/partners/internal/directory/models"
)

type producer interface {
	Produce(eventType EventType, key string, data any) error
}

// InquiryNotifier hands new inquiries to the notifier worker through the event topic.
type InquiryNotifier struct {
	producer producer
}

func NewInquiryNotifier(p producer) *InquiryNotifier {
	return &InquiryNotifier{producer: p}
}

func (n *InquiryNotifier) NotifyInquiry(ctx context.Context, notification models.InquiryNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.producer.Produce(InquiryCreated, strconv.FormatInt(notification.ID, 10), notification)
}
