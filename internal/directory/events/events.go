// Package events publishes directory lifecycle events to Kafka and consumes
// them in the notifier worker.
package events

import (
	"encoding/json"
	"errors"
	"time"
)

type EventType string

const (
	CompanyCreated       EventType = "company_created"
	CompanyUpdated       EventType = "company_updated"
	CompanyDeleted       EventType = "company_deleted"
	CompanyStatusChanged EventType = "company_status_changed"

	BannerCreated EventType = "banner_created"
	BannerUpdated EventType = "banner_updated"
	BannerDeleted EventType = "banner_deleted"

	ContentCreated EventType = "content_created"
	ContentUpdated EventType = "content_updated"
	ContentDeleted EventType = "content_deleted"

	InquiryCreated EventType = "inquiry_created"
	InquiryUpdated EventType = "inquiry_updated"
	InquiryDeleted EventType = "inquiry_deleted"
)

// ErrQueueFull is returned by Produce when the event was dropped.
var ErrQueueFull = errors.New("event queue full")

// Event is the envelope written to the topic.
type Event struct {
	Type       EventType `json:"type"`
	Key        string    `json:"key"`
	Data       any       `json:"data"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Message is an Event as read back from the topic, with Data left undecoded.
type Message struct {
	Type       EventType       `json:"type"`
	Key        string          `json:"key"`
	Data       json.RawMessage `json:"data"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// EntityRef is the payload of lifecycle events. It never carries secrets.
type EntityRef struct {
	ID     int64  `json:"id"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status,omitempty"`
}
