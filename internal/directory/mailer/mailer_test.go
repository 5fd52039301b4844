package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/gartstein/partners/internal/directory/events"
	"github.com/gartstein/partners/internal/directory/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type sent struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	msg  string
}

func newTestMailer(t *testing.T, err error) (*Mailer, *[]sent) {
	t.Helper()
	var out []sent
	m := New(Config{
		Host:     "smtp.example.com",
		Port:     587,
		User:     "mailer",
		Password: "secret",
		From:     "noreply@example.com",
		To:       []string{"admin@example.com", "ops@example.com"},
	}, zaptest.NewLogger(t))
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		out = append(out, sent{addr: addr, auth: a, from: from, to: to, msg: string(msg)})
		return err
	}
	return m, &out
}

var notification = models.InquiryNotification{
	ID:          3,
	Category:    models.InquiryPartnership,
	Content:     "We would like to discuss\na distribution deal.",
	Attachments: []string{"https://cdn.example.com/inquiries/a.pdf"},
	Name:        "Jordan Lee",
	Phone:       "010-1234-5678",
	Email:       "jordan@example.com",
	CreatedAt:   time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC),
}

func TestSendInquiry(t *testing.T) {
	m, out := newTestMailer(t, nil)

	require.NoError(t, m.SendInquiry(context.Background(), notification))
	require.Len(t, *out, 1)

	got := (*out)[0]
	assert.Equal(t, "smtp.example.com:587", got.addr)
	assert.NotNil(t, got.auth)
	assert.Equal(t, "noreply@example.com", got.from)
	assert.Equal(t, []string{"admin@example.com", "ops@example.com"}, got.to)
	assert.Contains(t, got.msg, "To: admin@example.com, ops@example.com\r\n")
	assert.Contains(t, got.msg, "Reply-To: jordan@example.com\r\n")
	assert.Contains(t, got.msg, "Subject: [New inquiry] Partnership - Jordan Lee\r\n")
	assert.Contains(t, got.msg, "Phone: 010-1234-5678\r\n")
	assert.Contains(t, got.msg, "We would like to discuss\r\na distribution deal.")
	assert.Contains(t, got.msg, "- https://cdn.example.com/inquiries/a.pdf\r\n")
	assert.Contains(t, got.msg, "Received: 2025-04-02T08:00:00Z")
}

func TestSendInquiry_NoReplyToWithoutEmail(t *testing.T) {
	m, out := newTestMailer(t, nil)
	n := notification
	n.Email = ""

	require.NoError(t, m.SendInquiry(context.Background(), n))
	assert.NotContains(t, (*out)[0].msg, "Reply-To:")
}

func TestSendInquiry_HeaderInjection(t *testing.T) {
	tests := []struct {
		name   string
		modify func(n *models.InquiryNotification)
	}{
		{"email", func(n *models.InquiryNotification) { n.Email = "x@example.com\r\nBcc: victim@example.com" }},
		{"name", func(n *models.InquiryNotification) { n.Name = "Kim\r\nBcc: victim@example.com" }},
		{"phone", func(n *models.InquiryNotification) { n.Phone = "010\nBcc: victim@example.com" }},
		{"attachment", func(n *models.InquiryNotification) {
			n.Attachments = []string{"https://cdn.example.com/a.png\r\nBcc: victim@example.com"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, out := newTestMailer(t, nil)
			n := notification
			tt.modify(&n)

			require.NoError(t, m.SendInquiry(context.Background(), n))
			msg := (*out)[0].msg
			assert.NotContains(t, msg, "\r\nBcc:")
			assert.NotContains(t, msg, "\nBcc:")
		})
	}
}

func TestSendInquiry_Errors(t *testing.T) {
	t.Run("smtp failure", func(t *testing.T) {
		m, _ := newTestMailer(t, errors.New("421 try later"))
		err := m.SendInquiry(context.Background(), notification)
		assert.ErrorContains(t, err, "421 try later")
	})

	t.Run("cancelled", func(t *testing.T) {
		m, out := newTestMailer(t, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, m.SendInquiry(ctx, notification), context.Canceled)
		assert.Empty(t, *out)
	})
}

func TestHandleEvent(t *testing.T) {
	m, out := newTestMailer(t, nil)
	data, err := json.Marshal(notification)
	require.NoError(t, err)

	require.NoError(t, m.HandleEvent(context.Background(), events.Message{Type: events.InquiryCreated, Key: "3", Data: data}))
	assert.Len(t, *out, 1)

	t.Run("malformed payload is dropped", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		m.logger = zap.New(core)

		err := m.HandleEvent(context.Background(), events.Message{Key: "4", Data: []byte(`"oops"`)})
		assert.NoError(t, err)
		assert.Equal(t, 1, recorded.FilterMessage("Dropping malformed inquiry notification").Len())
		assert.Len(t, *out, 1)
	})
}

func TestNew_WithoutAuth(t *testing.T) {
	m := New(Config{Host: "localhost", Port: 1025}, zaptest.NewLogger(t))
	assert.Nil(t, m.auth)
	assert.Equal(t, "localhost:1025", m.addr)
}
