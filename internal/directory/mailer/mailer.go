// Package mailer delivers inquiry notifications to the administrators by SMTP.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/gartstein/partners/internal/directory/events"
	"github.com/gartstein/partners/internal/directory/models"
	"go.uber.org/zap"
)

var categoryLabels = map[models.InquiryCategory]string{
	models.InquiryPurchase:    "Purchase",
	models.InquiryPartnership: "Partnership",
	models.InquiryOther:       "Other",
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	addr   string
	auth   smtp.Auth
	from   string
	to     []string
	send   sendFunc
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Mailer {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}
	return &Mailer{
		addr:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth:   auth,
		from:   cfg.From,
		to:     cfg.To,
		send:   smtp.SendMail,
		logger: logger.Named("mailer"),
	}
}

// HandleEvent is an events.Handler for inquiry_created messages.
func (m *Mailer) HandleEvent(ctx context.Context, msg events.Message) error {
	var n models.InquiryNotification
	if err := json.Unmarshal(msg.Data, &n); err != nil {
		// Retrying cannot fix a malformed payload.
		m.logger.Error("Dropping malformed inquiry notification", zap.String("key", msg.Key), zap.Error(err))
		return nil
	}
	return m.SendInquiry(ctx, n)
}

// SendInquiry mails n to every administrator with Reply-To set to the inquirer.
func (m *Mailer) SendInquiry(ctx context.Context, n models.InquiryNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := m.render(n)
	if err := m.send(m.addr, m.auth, m.from, m.to, msg); err != nil {
		return fmt.Errorf("send inquiry %d: %w", n.ID, err)
	}
	m.logger.Info("Inquiry notification sent",
		zap.Int64("inquiry_id", n.ID),
		zap.Int("recipients", len(m.to)),
	)
	return nil
}

func (m *Mailer) render(n models.InquiryNotification) []byte {
	label, ok := categoryLabels[n.Category]
	if !ok {
		label = string(n.Category)
	}
	subject := fmt.Sprintf("[New inquiry] %s - %s", label, headerValue(n.Name))

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.to, ", "))
	if email := headerValue(n.Email); email != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", email)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "Category: %s\r\n", label)
	fmt.Fprintf(&b, "Name: %s\r\n", headerValue(n.Name))
	fmt.Fprintf(&b, "Phone: %s\r\n", headerValue(n.Phone))
	if email := headerValue(n.Email); email != "" {
		fmt.Fprintf(&b, "Email: %s\r\n", email)
	}
	fmt.Fprintf(&b, "Received: %s\r\n", n.CreatedAt.UTC().Format(time.RFC3339))
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(n.Content, "\n", "\r\n"))
	b.WriteString("\r\n")
	if len(n.Attachments) > 0 {
		b.WriteString("\r\nAttachments:\r\n")
		for _, a := range n.Attachments {
			fmt.Fprintf(&b, "- %s\r\n", headerValue(a))
		}
	}
	return b.Bytes()
}

// headerValue strips line breaks so user input cannot add headers.
func headerValue(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", "", "\n", "").Replace(s))
}
