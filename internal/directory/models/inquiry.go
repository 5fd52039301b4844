package models

import "time"

// InquiryCategory classifies a visitor inquiry.
type InquiryCategory string

const (
	InquiryPurchase    InquiryCategory = "purchase"
	InquiryPartnership InquiryCategory = "partnership"
	InquiryOther       InquiryCategory = "other"
)

func (c InquiryCategory) Valid() bool {
	switch c {
	case InquiryPurchase, InquiryPartnership, InquiryOther:
		return true
	}
	return false
}

// Inquiry is a message left by a visitor.
type Inquiry struct {
	ID           int64
	Category     InquiryCategory
	Content      string
	Attachments  []string
	Name         string
	Phone        string
	Email        string
	PasswordHash string
	IPAddress    string
	UserAgent    string
	IsAnswered   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewInquiry carries the caller input for inquiry creation.
type NewInquiry struct {
	Category    InquiryCategory
	Content     string
	Attachments []string
	Name        string
	Phone       string
	Email       string
	Password    string
}

// ClientInfo identifies the caller of a request.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

type InquiryUpdate struct {
	Category    *InquiryCategory
	Content     *string
	Attachments *[]string
	Name        *string
	Phone       *string
	Email       *string
	Password    *string
}

// InquiryFilter narrows inquiry listings.
type InquiryFilter struct {
	Category   InquiryCategory
	IsAnswered *bool
	Page       Page
}

// InquiryNotification is the payload handed to the notifier. It carries no secret.
type InquiryNotification struct {
	ID          int64           `json:"id"`
	Category    InquiryCategory `json:"category"`
	Content     string          `json:"content"`
	Attachments []string        `json:"attachments"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Notification builds the notifier payload for i.
func (i *Inquiry) Notification() InquiryNotification {
	return InquiryNotification{
		ID:          i.ID,
		Category:    i.Category,
		Content:     i.Content,
		Attachments: i.Attachments,
		Name:        i.Name,
		Phone:       i.Phone,
		Email:       i.Email,
		CreatedAt:   i.CreatedAt,
	}
}

// InquirySummary is the public list form of an inquiry. Contact details and
// content stay behind the record secret.
type InquirySummary struct {
	ID         int64
	Category   InquiryCategory
	Name       string
	IsAnswered bool
	CreatedAt  time.Time
}
