package models

import (
	"time"

	domain "github.com/gartstein/partners/internal/directory/models"
)

type Inquiry struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Category     string    `gorm:"size:16;not null;index"`
	Content      string    `gorm:"size:2000;not null"`
	Attachments  []string  `gorm:"serializer:json;type:text"`
	Name         string    `gorm:"size:50;not null"`
	Phone        string    `gorm:"size:20;not null"`
	Email        string    `gorm:"size:100"`
	PasswordHash string    `gorm:"size:100;not null"`
	IPAddress    string    `gorm:"size:64"`
	UserAgent    string    `gorm:"size:512"`
	IsAnswered   bool      `gorm:"not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false;index"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
}

func (Inquiry) TableName() string { return "t_inquiries" }

func FromInquiry(i *domain.Inquiry) *Inquiry {
	return &Inquiry{
		ID:           i.ID,
		Category:     string(i.Category),
		Content:      i.Content,
		Attachments:  i.Attachments,
		Name:         i.Name,
		Phone:        i.Phone,
		Email:        i.Email,
		PasswordHash: i.PasswordHash,
		IPAddress:    i.IPAddress,
		UserAgent:    i.UserAgent,
		IsAnswered:   i.IsAnswered,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

func (r *Inquiry) ToDomain() *domain.Inquiry {
	attachments := r.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return &domain.Inquiry{
		ID:           r.ID,
		Category:     domain.InquiryCategory(r.Category),
		Content:      r.Content,
		Attachments:  attachments,
		Name:         r.Name,
		Phone:        r.Phone,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		IPAddress:    r.IPAddress,
		UserAgent:    r.UserAgent,
		IsAnswered:   r.IsAnswered,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// All lists every record for AutoMigrate.
func All() []any {
	return []any{&Company{}, &CompanyLabel{}, &CompanyDetail{}, &Banner{}, &Content{}, &Inquiry{}}
}
