// Package models defines the domain models of the partner directory:
// companies with their approval lifecycle, banners, contents and inquiries.
package models

import (
	"time"
)

// ApprovalStatus is the lifecycle state of a Company.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Valid reports whether s is one of the known states.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Allowed values of the two category dimensions.
var (
	PrimaryCategories   = []string{"manufacturing", "packaging", "analysis", "logistics", "marketing"}
	SecondaryCategories = []string{"processed", "beverage", "health", "general", "inquiry"}
)

// Company defines the domain model for a partner entry.
type Company struct {
	// ID is assigned by the store at creation.
	ID int64
	// Name is the partner's display name.
	Name string
	// PasswordHash is the bcrypt hash of the record secret. It never leaves the service layer.
	PasswordHash string
	// ApprovalStatus controls public visibility.
	ApprovalStatus ApprovalStatus
	// ImageURL is the optional thumbnail.
	ImageURL *string
	// IntroText is the short public description.
	IntroText string
	// Price is a free-form price note.
	Price               string
	PrimaryCategories   []string
	SecondaryCategories []string
	Tags                []string
	// Detail is the optional 1:1 sub-record.
	Detail    *CompanyDetail
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsApproved reports whether the company may be shown unmasked.
func (c *Company) IsApproved() bool {
	return c.ApprovalStatus == StatusApproved
}

// CompanyDetail holds contact and long-form content of a company.
type CompanyDetail struct {
	Phone        string
	Email        string
	DetailImages []string
	DetailText   string
}

// NewCompany carries the caller input for company creation.
type NewCompany struct {
	Name                string
	Password            string
	ImageURL            *string
	IntroText           string
	Price               string
	PrimaryCategories   []string
	SecondaryCategories []string
	Tags                []string
	Detail              *CompanyDetail
}

// CompanyUpdate represents the fields that can be updated for a Company.
// Pointer types are used to allow partial updates.
type CompanyUpdate struct {
	Name                *string
	ImageURL            *string
	IntroText           *string
	Price               *string
	PrimaryCategories   *[]string
	SecondaryCategories *[]string
	Tags                *[]string
	// Password rotates the record secret.
	Password *string
	Detail   *CompanyDetailUpdate
}

// CompanyDetailUpdate is the partial form of CompanyDetail.
type CompanyDetailUpdate struct {
	Phone        *string
	Email        *string
	DetailImages *[]string
	DetailText   *string
}

// CompanyFilter narrows company listings. Values inside one slice are OR-ed,
// distinct dimensions are AND-ed.
type CompanyFilter struct {
	Search              string
	Tags                []string
	PrimaryCategories   []string
	SecondaryCategories []string
	// Status restricts the listing to one approval state when set.
	Status ApprovalStatus
	Page   Page
}

// HasCriteria reports whether any search or label filter is set.
func (f CompanyFilter) HasCriteria() bool {
	return f.Search != "" || len(f.Tags) > 0 || len(f.PrimaryCategories) > 0 || len(f.SecondaryCategories) > 0
}

// PublicCompany is the view of a company served to unauthenticated callers.
type PublicCompany struct {
	ID                  int64
	Name                string
	Description         string
	ImageURL            *string
	ApprovalStatus      ApprovalStatus
	Price               string
	PrimaryCategories   []string
	SecondaryCategories []string
	Tags                []string
	Phone               *string
	Email               *string
	DetailImages        []string
	DetailText          *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
