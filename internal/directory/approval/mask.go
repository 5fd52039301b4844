package approval

import (
	"github.com/gartstein/partners/internal/directory/models"
)

// Sentinel values shown instead of the real data of companies that are not approved.
const (
	PendingName        = "Partner awaiting approval"
	PendingDescription = "(awaiting administrator approval)"

	RejectedName        = "Rejected partner"
	RejectedDescription = "(rejected by administrator)"
)

// Mask projects a company to its public view. Approved companies are shown in full;
// pending and rejected ones keep only their id, status and timestamps.
func Mask(c *models.Company) models.PublicCompany {
	switch c.ApprovalStatus {
	case models.StatusApproved:
		return fullView(c)
	case models.StatusRejected:
		return sentinel(c, RejectedName, RejectedDescription)
	default:
		return sentinel(c, PendingName, PendingDescription)
	}
}

// MaskAll applies Mask to every company, preserving order.
func MaskAll(companies []*models.Company) []models.PublicCompany {
	out := make([]models.PublicCompany, 0, len(companies))
	for _, c := range companies {
		out = append(out, Mask(c))
	}
	return out
}

func sentinel(c *models.Company, name, description string) models.PublicCompany {
	return models.PublicCompany{
		ID:                  c.ID,
		Name:                name,
		Description:         description,
		ApprovalStatus:      c.ApprovalStatus,
		PrimaryCategories:   []string{},
		SecondaryCategories: []string{},
		Tags:                []string{},
		DetailImages:        []string{},
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

func fullView(c *models.Company) models.PublicCompany {
	view := models.PublicCompany{
		ID:                  c.ID,
		Name:                c.Name,
		Description:         c.IntroText,
		ImageURL:            c.ImageURL,
		ApprovalStatus:      c.ApprovalStatus,
		Price:               c.Price,
		PrimaryCategories:   nonNil(c.PrimaryCategories),
		SecondaryCategories: nonNil(c.SecondaryCategories),
		Tags:                nonNil(c.Tags),
		DetailImages:        []string{},
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
	if d := c.Detail; d != nil {
		view.Phone = optional(d.Phone)
		view.Email = optional(d.Email)
		view.DetailImages = nonNil(d.DetailImages)
		view.DetailText = optional(d.DetailText)
	}
	return view
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
