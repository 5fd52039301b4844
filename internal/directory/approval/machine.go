// Package approval holds the company approval lifecycle and the masking applied
// to companies that are not approved before they reach a public response.
package approval

import (
	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/directory/models"
)

// Transition validates a move from current to target. It returns changed=false when
// the company already has the target status, which callers treat as a no-op.
// Every move between the three states is allowed; only the master secret may request one.
func Transition(current, target models.ApprovalStatus) (changed bool, err error) {
	if !target.Valid() {
		return false, e.Invalid("approval status must be one of pending, approved, rejected")
	}
	if current == target {
		return false, nil
	}
	return true, nil
}
