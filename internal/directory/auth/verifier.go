// Package auth implements the dual-secret authorization used by every write path:
// a request is allowed when its secret is the process-wide master secret or matches
// the bcrypt hash stored on the record.
package auth

import (
	"fmt"

	e "github.com/gartstein/partners/internal/directory/errors"
	"golang.org/x/crypto/bcrypt"
)

// Verifier checks caller secrets against the master secret and record hashes.
type Verifier struct {
	master string
	cost   int
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithCost sets the bcrypt cost used by Hash.
func WithCost(cost int) Option {
	return func(v *Verifier) {
		v.cost = cost
	}
}

// NewVerifier creates a Verifier bound to the master secret. An empty master secret
// is a configuration error.
func NewVerifier(master string, opts ...Option) (*Verifier, error) {
	if master == "" {
		return nil, fmt.Errorf("%w: master password is not set", e.ErrConfiguration)
	}
	v := &Verifier{
		master: master,
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify reports whether secret grants access to a record protected by recordHash.
// An empty recordHash means the record has no secret of its own and only the master
// secret is accepted.
//
// The master comparison is a plain string comparison and is not constant-time.
func (v *Verifier) Verify(secret, recordHash string) bool {
	if v.IsMaster(secret) {
		return true
	}
	if recordHash == "" || secret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(recordHash), []byte(secret)) == nil
}

// IsMaster reports whether secret equals the master secret.
func (v *Verifier) IsMaster(secret string) bool {
	return secret == v.master
}

// Hash returns the bcrypt hash of a record secret.
func (v *Verifier) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), v.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
