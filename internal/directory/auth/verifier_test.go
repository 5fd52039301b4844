package auth

import (
	"testing"

	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testMaster = "master-secret"

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testMaster, WithCost(bcrypt.MinCost))
	require.NoError(t, err)
	return v
}

func TestNewVerifier_MissingMaster(t *testing.T) {
	v, err := NewVerifier("")
	assert.Nil(t, v)
	assert.ErrorIs(t, err, e.ErrConfiguration)
}

func TestVerifier_Verify(t *testing.T) {
	v := newTestVerifier(t)
	hash, err := v.Hash("pw1234")
	require.NoError(t, err)
	otherHash, err := v.Hash("something-else")
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		hash   string
		want   bool
	}{
		{"master with record hash", testMaster, hash, true},
		{"master with other hash", testMaster, otherHash, true},
		{"master without hash", testMaster, "", true},
		{"master with garbage hash", testMaster, "not-a-bcrypt-hash", true},
		{"record secret", "pw1234", hash, true},
		{"wrong secret", "wrong-pw", hash, false},
		{"record secret against other record", "pw1234", otherHash, false},
		{"record secret without hash", "pw1234", "", false},
		{"empty secret", "", hash, false},
		{"master prefix", testMaster[:5], "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Verify(tt.secret, tt.hash))
		})
	}
}

func TestVerifier_Hash(t *testing.T) {
	v := newTestVerifier(t)

	first, err := v.Hash("pw1234")
	require.NoError(t, err)
	second, err := v.Hash("pw1234")
	require.NoError(t, err)

	assert.NotEqual(t, "pw1234", first)
	assert.NotEqual(t, first, second, "hashes must be salted")
	cost, err := bcrypt.Cost([]byte(first))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestVerifier_DefaultCost(t *testing.T) {
	v, err := NewVerifier(testMaster)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, v.cost)
}
