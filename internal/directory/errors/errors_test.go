package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", Invalid("name must be between %d and %d characters", 2, 100), CodeValidation},
		{"wrapped secret", fmt.Errorf("update company: %w", ErrInvalidSecret), CodeInvalidAuth},
		{"not found", ErrNotFound, CodeNotFound},
		{"upload", fmt.Errorf("%w: put object", ErrUploadFailed), CodeUploadFailed},
		{"upstream", ErrUpstream, CodeUpstream},
		{"configuration", ErrConfiguration, CodeInternal},
		{"unknown", errors.New("boom"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestInvalid(t *testing.T) {
	err := Invalid("content must be between %d and %d characters", 10, 2000)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "invalid input: content must be between 10 and 2000 characters", err.Error())
}

func TestUploadFailedIsUpstream(t *testing.T) {
	assert.ErrorIs(t, ErrUploadFailed, ErrUpstream)
}
