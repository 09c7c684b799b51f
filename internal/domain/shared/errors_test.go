package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type codedError struct{ code string }

func (e *codedError) Error() string      { return e.code }
func (e *codedError) DomainCode() string { return e.code }

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"sentinel", ErrNotFound, "NOT_FOUND"},
		{"wrapped sentinel", fmt.Errorf("load product: %w", ErrVersionConflict), "VERSION_CONFLICT"},
		{"custom coder type", &codedError{code: "INSUFFICIENT_STOCK"}, "INSUFFICIENT_STOCK"},
		{"wrapped coder type", fmt.Errorf("apply delta: %w", &codedError{code: "INSUFFICIENT_STOCK"}), "INSUFFICIENT_STOCK"},
		{"plain error maps to unknown", errors.New("disk on fire"), "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CodeOf(tt.err))
		})
	}
}

func TestDomainError_SentinelIdentity(t *testing.T) {
	err := fmt.Errorf("products: %w", ErrDuplicate)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestNewDomainError(t *testing.T) {
	err := NewDomainError("INVALID_INPUT", "Quantity must be greater than zero")
	assert.Equal(t, "Quantity must be greater than zero", err.Error())
	assert.Equal(t, "INVALID_INPUT", err.DomainCode())
}
