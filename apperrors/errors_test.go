package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"validation", Validation("email", "bad email"), IsValidation},
		{"integrity", Integrity("create", "exists"), IsIntegrity},
		{"upstream", Upstream("membership", cause), IsUpstream},
		{"persistence", Persistence("debit", cause), IsPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.is(tt.err))
			wrapped := fmt.Errorf("handler: %w", tt.err)
			assert.True(t, tt.is(wrapped))
		})
	}
}

func TestCauseIsReachable(t *testing.T) {
	cause := errors.New("socket closed")
	err := Persistence("claim", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.False(t, IsValidation(err))
	assert.Equal(t, "claim: socket closed", err.Error())
}

type shortfall struct{}

func (shortfall) Error() string       { return "below minimum" }
func (shortfall) UserMessage() string { return "need 5.00 more" }
func (shortfall) Unwrap() error       { return ErrValidation }

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "bad email", UserMessage(Validation("email", "bad email")))
	assert.Equal(t, "need 5.00 more", UserMessage(fmt.Errorf("wrap: %w", shortfall{})))
	assert.Empty(t, UserMessage(Persistence("x", errors.New("boom"))))
	assert.Empty(t, UserMessage(nil))
}
