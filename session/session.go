// Package session tracks the one multi-step flow a user may be in the
// middle of (consent, email entry, UPI entry).
package session

import (
	"context"
)

type Step string

const (
	StepNone            Step = ""
	StepAwaitingConsent Step = "awaiting_consent"
	StepAwaitingEmail   Step = "awaiting_email"
	StepAwaitingUPI     Step = "awaiting_upi"
)

// Pending is a user's in-progress flow. Referrer is carried from /start
// through to account creation and is zero when there is none.
type Pending struct {
	Step     Step  `json:"step"`
	Referrer int64 `json:"referrer,omitempty"`
}

// Store holds at most one Pending per user. A new Set replaces the old one.
type Store interface {
	Get(ctx context.Context, userID int64) (Pending, error)
	Set(ctx context.Context, userID int64, p Pending) error
	Clear(ctx context.Context, userID int64) error

	// Take removes and returns the pending flow only if it is at step.
	// Concurrent callers racing on the same step see exactly one winner.
	Take(ctx context.Context, userID int64, step Step) (Pending, bool, error)
}
