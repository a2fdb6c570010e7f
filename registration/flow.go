// Package registration drives a new user from /start through consent and
// email capture to a stored account, crediting the referrer if any.
//
// Nothing is written to the store before the email is accepted; the
// pending referrer travels in the session.
package registration

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"earning-bot/apperrors"
	"earning-bot/ledger"
	"earning-bot/logger"
	"earning-bot/metrics"
	"earning-bot/models"
	"earning-bot/session"
	"earning-bot/store"
)

var (
	ErrInvalidEmail = &apperrors.Error{
		Kind: apperrors.ErrValidation, Op: "registration",
		Msg: "❌ That doesn't look like an email address. Please send a valid email.",
	}
	ErrNoPendingRegistration = &apperrors.Error{
		Kind: apperrors.ErrValidation, Op: "registration",
		Msg: "This step has expired. Send /start to begin again.",
	}
	ErrAlreadyRegistered = &apperrors.Error{
		Kind: apperrors.ErrIntegrity, Op: "registration",
		Msg: "already registered",
	}
)

type StartResult struct {
	// User is set when the caller is already registered.
	User *models.User
	// Referrer is the attributed referrer of a new registration, or 0.
	Referrer int64
}

func (r StartResult) Registered() bool { return r.User != nil }

type Registration struct {
	User *models.User
	// CreditedReferrer is the referrer that received a bonus just now, or 0.
	CreditedReferrer int64
}

type Flow struct {
	store    store.Store
	ledger   *ledger.Engine
	sessions session.Store
	bonus    models.Money
	now      func() time.Time
	log      *slog.Logger
}

func NewFlow(s store.Store, l *ledger.Engine, sessions session.Store, bonus models.Money) *Flow {
	return &Flow{
		store:    s,
		ledger:   l,
		sessions: sessions,
		bonus:    bonus,
		now:      time.Now,
		log:      logger.Component("registration"),
	}
}

// Start handles /start with an optional deep-link payload. A registered
// user gets any unsettled referral retried and has its pending step
// cleared. A new user is left awaiting consent.
func (f *Flow) Start(ctx context.Context, userID int64, payload string) (StartResult, error) {
	u, err := f.store.GetUser(ctx, userID)
	switch {
	case err == nil:
		if err := f.sessions.Clear(ctx, userID); err != nil {
			return StartResult{}, err
		}
		if u.ReferralPending() {
			f.settleReferral(ctx, u)
		}
		return StartResult{User: u}, nil
	case !errors.Is(err, store.ErrUserNotFound):
		return StartResult{}, err
	}

	referrer, err := f.resolveReferrer(ctx, userID, payload)
	if err != nil {
		return StartResult{}, err
	}
	p := session.Pending{Step: session.StepAwaitingConsent, Referrer: referrer}
	if err := f.sessions.Set(ctx, userID, p); err != nil {
		return StartResult{}, err
	}
	return StartResult{Referrer: referrer}, nil
}

// AcceptConsent moves a pending registration on to email capture.
func (f *Flow) AcceptConsent(ctx context.Context, userID int64) error {
	if _, err := f.store.GetUser(ctx, userID); err == nil {
		return ErrAlreadyRegistered
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return err
	}

	p, ok, err := f.sessions.Take(ctx, userID, session.StepAwaitingConsent)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoPendingRegistration
	}
	return f.sessions.Set(ctx, userID, session.Pending{Step: session.StepAwaitingEmail, Referrer: p.Referrer})
}

// SubmitEmail creates the account. An invalid address leaves the pending
// step in place so the user can retry.
func (f *Flow) SubmitEmail(ctx context.Context, userID int64, name, text string) (*Registration, error) {
	p, err := f.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.Step != session.StepAwaitingEmail {
		return nil, ErrNoPendingRegistration
	}

	email := strings.TrimSpace(text)
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	p, ok, err := f.sessions.Take(ctx, userID, session.StepAwaitingEmail)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoPendingRegistration
	}

	u := &models.User{
		ID:         userID,
		Name:       name,
		Email:      email,
		JoinedDate: f.now().UTC(),
	}
	if p.Referrer != 0 && p.Referrer != userID {
		ref := p.Referrer
		u.Referrer = &ref
	}

	if err := f.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			f.log.Info("duplicate registration ignored", "user_id", userID)
			return nil, ErrAlreadyRegistered
		}
		// Put the step back so the same email can be resent.
		if rerr := f.sessions.Set(ctx, userID, p); rerr != nil {
			f.log.Warn("⚠️ could not restore pending registration", "user_id", userID, "err", rerr)
		}
		return nil, err
	}
	metrics.Registrations.Inc()
	f.log.Info("✅ new user registered", "user_id", userID, "referrer_id", p.Referrer)

	reg := &Registration{User: u}
	if u.HasReferrer() && f.settleReferral(ctx, u) {
		reg.CreditedReferrer = *u.Referrer
	}
	return reg, nil
}

// settleReferral credits u's referrer and marks the referral settled. A
// failure is logged and left for the next /start to retry. It reports
// whether a bonus was applied by this call.
func (f *Flow) settleReferral(ctx context.Context, u *models.User) bool {
	credited, err := f.ledger.CreditReferral(ctx, *u.Referrer, u.ID, f.bonus)
	if err != nil && !errors.Is(err, store.ErrUserNotFound) {
		f.log.Warn("⚠️ referral left unsettled", "user_id", u.ID, "referrer_id", *u.Referrer, "err", err)
		return false
	}
	if err := f.store.MarkReferralSettled(ctx, u.ID); err != nil {
		f.log.Warn("⚠️ could not mark referral settled", "user_id", u.ID, "err", err)
		return credited
	}
	u.ReferralSettled = true
	return credited
}

// resolveReferrer parses the deep-link payload. Anything but the id of an
// existing other user resolves to no referrer.
func (f *Flow) resolveReferrer(ctx context.Context, userID int64, payload string) (int64, error) {
	id, ok := ParseReferrer(payload)
	if !ok || id == userID {
		return 0, nil
	}
	if _, err := f.store.GetUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			f.log.Debug("unknown referrer dropped", "user_id", userID, "referrer_id", id)
			return 0, nil
		}
		return 0, err
	}
	return id, nil
}

// ParseReferrer reads a referrer id from a /start payload. Only plain
// positive decimal ids are accepted.
func ParseReferrer(payload string) (int64, bool) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return 0, false
	}
	for _, r := range payload {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ValidEmail applies the onboarding check: the address must contain both
// "@" and ".".
func ValidEmail(s string) bool {
	return strings.Contains(s, "@") && strings.Contains(s, ".")
}
