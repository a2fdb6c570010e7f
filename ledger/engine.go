// Package ledger owns every balance and referral-count mutation. Each
// operation maps to one atomic store update; nothing here reads a balance
// and writes it back.
package ledger

import (
	"context"
	"errors"
	"log/slog"

	"earning-bot/apperrors"
	"earning-bot/logger"
	"earning-bot/metrics"
	"earning-bot/models"
	"earning-bot/store"
)

type CheckinResult int

const (
	Granted CheckinResult = iota
	AlreadyClaimed
)

func (r CheckinResult) String() string {
	if r == Granted {
		return "granted"
	}
	return "already_claimed"
}

type Engine struct {
	store store.Store
	log   *slog.Logger
}

func NewEngine(s store.Store) *Engine {
	return &Engine{store: s, log: logger.Component("ledger")}
}

// CreditReferral credits the referral bonus for refereeID to referrerID.
// A repeated call for the same referee is a no-op and reports false. A
// missing referrer is logged and returned as an integrity error.
func (e *Engine) CreditReferral(ctx context.Context, referrerID, refereeID int64, amount models.Money) (bool, error) {
	credited, err := e.store.CreditReferral(ctx, referrerID, refereeID, amount)
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		metrics.ReferralCredits.WithLabelValues("missing_referrer").Inc()
		e.log.Warn("⚠️ referral credit to unknown referrer",
			"referrer_id", referrerID, "referee_id", refereeID)
		return false, err
	case err != nil:
		metrics.ReferralCredits.WithLabelValues(metrics.ResultError).Inc()
		e.log.Error("❌ referral credit failed",
			"referrer_id", referrerID, "referee_id", refereeID, "err", err)
		return false, err
	case !credited:
		metrics.ReferralCredits.WithLabelValues("duplicate").Inc()
		e.log.Debug("referral already credited", "referrer_id", referrerID, "referee_id", refereeID)
		return false, nil
	}

	metrics.ReferralCredits.WithLabelValues(metrics.ResultOK).Inc()
	e.log.Info("✅ referral credited",
		"referrer_id", referrerID, "referee_id", refereeID, "amount", amount.String())
	return true, nil
}

// ClaimDailyReward grants amount once per calendar date.
func (e *Engine) ClaimDailyReward(ctx context.Context, userID int64, today models.Date, amount models.Money) (CheckinResult, error) {
	granted, err := e.store.ClaimDaily(ctx, userID, today, amount)
	if err != nil {
		metrics.DailyClaims.WithLabelValues(metrics.ResultError).Inc()
		if !apperrors.IsIntegrity(err) {
			e.log.Error("❌ daily claim failed", "user_id", userID, "err", err)
		}
		return AlreadyClaimed, err
	}
	if !granted {
		metrics.DailyClaims.WithLabelValues(AlreadyClaimed.String()).Inc()
		return AlreadyClaimed, nil
	}
	metrics.DailyClaims.WithLabelValues(Granted.String()).Inc()
	e.log.Info("✅ daily reward granted", "user_id", userID, "date", today, "amount", amount.String())
	return Granted, nil
}

// DebitAll zeroes the user's balance and returns the amount removed.
func (e *Engine) DebitAll(ctx context.Context, userID int64) (models.Money, error) {
	amount, err := e.store.DebitAll(ctx, userID)
	if err != nil {
		e.log.Error("❌ debit failed", "user_id", userID, "err", err)
		return 0, err
	}
	if amount > 0 {
		e.log.Info("balance debited", "user_id", userID, "amount", amount.String())
	}
	return amount, nil
}

// Refund puts back an amount taken by DebitAll whose withdrawal record
// could not be written.
func (e *Engine) Refund(ctx context.Context, userID int64, amount models.Money) error {
	if amount <= 0 {
		return nil
	}
	if err := e.store.Credit(ctx, userID, amount); err != nil {
		e.log.Error("❌ refund failed; balance needs manual correction",
			"user_id", userID, "amount", amount.String(), "err", err)
		return err
	}
	e.log.Warn("⚠️ withdrawal refunded", "user_id", userID, "amount", amount.String())
	return nil
}
