// Package withdrawal runs the payout request flow: eligibility check, UPI
// prompt, atomic debit, durable record, admin alert.
package withdrawal

import (
	"context"
	"fmt"
	"log/slog"
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
	ErrNoPendingWithdrawal = &apperrors.Error{
		Kind: apperrors.ErrValidation, Op: "withdrawal",
		Msg: "No withdrawal in progress. Tap 💸 Withdraw to start one.",
	}
	ErrNothingToWithdraw = &apperrors.Error{
		Kind: apperrors.ErrValidation, Op: "withdrawal",
		Msg: "Your balance is empty, there is nothing to withdraw.",
	}
	ErrEmptyAddress = &apperrors.Error{
		Kind: apperrors.ErrValidation, Op: "withdrawal",
		Msg: "Please send your UPI ID.",
	}
)

// BelowMinimumError rejects a request whose balance is under the minimum.
type BelowMinimumError struct {
	Balance models.Money
	Minimum models.Money
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("withdrawal: balance %s below minimum %s", e.Balance, e.Minimum)
}

func (e *BelowMinimumError) Unwrap() error { return apperrors.ErrValidation }

func (e *BelowMinimumError) Shortfall() models.Money { return e.Minimum - e.Balance }

func (e *BelowMinimumError) UserMessage() string {
	return fmt.Sprintf("❌ Minimum withdrawal is ₹%s. You need ₹%s more.", e.Minimum, e.Shortfall())
}

// Alerter is told about every persisted request. It must not block.
type Alerter interface {
	WithdrawalSubmitted(ctx context.Context, req models.WithdrawalRequest)
}

type Workflow struct {
	store    store.Store
	ledger   *ledger.Engine
	sessions session.Store
	alerter  Alerter
	minimum  models.Money
	now      func() time.Time
	log      *slog.Logger
}

func NewWorkflow(s store.Store, l *ledger.Engine, sessions session.Store, alerter Alerter, minimum models.Money) *Workflow {
	return &Workflow{
		store:    s,
		ledger:   l,
		sessions: sessions,
		alerter:  alerter,
		minimum:  minimum,
		now:      time.Now,
		log:      logger.Component("withdrawal"),
	}
}

// Request checks eligibility and, if the balance is high enough, leaves the
// user waiting for a UPI address. It returns the balance seen.
func (w *Workflow) Request(ctx context.Context, userID int64) (models.Money, error) {
	u, err := w.store.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if u.Balance < w.minimum {
		metrics.Withdrawals.WithLabelValues("below_minimum").Inc()
		return u.Balance, &BelowMinimumError{Balance: u.Balance, Minimum: w.minimum}
	}
	if err := w.sessions.Set(ctx, userID, session.Pending{Step: session.StepAwaitingUPI}); err != nil {
		return u.Balance, err
	}
	return u.Balance, nil
}

// SubmitAddress completes a pending request. The amount recorded is exactly
// what DebitAll removed. If the record cannot be written the amount is
// refunded and the error returned.
func (w *Workflow) SubmitAddress(ctx context.Context, userID int64, upi string) (*models.WithdrawalRequest, error) {
	upi = strings.TrimSpace(upi)
	if upi == "" {
		return nil, ErrEmptyAddress
	}

	if _, ok, err := w.sessions.Take(ctx, userID, session.StepAwaitingUPI); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNoPendingWithdrawal
	}

	u, err := w.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	amount, err := w.ledger.DebitAll(ctx, userID)
	if err != nil {
		metrics.Withdrawals.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}
	if amount == 0 {
		metrics.Withdrawals.WithLabelValues("empty").Inc()
		return nil, ErrNothingToWithdraw
	}

	req := &models.WithdrawalRequest{
		UserID: userID,
		Name:   u.Name,
		Email:  u.Email,
		Amount: amount,
		UPI:    upi,
		Status: models.WithdrawalPending,
		Date:   w.now().UTC(),
	}
	if err := w.store.InsertWithdrawal(ctx, req); err != nil {
		metrics.Withdrawals.WithLabelValues("refunded").Inc()
		w.log.Error("❌ withdrawal record failed, refunding", "user_id", userID, "amount", amount.String(), "err", err)
		if rerr := w.ledger.Refund(context.WithoutCancel(ctx), userID, amount); rerr != nil {
			return nil, rerr
		}
		return nil, err
	}

	metrics.Withdrawals.WithLabelValues(metrics.ResultOK).Inc()
	w.log.Info("✅ withdrawal submitted",
		"user_id", userID, "amount", amount.String(), "request_id", req.ID.Hex())
	w.alerter.WithdrawalSubmitted(ctx, *req)
	return req, nil
}
