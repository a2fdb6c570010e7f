// Package store persists users and withdrawal requests. Every balance
// mutation is a single atomic operation of the backing database.
package store

import (
	"context"

	"earning-bot/apperrors"
	"earning-bot/models"
)

var (
	ErrUserNotFound = &apperrors.Error{Kind: apperrors.ErrIntegrity, Op: "store", Msg: "user not found"}
	ErrUserExists   = &apperrors.Error{Kind: apperrors.ErrIntegrity, Op: "store", Msg: "user already exists"}
)

type Store interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	// CreateUser inserts u, failing with ErrUserExists if the id is taken.
	CreateUser(ctx context.Context, u *models.User) error

	// CreditReferral adds amount to the referrer's balance and bumps its
	// referral count, unless refereeID has already been credited. It
	// reports whether a credit was applied.
	CreditReferral(ctx context.Context, referrerID, refereeID int64, amount models.Money) (bool, error)
	MarkReferralSettled(ctx context.Context, userID int64) error

	// ClaimDaily sets last_checkin to today and adds amount, unless
	// last_checkin already equals today. It reports whether it did.
	ClaimDaily(ctx context.Context, userID int64, today models.Date, amount models.Money) (bool, error)

	// DebitAll zeroes the balance and returns what it was.
	DebitAll(ctx context.Context, userID int64) (models.Money, error)

	// Credit adds amount to the balance. Used only to compensate a
	// withdrawal whose record could not be written.
	Credit(ctx context.Context, userID int64, amount models.Money) error

	InsertWithdrawal(ctx context.Context, w *models.WithdrawalRequest) error
}
