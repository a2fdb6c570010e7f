package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WithdrawalStatus string

const (
	WithdrawalPending WithdrawalStatus = "pending"
)

// WithdrawalRequest is an append-only record of a payout intent.
// Name and Email are copied from the user at request time.
type WithdrawalRequest struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID int64              `bson:"user_id"`
	Name   string             `bson:"name"`
	Email  string             `bson:"email"`
	Amount Money              `bson:"amount"`
	UPI    string             `bson:"upi"`
	Status WithdrawalStatus   `bson:"status,omitempty"`
	Date   time.Time          `bson:"date"`
}
