package models

import "time"

type User struct {
	ID        int64  `bson:"_id"`
	Name      string `bson:"name"`
	Email     string `bson:"email"`
	Balance   Money  `bson:"balance"`
	Referrals int    `bson:"referrals"`
	Referrer  *int64 `bson:"referrer,omitempty"`
	// Ids of users whose referral bonus has been credited to this user.
	Referred        []int64   `bson:"referred,omitempty"`
	ReferralSettled bool      `bson:"referral_settled"`
	JoinedDate      time.Time `bson:"joined_date"`
	LastCheckin     Date      `bson:"last_checkin,omitempty"`
}

// HasReferrer reports whether the user was attributed to another user.
func (u *User) HasReferrer() bool {
	return u.Referrer != nil
}

// ReferralPending reports whether the referrer's bonus still has to be credited.
func (u *User) ReferralPending() bool {
	return u.Referrer != nil && !u.ReferralSettled
}
