package middleware

import (
	"context"

	"gopkg.in/telebot.v3"
)

// PrivateOnly drops updates that do not come from a private chat.
func PrivateOnly(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		chat := c.Chat()
		if chat == nil || chat.Type != telebot.ChatPrivate {
			return nil
		}
		return next(c)
	}
}

// MembershipChecker is satisfied by *gate.Gate.
type MembershipChecker interface {
	Allowed(ctx context.Context, userID int64) bool
}

// MustJoinChannel re-checks channel membership before every wrapped
// handler and calls onDenied instead when the user is not a member. A
// denied button press is answered first so the client stops waiting.
func MustJoinChannel(g MembershipChecker, onDenied telebot.HandlerFunc) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			sender := c.Sender()
			if sender == nil || !g.Allowed(context.Background(), sender.ID) {
				if c.Callback() != nil {
					_ = c.Respond()
				}
				return onDenied(c)
			}
			return next(c)
		}
	}
}
