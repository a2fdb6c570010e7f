// Package membership answers channel-membership queries through the
// Telegram Bot API.
package membership

import (
	"context"

	"earning-bot/gate"

	"gopkg.in/telebot.v3"
)

// ChatMemberGetter is the part of *telebot.Bot the oracle needs.
type ChatMemberGetter interface {
	ChatMemberOf(chat, user telebot.Recipient) (*telebot.ChatMember, error)
}

type TelebotOracle struct {
	bot ChatMemberGetter
}

func NewTelebotOracle(bot ChatMemberGetter) *TelebotOracle {
	return &TelebotOracle{bot: bot}
}

// QueryMembership looks the user up in the channel. The bot must be an
// administrator of the channel; otherwise Telegram returns an error.
func (o *TelebotOracle) QueryMembership(ctx context.Context, channelID, userID int64) (gate.MemberStatus, error) {
	if err := ctx.Err(); err != nil {
		return gate.StatusOther, err
	}
	member, err := o.bot.ChatMemberOf(&telebot.Chat{ID: channelID}, &telebot.User{ID: userID})
	if err != nil {
		return gate.StatusOther, err
	}
	return statusOf(member), nil
}

func statusOf(m *telebot.ChatMember) gate.MemberStatus {
	switch m.Role {
	case telebot.Creator:
		return gate.StatusCreator
	case telebot.Administrator:
		return gate.StatusAdmin
	case telebot.Member:
		return gate.StatusMember
	default:
		// Restricted users that are still in the chat count as members.
		if m.Role == telebot.Restricted && m.Member {
			return gate.StatusMember
		}
		return gate.StatusOther
	}
}
