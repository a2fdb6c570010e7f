// Package gate decides whether a registered user may see the dashboard.
// Membership is queried fresh on every call and any failure denies access.
package gate

import (
	"context"
	"log/slog"

	"earning-bot/apperrors"
	"earning-bot/logger"
	"earning-bot/metrics"
)

type MemberStatus int

const (
	StatusOther MemberStatus = iota
	StatusMember
	StatusAdmin
	StatusCreator
)

func (s MemberStatus) String() string {
	switch s {
	case StatusMember:
		return "member"
	case StatusAdmin:
		return "admin"
	case StatusCreator:
		return "creator"
	default:
		return "other"
	}
}

// IsMember reports whether s counts as membership for gating.
func (s MemberStatus) IsMember() bool {
	return s == StatusMember || s == StatusAdmin || s == StatusCreator
}

// Oracle answers membership questions about a channel.
type Oracle interface {
	QueryMembership(ctx context.Context, channelID, userID int64) (MemberStatus, error)
}

type Gate struct {
	oracle    Oracle
	channelID int64
	log       *slog.Logger
}

func New(oracle Oracle, channelID int64) *Gate {
	return &Gate{oracle: oracle, channelID: channelID, log: logger.Component("gate")}
}

// Allowed reports whether userID is currently a member of the gating channel.
func (g *Gate) Allowed(ctx context.Context, userID int64) bool {
	status, err := g.oracle.QueryMembership(ctx, g.channelID, userID)
	if err != nil {
		metrics.MembershipChecks.WithLabelValues(metrics.ResultError).Inc()
		g.log.Warn("⚠️ membership check failed, denying",
			"user_id", userID, "channel_id", g.channelID, "err", apperrors.Upstream("query membership", err))
		return false
	}
	if !status.IsMember() {
		metrics.MembershipChecks.WithLabelValues("denied").Inc()
		return false
	}
	metrics.MembershipChecks.WithLabelValues("allowed").Inc()
	return true
}
