// Package metrics holds the bot's Prometheus counters. They are registered
// with the default registry and served by the keep-alive server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	Registrations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "earnbot_registrations_total",
			Help: "Users created by the registration flow",
		},
	)
	ReferralCredits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earnbot_referral_credits_total",
			Help: "Referral bonus credit attempts by result",
		},
		[]string{"result"},
	)
	DailyClaims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earnbot_daily_claims_total",
			Help: "Daily reward claims by result",
		},
		[]string{"result"},
	)
	Withdrawals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earnbot_withdrawals_total",
			Help: "Withdrawal submissions by result",
		},
		[]string{"result"},
	)
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earnbot_notifications_total",
			Help: "Admin notification deliveries by result",
		},
		[]string{"result"},
	)
	MembershipChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earnbot_membership_checks_total",
			Help: "Channel membership checks by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(Registrations)
	prometheus.MustRegister(ReferralCredits)
	prometheus.MustRegister(DailyClaims)
	prometheus.MustRegister(Withdrawals)
	prometheus.MustRegister(Notifications)
	prometheus.MustRegister(MembershipChecks)
}
