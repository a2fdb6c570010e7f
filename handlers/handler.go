// Package handlers is the Telegram front end. It maps commands, menu
// buttons and free text onto the registration, ledger and withdrawal
// components and renders their results.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"earning-bot/apperrors"
	"earning-bot/ledger"
	"earning-bot/logger"
	"earning-bot/middleware"
	"earning-bot/models"
	"earning-bot/registration"
	"earning-bot/session"
	"earning-bot/store"
	"earning-bot/withdrawal"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/telebot.v3"
)

const opTimeout = 10 * time.Second

var (
	menu        = &telebot.ReplyMarkup{ResizeKeyboard: true}
	btnBalance  = menu.Text("💰 Balance")
	btnInvite   = menu.Text("🔗 Invite")
	btnWithdraw = menu.Text("💸 Withdraw")
	btnDaily    = menu.Text("📋 Daily Task")

	btnAgree     = telebot.Btn{Unique: "agree_terms", Text: "✅ I Agree"}
	btnCheckJoin = telebot.Btn{Unique: "check_join", Text: "✅ I've Joined"}
	btnClaim     = telebot.Btn{Unique: "claim_daily", Text: "🎁 Claim Daily Reward"}
)

func init() {
	menu.Reply(
		menu.Row(btnBalance, btnInvite),
		menu.Row(btnWithdraw, btnDaily),
	)
}

type Settings struct {
	ChannelLink   string
	ReferralBonus models.Money
	DailyReward   models.Money
	MinWithdraw   models.Money
	Location      *time.Location
}

type Deps struct {
	Store        store.Store
	Sessions     session.Store
	Gate         middleware.MembershipChecker
	Ledger       *ledger.Engine
	Registration *registration.Flow
	Withdrawals  *withdrawal.Workflow
}

type Handler struct {
	store       store.Store
	sessions    session.Store
	gate        middleware.MembershipChecker
	ledger      *ledger.Engine
	reg         *registration.Flow
	withdrawals *withdrawal.Workflow

	settings Settings
	printer  *message.Printer
	log      *slog.Logger
}

func New(d Deps, s Settings) *Handler {
	if s.Location == nil {
		s.Location = time.UTC
	}
	return &Handler{
		store:       d.Store,
		sessions:    d.Sessions,
		gate:        d.Gate,
		ledger:      d.Ledger,
		reg:         d.Registration,
		withdrawals: d.Withdrawals,
		settings:    s,
		printer:     message.NewPrinter(language.English),
		log:         logger.Component("handlers"),
	}
}

// Register installs every endpoint on b. Global middleware must already
// be installed with b.Use.
func (h *Handler) Register(b *telebot.Bot) {
	b.Handle("/start", h.onStart)
	b.Handle("/cancel", h.onCancel)
	b.Handle(&btnAgree, h.onAgree)
	b.Handle(&btnCheckJoin, h.onCheckJoin)

	dash := b.Group()
	dash.Use(middleware.MustJoinChannel(h.gate, h.sendJoinPrompt))
	dash.Handle(&btnBalance, h.onBalance)
	dash.Handle(&btnInvite, h.onInvite)
	dash.Handle(&btnWithdraw, h.onWithdraw)
	dash.Handle(&btnDaily, h.onDailyTask)
	dash.Handle(&btnClaim, h.onClaimDaily)

	b.Handle(telebot.OnText, h.onText)
}

// Commands is the command list shown in the Telegram client.
func Commands() []telebot.Command {
	return []telebot.Command{
		{Text: "start", Description: "Start or open your dashboard"},
		{Text: "cancel", Description: "Cancel the current step"},
	}
}

func (h *Handler) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// currentUser loads the sender's account. When the sender is not
// registered it tells them to /start and returns a nil user.
func (h *Handler) currentUser(ctx context.Context, c telebot.Context) (*models.User, error) {
	u, err := h.store.GetUser(ctx, c.Sender().ID)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, c.Send("👋 You are not registered yet. Send /start to begin.")
	}
	if err != nil {
		return nil, h.fail(c, err)
	}
	return u, nil
}

// fail reports err to the user: validation errors get their own message,
// everything else a generic retry notice.
func (h *Handler) fail(c telebot.Context, err error) error {
	if msg := apperrors.UserMessage(err); msg != "" {
		return c.Send(msg)
	}
	if errors.Is(err, store.ErrUserNotFound) {
		return c.Send("👋 You are not registered yet. Send /start to begin.")
	}
	h.log.Error("❌ request failed", "user_id", c.Sender().ID, "err", err)
	return c.Send("⚠️ Something went wrong. Please try again.")
}

func displayName(u *telebot.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return name
}
