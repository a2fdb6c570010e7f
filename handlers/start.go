package handlers

import (
	"context"
	"errors"
	"fmt"

	"earning-bot/models"
	"earning-bot/registration"
	"earning-bot/utils"

	"gopkg.in/telebot.v3"
)

func (h *Handler) onStart(c telebot.Context) error {
	ctx, cancel := h.ctx()
	defer cancel()

	res, err := h.reg.Start(ctx, c.Sender().ID, c.Message().Payload)
	if err != nil {
		return h.fail(c, err)
	}
	if res.Registered() {
		return h.enter(ctx, c, res.User)
	}

	kb := &telebot.ReplyMarkup{}
	kb.Inline(kb.Row(btnAgree))
	return c.Send(termsText(), kb, telebot.ModeHTML)
}

func (h *Handler) onAgree(c telebot.Context) error {
	_ = c.Respond()
	ctx, cancel := h.ctx()
	defer cancel()

	err := h.reg.AcceptConsent(ctx, c.Sender().ID)
	if errors.Is(err, registration.ErrAlreadyRegistered) {
		u, err := h.currentUser(ctx, c)
		if u == nil {
			return err
		}
		return h.enter(ctx, c, u)
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.Send("📧 Please send your email address.", &telebot.ReplyMarkup{RemoveKeyboard: true})
}

func (h *Handler) onEmail(c telebot.Context) error {
	ctx, cancel := h.ctx()
	defer cancel()

	sender := c.Sender()
	reg, err := h.reg.SubmitEmail(ctx, sender.ID, displayName(sender), c.Text())
	if errors.Is(err, registration.ErrAlreadyRegistered) {
		u, err := h.currentUser(ctx, c)
		if u == nil {
			return err
		}
		return h.enter(ctx, c, u)
	}
	if err != nil {
		return h.fail(c, err)
	}

	if reg.CreditedReferrer != 0 {
		h.notifyReferrer(c.Bot(), reg.CreditedReferrer, reg.User)
	}
	if err := c.Send("✅ Registration complete!"); err != nil {
		return err
	}
	return h.enter(ctx, c, reg.User)
}

// notifyReferrer tells the referrer about the bonus. The credit is already
// stored, so a delivery failure is only logged.
func (h *Handler) notifyReferrer(b *telebot.Bot, referrerID int64, referee *models.User) {
	text := fmt.Sprintf("🎉 %s joined with your link! You earned %s.",
		referee.Name, formatMoney(h.printer, h.settings.ReferralBonus))
	if _, err := b.Send(&telebot.User{ID: referrerID}, text); err != nil {
		h.log.Warn("⚠️ referrer notification failed", "user_id", referrerID, "err", err)
	}
}

// enter runs the access gate for a registered user: dashboard for members,
// join prompt for everyone else.
func (h *Handler) enter(ctx context.Context, c telebot.Context, u *models.User) error {
	if !h.gate.Allowed(ctx, u.ID) {
		return h.sendJoinPrompt(c)
	}
	return h.sendDashboard(c, u)
}

func (h *Handler) sendJoinPrompt(c telebot.Context) error {
	kb := &telebot.ReplyMarkup{}
	kb.Inline(
		kb.Row(kb.URL("📢 Join Channel", h.settings.ChannelLink)),
		kb.Row(btnCheckJoin),
	)
	return c.Send("🚫 Please join our channel to use the bot, then tap <b>I've Joined</b>.", kb, telebot.ModeHTML)
}

func (h *Handler) sendDashboard(c telebot.Context, u *models.User) error {
	greeting := utils.Greeting(utils.NowIn(h.settings.Location))
	return c.Send(dashboardText(h.printer, u, greeting), menu, telebot.ModeHTML)
}

func (h *Handler) onCheckJoin(c telebot.Context) error {
	ctx, cancel := h.ctx()
	defer cancel()

	if !h.gate.Allowed(ctx, c.Sender().ID) {
		return c.Respond(&telebot.CallbackResponse{
			Text:      "❌ You haven't joined the channel yet.",
			ShowAlert: true,
		})
	}
	_ = c.Respond()

	u, err := h.currentUser(ctx, c)
	if u == nil {
		return err
	}
	return h.sendDashboard(c, u)
}
