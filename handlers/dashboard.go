package handlers

import (
	"bytes"

	"earning-bot/ledger"
	"earning-bot/utils"

	"gopkg.in/telebot.v3"
)

// Every dashboard action supersedes whatever step the user was in.
func (h *Handler) supersede(c telebot.Context) {
	ctx, cancel := h.ctx()
	defer cancel()
	if err := h.sessions.Clear(ctx, c.Sender().ID); err != nil {
		h.log.Warn("⚠️ could not clear pending step", "user_id", c.Sender().ID, "err", err)
	}
}

func (h *Handler) onBalance(c telebot.Context) error {
	h.supersede(c)
	ctx, cancel := h.ctx()
	defer cancel()

	u, err := h.currentUser(ctx, c)
	if u == nil {
		return err
	}
	return c.Send(balanceText(h.printer, u, h.settings.MinWithdraw), menu, telebot.ModeHTML)
}

func (h *Handler) onInvite(c telebot.Context) error {
	h.supersede(c)
	ctx, cancel := h.ctx()
	defer cancel()

	u, err := h.currentUser(ctx, c)
	if u == nil {
		return err
	}

	link := utils.ReferralLink(c.Bot().Me.Username, u.ID)
	text := inviteText(h.printer, link, u.Referrals, h.settings.ReferralBonus)

	png, err := utils.ReferralQR(link)
	if err != nil {
		h.log.Warn("⚠️ QR generation failed", "user_id", u.ID, "err", err)
		return c.Send(text, menu, telebot.ModeHTML)
	}
	photo := &telebot.Photo{
		File:    telebot.FromReader(bytes.NewReader(png)),
		Caption: text,
	}
	return c.Send(photo, menu, telebot.ModeHTML)
}

func (h *Handler) onDailyTask(c telebot.Context) error {
	h.supersede(c)

	kb := &telebot.ReplyMarkup{}
	kb.Inline(kb.Row(btnClaim))
	return c.Send(dailyTaskText(h.printer, h.settings.ChannelLink, h.settings.DailyReward), kb, telebot.ModeHTML)
}

func (h *Handler) onClaimDaily(c telebot.Context) error {
	ctx, cancel := h.ctx()
	defer cancel()

	today := utils.Today(h.settings.Location)
	res, err := h.ledger.ClaimDailyReward(ctx, c.Sender().ID, today, h.settings.DailyReward)
	if err != nil {
		_ = c.Respond()
		return h.fail(c, err)
	}
	if res == ledger.AlreadyClaimed {
		return c.Respond(&telebot.CallbackResponse{
			Text:      "⏳ You already claimed today's reward. Come back tomorrow!",
			ShowAlert: true,
		})
	}
	return c.Respond(&telebot.CallbackResponse{
		Text:      "✅ " + formatMoney(h.printer, h.settings.DailyReward) + " added to your balance!",
		ShowAlert: true,
	})
}
