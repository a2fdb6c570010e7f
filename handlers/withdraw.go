package handlers

import (
	"fmt"

	"gopkg.in/telebot.v3"
)

func (h *Handler) onWithdraw(c telebot.Context) error {
	h.supersede(c)
	ctx, cancel := h.ctx()
	defer cancel()

	balance, err := h.withdrawals.Request(ctx, c.Sender().ID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Send(fmt.Sprintf(
		"💸 You are withdrawing <b>%s</b>.\n\nPlease send your UPI ID (e.g. name@upi).\nSend /cancel to stop.",
		formatMoney(h.printer, balance),
	), telebot.ModeHTML)
}

func (h *Handler) onUPI(c telebot.Context) error {
	ctx, cancel := h.ctx()
	defer cancel()

	req, err := h.withdrawals.SubmitAddress(ctx, c.Sender().ID, c.Text())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Send(withdrawalDoneText(h.printer, req), menu, telebot.ModeHTML)
}
