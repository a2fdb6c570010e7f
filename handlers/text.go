package handlers

import (
	"strings"

	"earning-bot/session"

	"gopkg.in/telebot.v3"
)

// onText routes free text by the sender's pending step. Unknown commands
// cancel the pending step.
func (h *Handler) onText(c telebot.Context) error {
	ctx, cancel := h.ctx()
	defer cancel()

	userID := c.Sender().ID
	text := c.Text()

	if strings.HasPrefix(text, "/") {
		if err := h.sessions.Clear(ctx, userID); err != nil {
			return h.fail(c, err)
		}
		return c.Send("❓ Unknown command. Send /start to open your dashboard.")
	}

	p, err := h.sessions.Get(ctx, userID)
	if err != nil {
		return h.fail(c, err)
	}

	switch p.Step {
	case session.StepAwaitingEmail:
		return h.onEmail(c)
	case session.StepAwaitingUPI:
		return h.onUPI(c)
	case session.StepAwaitingConsent:
		return c.Send("👆 Please tap <b>I Agree</b> above to continue, or /start to see the terms again.", telebot.ModeHTML)
	default:
		return c.Send("Use the menu below, or send /start.", menu)
	}
}

func (h *Handler) onCancel(c telebot.Context) error {
	ctx, cancel := h.ctx()
	defer cancel()

	if err := h.sessions.Clear(ctx, c.Sender().ID); err != nil {
		return h.fail(c, err)
	}
	return c.Send("❌ Cancelled.", menu)
}
