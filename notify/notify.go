// Package notify delivers withdrawal alerts to the admins. Delivery is
// best-effort: failures are logged and counted, never returned to the
// workflow that raised the alert.
package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"earning-bot/models"
)

// Sink delivers a text message to one recipient.
type Sink interface {
	Notify(ctx context.Context, recipientID int64, text string) error
}

// Recorder keeps an out-of-band copy of a withdrawal request, e.g. a
// spreadsheet row.
type Recorder interface {
	Record(ctx context.Context, req models.WithdrawalRequest) error
}

// WithdrawalAlert renders the admin message for req as Telegram HTML.
func WithdrawalAlert(req models.WithdrawalRequest) string {
	return fmt.Sprintf(
		"🔔 <b>NEW WITHDRAW</b>\n\n"+
			"👤 Name: %s\n"+
			"📧 Email: %s\n"+
			"🆔 User ID: <code>%d</code>\n"+
			"🏦 UPI: <code>%s</code>\n"+
			"💰 Amount: ₹%s\n"+
			"🕒 %s",
		html.EscapeString(req.Name),
		html.EscapeString(req.Email),
		req.UserID,
		html.EscapeString(req.UPI),
		req.Amount.String(),
		req.Date.UTC().Format(time.RFC3339),
	)
}
