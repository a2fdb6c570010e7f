package handlers

import (
	"fmt"
	"html"

	"earning-bot/models"

	"golang.org/x/text/message"
)

// formatMoney renders m as rupees with grouped thousands, e.g. "₹1,234.50".
func formatMoney(p *message.Printer, m models.Money) string {
	rupees, paise := m.Split()
	return p.Sprintf("₹%d.%02d", rupees, paise)
}

func termsText() string {
	return "📜 <b>Terms &amp; Conditions</b>\n\n" +
		"1. One account per person. Duplicate or fake accounts are removed.\n" +
		"2. Referral bonuses are paid only for real users who join through your link.\n" +
		"3. Withdrawals are reviewed and paid manually to the UPI ID you provide.\n" +
		"4. Balances of accounts found abusing the bot may be reset.\n\n" +
		"Tap <b>I Agree</b> to continue."
}

func dashboardText(p *message.Printer, u *models.User, greeting string) string {
	return fmt.Sprintf(
		"%s, <b>%s</b>! 👋\n\n"+
			"💰 Balance: <b>%s</b>\n"+
			"📧 Email: %s\n\n"+
			"Use the menu below to earn and withdraw.",
		greeting,
		html.EscapeString(u.Name),
		formatMoney(p, u.Balance),
		html.EscapeString(u.Email),
	)
}

func balanceText(p *message.Printer, u *models.User, minimum models.Money) string {
	return fmt.Sprintf(
		"💰 <b>Your Balance</b>\n\n"+
			"Balance: <b>%s</b>\n"+
			"Referrals: <b>%d</b>\n\n"+
			"Minimum withdrawal: %s",
		formatMoney(p, u.Balance), u.Referrals, formatMoney(p, minimum),
	)
}

func inviteText(p *message.Printer, link string, referrals int, bonus models.Money) string {
	text := fmt.Sprintf(
		"🔗 <b>Invite &amp; Earn</b>\n\n"+
			"Share your link:\n%s\n\n"+
			"👥 Referrals so far: <b>%d</b>",
		html.EscapeString(link), referrals,
	)
	if bonus > 0 {
		text += fmt.Sprintf("\n🎁 You earn <b>%s</b> for every friend who registers.", formatMoney(p, bonus))
	}
	return text
}

func dailyTaskText(p *message.Printer, channelLink string, reward models.Money) string {
	return fmt.Sprintf(
		"📋 <b>Daily Task</b>\n\n"+
			"1. Check today's post in our channel: %s\n"+
			"2. Tap the button below to claim <b>%s</b>.\n\n"+
			"You can claim once per day.",
		html.EscapeString(channelLink), formatMoney(p, reward),
	)
}

func withdrawalDoneText(p *message.Printer, req *models.WithdrawalRequest) string {
	return fmt.Sprintf(
		"✅ <b>Withdrawal request submitted!</b>\n\n"+
			"Amount: <b>%s</b>\n"+
			"UPI: <code>%s</code>\n\n"+
			"Payments are processed manually, usually within 24-48 hours.",
		formatMoney(p, req.Amount), html.EscapeString(req.UPI),
	)
}
