package utils

import (
	"fmt"
	"time"

	"earning-bot/models"
)

// NowIn returns the current time in loc.
func NowIn(loc *time.Location) time.Time {
	return time.Now().In(loc)
}

// Today is the calendar date in loc, used as the daily check-in key.
func Today(loc *time.Location) models.Date {
	return models.DateOf(NowIn(loc))
}

func Greeting(t time.Time) string {
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return "Good morning"
	case hour >= 12 && hour < 17:
		return "Good afternoon"
	case hour >= 17 && hour < 21:
		return "Good evening"
	default:
		return "Hello"
	}
}

// ReferralLink is the deep link that opens the bot with the referrer's id
// as /start payload.
func ReferralLink(botUsername string, userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", botUsername, userID)
}
