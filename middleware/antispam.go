package middleware

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"earning-bot/logger"

	"gopkg.in/telebot.v3"
)

const (
	maxWarnings       = 5
	banDuration       = 5 * time.Minute
	inactiveThreshold = 10 * time.Minute
	cleanupInterval   = 5 * time.Minute
)

// AntiSpam throttles commands per user. Plain text and button presses pass
// through untouched so a pending email or UPI reply is never dropped.
type AntiSpam struct {
	mu           sync.RWMutex
	lastCommand  map[int64]time.Time
	warningCount map[int64]int
	banUntil     map[int64]time.Time
	commandDelay time.Duration
	ownerID      int64

	now  func() time.Time
	stop chan struct{}
	once sync.Once
	log  *slog.Logger
}

func NewAntiSpam(commandDelay time.Duration, ownerID int64) *AntiSpam {
	return &AntiSpam{
		lastCommand:  make(map[int64]time.Time),
		warningCount: make(map[int64]int),
		banUntil:     make(map[int64]time.Time),
		commandDelay: commandDelay,
		ownerID:      ownerID,
		now:          time.Now,
		stop:         make(chan struct{}),
		log:          logger.Component("antispam"),
	}
}

// Start runs the idle-state cleanup until Stop is called.
func (sp *AntiSpam) Start() {
	ticker := time.NewTicker(cleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sp.cleanup()
			case <-sp.stop:
				return
			}
		}
	}()
	sp.log.Info("✅ Anti-spam protection initialized", "delay", sp.commandDelay)
}

func (sp *AntiSpam) Stop() {
	sp.once.Do(func() { close(sp.stop) })
}

func (sp *AntiSpam) cleanup() {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	now := sp.now()
	for userID, lastTime := range sp.lastCommand {
		if now.Sub(lastTime) > inactiveThreshold {
			delete(sp.lastCommand, userID)
			delete(sp.warningCount, userID)
		}
	}
	for userID, banTime := range sp.banUntil {
		if now.After(banTime) {
			delete(sp.banUntil, userID)
			sp.log.Info("🔓 User unbanned", "user_id", userID)
		}
	}
}

func isCommand(text string) bool {
	return strings.HasPrefix(text, "/")
}

func (sp *AntiSpam) Middleware(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil || sender.ID == sp.ownerID {
			return next(c)
		}
		userID := sender.ID

		if c.Callback() != nil || !isCommand(c.Text()) {
			return next(c)
		}

		if banned, until := sp.isUserBanned(userID); banned {
			return c.Send(fmt.Sprintf(
				"🚫 <b>You are temporarily blocked for spamming.</b>\n\nTry again in %d seconds.",
				int(until.Sub(sp.now()).Seconds())+1,
			), telebot.ModeHTML)
		}

		allowed, waitTime := sp.allowCommand(userID)
		if !allowed {
			warnings := sp.addWarning(userID)
			if warnings >= maxWarnings {
				sp.banUser(userID, banDuration)
				sp.log.Warn("🚫 User banned for spam", "user_id", userID, "duration", banDuration)
				return c.Send(
					"🚫 <b>BLOCKED</b>\n\nToo many commands. You are blocked for 5 minutes.",
					telebot.ModeHTML,
				)
			}
			return c.Send(fmt.Sprintf(
				"⏰ <b>Slow down!</b>\n\nWait <b>%d seconds</b> between commands.\nWarning: %d/%d",
				int(waitTime.Seconds())+1, warnings, maxWarnings,
			), telebot.ModeHTML)
		}

		sp.resetWarnings(userID)
		sp.recordCommand(userID)
		return next(c)
	}
}

func (sp *AntiSpam) allowCommand(userID int64) (bool, time.Duration) {
	sp.mu.RLock()
	lastTime, exists := sp.lastCommand[userID]
	sp.mu.RUnlock()

	if !exists {
		return true, 0
	}
	elapsed := sp.now().Sub(lastTime)
	if elapsed < sp.commandDelay {
		return false, sp.commandDelay - elapsed
	}
	return true, 0
}

func (sp *AntiSpam) recordCommand(userID int64) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.lastCommand[userID] = sp.now()
}

func (sp *AntiSpam) addWarning(userID int64) int {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.warningCount[userID]++
	return sp.warningCount[userID]
}

func (sp *AntiSpam) resetWarnings(userID int64) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	delete(sp.warningCount, userID)
}

func (sp *AntiSpam) banUser(userID int64, d time.Duration) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.banUntil[userID] = sp.now().Add(d)
	sp.warningCount[userID] = 0
}

func (sp *AntiSpam) isUserBanned(userID int64) (bool, time.Time) {
	sp.mu.RLock()
	defer sp.mu.RUnlock()

	banTime, exists := sp.banUntil[userID]
	if !exists || sp.now().After(banTime) {
		return false, time.Time{}
	}
	return true, banTime
}
