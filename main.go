package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"earning-bot/config"
	"earning-bot/database"
	"earning-bot/gate"
	"earning-bot/handlers"
	"earning-bot/ledger"
	"earning-bot/logger"
	"earning-bot/membership"
	"earning-bot/middleware"
	"earning-bot/notify"
	"earning-bot/registration"
	"earning-bot/server"
	"earning-bot/session"
	"earning-bot/store"
	"earning-bot/withdrawal"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("❌ invalid configuration", "err", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoDB, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("❌ MongoDB connection failed", "err", err)
	}
	defer mongoDB.Disconnect()

	ledgerStore := store.NewMongo(mongoDB.Users(), mongoDB.Withdrawals())
	if err := ledgerStore.EnsureIndexes(ctx); err != nil {
		logger.Warn("⚠️ could not create indexes", "err", err)
	}

	var sessions session.Store = session.NewMemory()
	if cfg.RedisAddr != "" {
		rdb, err := database.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("❌ Redis connection failed", "err", err)
		}
		defer rdb.Close()
		sessions = session.NewRedis(rdb, "")
	} else {
		logger.Warn("⚠️ REDIS_ADDR not set, pending steps are kept in memory")
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:   cfg.UserBotToken,
		Client:  &http.Client{Timeout: time.Minute},
		Poller:  &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: onBotError,
	})
	if err != nil {
		logger.Fatal("❌ bot login failed", "err", err)
	}
	logger.Info("✅ User bot authorized", "username", bot.Me.Username)

	dispatcher := notify.NewDispatcher(adminSink(cfg), cfg.AdminRecipients(), recorders(ctx, cfg)...)

	engine := ledger.NewEngine(ledgerStore)
	accessGate := gate.New(membership.NewTelebotOracle(bot), cfg.ForceChannelID)

	h := handlers.New(handlers.Deps{
		Store:        ledgerStore,
		Sessions:     sessions,
		Gate:         accessGate,
		Ledger:       engine,
		Registration: registration.NewFlow(ledgerStore, engine, sessions, cfg.ReferralBonus),
		Withdrawals:  withdrawal.NewWorkflow(ledgerStore, engine, sessions, dispatcher, cfg.MinWithdraw),
	}, handlers.Settings{
		ChannelLink:   cfg.ForceChannelLink,
		ReferralBonus: cfg.ReferralBonus,
		DailyReward:   cfg.DailyReward,
		MinWithdraw:   cfg.MinWithdraw,
		Location:      cfg.Location,
	})

	antiSpam := middleware.NewAntiSpam(cfg.CommandDelay, cfg.AdminID)
	antiSpam.Start()
	defer antiSpam.Stop()

	bot.Use(middleware.PrivateOnly, antiSpam.Middleware)
	h.Register(bot)
	if err := bot.SetCommands(handlers.Commands()); err != nil {
		logger.Warn("⚠️ could not set bot commands", "err", err)
	}

	keepAlive := server.NewKeepAlive(cfg.Port, mongoDB)
	keepAlive.Start()

	logger.Info("🤖 Bot is running...")
	go bot.Start()

	<-ctx.Done()
	logger.Info("shutting down")

	bot.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := keepAlive.Shutdown(shutdownCtx); err != nil {
		logger.Warn("⚠️ keep-alive shutdown", "err", err)
	}
	dispatcher.Wait()
}

func onBotError(err error, c telebot.Context) {
	if c != nil && c.Sender() != nil {
		logger.Error("❌ handler error", "user_id", c.Sender().ID, "err", err)
		return
	}
	logger.Error("❌ bot error", "err", err)
}

// adminSink sends alerts through the admin bot, or to the log when no
// admin bot is configured.
func adminSink(cfg *config.Config) notify.Sink {
	if cfg.AdminBotToken == "" {
		logger.Warn("⚠️ ADMIN_BOT_TOKEN not set, withdrawal alerts go to the log only")
		return notify.NewLogSink()
	}
	sink, err := notify.NewTelegramSink(cfg.AdminBotToken)
	if err != nil {
		logger.Error("❌ admin bot login failed, alerts go to the log only", "err", err)
		return notify.NewLogSink()
	}
	return sink
}

func recorders(ctx context.Context, cfg *config.Config) []notify.Option {
	if cfg.SheetsID == "" {
		return nil
	}
	rec, err := notify.NewSheetRecorder(ctx, cfg.SheetsCredentials, cfg.SheetsID, cfg.SheetsRange)
	if err != nil {
		logger.Error("❌ Google Sheets export disabled", "err", err)
		return nil
	}
	logger.Info("✅ Google Sheets export enabled", "range", cfg.SheetsRange)
	return []notify.Option{notify.WithRecorder(rec)}
}
