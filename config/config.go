package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"earning-bot/logger"
	"earning-bot/models"

	"github.com/joho/godotenv"
)

type Config struct {
	UserBotToken  string
	AdminBotToken string
	AdminID       int64
	AdminGroupID  int64

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ForceChannelID   int64
	ForceChannelLink string

	ReferralBonus models.Money
	DailyReward   models.Money
	MinWithdraw   models.Money
	Location      *time.Location

	Port         string
	LogLevel     string
	LogJSON      bool
	CommandDelay time.Duration

	SheetsID          string
	SheetsCredentials string
	SheetsRange       string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using system environment variables")
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	var errs []error
	required := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			errs = append(errs, fmt.Errorf("%s is not set", key))
		}
		return v
	}
	int64Env := func(key string, mandatory bool) int64 {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			if mandatory {
				errs = append(errs, fmt.Errorf("%s is not set", key))
			}
			return 0
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return n
	}
	moneyEnv := func(key, fallback string) models.Money {
		m, err := models.ParseMoney(getEnv(key, fallback))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return m
	}

	cfg := &Config{
		UserBotToken:      required("USER_BOT_TOKEN"),
		AdminBotToken:     os.Getenv("ADMIN_BOT_TOKEN"),
		AdminID:           int64Env("ADMIN_ID", false),
		AdminGroupID:      int64Env("ADMIN_GROUP_ID", false),
		MongoURI:          required("MONGO_URI"),
		MongoDB:           getEnv("MONGO_DB", "EarningBotDB"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		ForceChannelID:    int64Env("FORCE_SUB_CHANNEL_ID", true),
		ForceChannelLink:  required("FORCE_SUB_CHANNEL_LINK"),
		ReferralBonus:     moneyEnv("REFERRAL_BONUS", "1.00"),
		DailyReward:       moneyEnv("DAILY_REWARD", "0.50"),
		MinWithdraw:       moneyEnv("MIN_WITHDRAW", "20.00"),
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogJSON:           os.Getenv("LOG_JSON") == "true",
		SheetsID:          os.Getenv("GOOGLE_SHEETS_ID"),
		SheetsCredentials: getEnv("GOOGLE_SHEETS_CREDENTIALS", "service-account.json"),
		SheetsRange:       getEnv("GOOGLE_SHEETS_RANGE", "withdrawals!A:G"),
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("REDIS_DB: %w", err))
		}
		cfg.RedisDB = n
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Asia/Kolkata"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	cfg.Location = loc

	delay, err := time.ParseDuration(getEnv("COMMAND_DELAY", "2s"))
	if err != nil {
		errs = append(errs, fmt.Errorf("COMMAND_DELAY: %w", err))
	}
	cfg.CommandDelay = delay

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AdminRecipients returns the chats that receive withdrawal alerts.
func (c *Config) AdminRecipients() []int64 {
	var ids []int64
	if c.AdminID != 0 {
		ids = append(ids, c.AdminID)
	}
	if c.AdminGroupID != 0 {
		ids = append(ids, c.AdminGroupID)
	}
	return ids
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
