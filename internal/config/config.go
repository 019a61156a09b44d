package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
)

// Dispatch modes.
const (
	DispatchSync  = "sync"
	DispatchAsync = "async"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a default; no variable is required. Channels without
// credentials are simply skipped at dispatch time.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	LogFormat       string

	// Database (empty URL keeps leads in memory)
	DatabaseURL    string
	DBMaxConns     int32
	DBMinConns     int32
	MigrationsPath string

	// Campaign content
	CampaignFile string
	Timezone     string

	// Outbound channels
	Telegram  TelegramConfig
	Twilio    TwilioConfig
	CallMeBot CallMeBotConfig

	// Dispatch
	ChannelTimeout    time.Duration
	ChannelRateLimit  int
	DispatchMode      string
	DispatchWorkers   int
	DispatchQueueSize int

	// Public form protection: requests/sec and burst per client IP
	SubmitRateLimit float64
	SubmitRateBurst int

	// Admin read API; empty disables the routes
	AdminToken string
}

type TelegramConfig struct {
	BotToken string
	ChatID   string
	APIBase  string
}

type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	WhatsAppFrom string
	WhatsAppTo   string
	APIBase      string
}

type CallMeBotConfig struct {
	Phone   string
	APIKey  string
	APIBase string
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal in deployed environments.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 15*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		LogFormat:       getEnv("LOG_FORMAT", "json"),

		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBMaxConns:     int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:     int32(getInt("DB_MIN_CONNS", 1)),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),

		CampaignFile: getEnv("CAMPAIGN_FILE", "campaign.yaml"),
		Timezone:     getEnv("TIMEZONE", "Asia/Singapore"),

		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
			APIBase:  getEnv("TELEGRAM_API_BASE", "https://api.telegram.org"),
		},
		Twilio: TwilioConfig{
			AccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
			WhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),
			WhatsAppTo:   os.Getenv("TWILIO_WHATSAPP_TO"),
			APIBase:      getEnv("TWILIO_API_BASE", "https://api.twilio.com"),
		},
		CallMeBot: CallMeBotConfig{
			Phone:   os.Getenv("CALLMEBOT_PHONE"),
			APIKey:  os.Getenv("CALLMEBOT_API_KEY"),
			APIBase: getEnv("CALLMEBOT_API_BASE", "https://api.callmebot.com"),
		},

		ChannelTimeout:    getDuration("CHANNEL_TIMEOUT", 5*time.Second),
		ChannelRateLimit:  getInt("CHANNEL_RATE_LIMIT", 20),
		DispatchMode:      getEnv("DISPATCH_MODE", DispatchSync),
		DispatchWorkers:   getInt("DISPATCH_WORKERS", 4),
		DispatchQueueSize: getInt("DISPATCH_QUEUE_SIZE", 256),

		SubmitRateLimit: getFloat("SUBMIT_RATE_LIMIT", 0.2),
		SubmitRateBurst: getInt("SUBMIT_RATE_BURST", 5),

		AdminToken: os.Getenv("ADMIN_TOKEN"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot run with.
func (c *Config) Validate() error {
	if c.DispatchMode != DispatchSync && c.DispatchMode != DispatchAsync {
		return fmt.Errorf("DISPATCH_MODE must be %q or %q, got %q", DispatchSync, DispatchAsync, c.DispatchMode)
	}
	if c.ChannelTimeout <= 0 {
		return fmt.Errorf("CHANNEL_TIMEOUT must be positive")
	}
	if c.ChannelRateLimit <= 0 {
		return fmt.Errorf("CHANNEL_RATE_LIMIT must be positive")
	}
	if c.DispatchMode == DispatchAsync && (c.DispatchWorkers <= 0 || c.DispatchQueueSize <= 0) {
		return fmt.Errorf("DISPATCH_WORKERS and DISPATCH_QUEUE_SIZE must be positive in async mode")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the configured timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
