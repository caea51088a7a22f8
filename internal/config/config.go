// Package config loads process settings from the environment (and an optional .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingTelegramToken = errors.New("TELEGRAM_TOKEN is required")
	ErrInvalidWatchDays     = errors.New("WATCH_DAYS must be between 1 and 100")
)

type Config struct {
	// Naver news search credentials
	NaverClientID     string
	NaverClientSecret string

	// Telegram settings
	TelegramToken  string
	TelegramChatID string // default recipient

	// Endpoints, overridable so tests and proxies can point elsewhere
	NaverSearchURL string
	FeedSearchURL  string
	ShortenerURL   string
	TelegramAPIURL string

	// Timeouts per external call
	SearchTimeout    time.Duration
	FeedTimeout      time.Duration
	PageTimeout      time.Duration
	ShortenerTimeout time.Duration
	TelegramTimeout  time.Duration

	// Rules file (domain table, junk terms, ...); empty means built-in defaults
	RulesPath string

	// HTTP surface
	HTTPAddr string

	// Scheduled watch runs; disabled unless both CronSpec and WatchKeywords are set
	CronSpec      string
	WatchKeywords []string
	WatchDays     int

	ShortLinkTTL time.Duration

	Debug bool
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	cfg := &Config{
		NaverSearchURL:   "https://openapi.naver.com/v1/search/news.json",
		FeedSearchURL:    "https://news.google.com/rss/search",
		ShortenerURL:     "https://is.gd/create.php",
		TelegramAPIURL:   "https://api.telegram.org",
		SearchTimeout:    10 * time.Second,
		FeedTimeout:      10 * time.Second,
		PageTimeout:      5 * time.Second,
		ShortenerTimeout: 3 * time.Second,
		TelegramTimeout:  30 * time.Second,
		HTTPAddr:         ":8501",
		WatchDays:        1,
		ShortLinkTTL:     24 * time.Hour,
	}

	cfg.NaverClientID = os.Getenv("NAVER_ID")
	cfg.NaverClientSecret = os.Getenv("NAVER_SECRET")
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")

	cfg.NaverSearchURL = getEnvOrDefault("NAVER_SEARCH_URL", cfg.NaverSearchURL)
	cfg.FeedSearchURL = getEnvOrDefault("FEED_SEARCH_URL", cfg.FeedSearchURL)
	cfg.ShortenerURL = getEnvOrDefault("SHORTENER_URL", cfg.ShortenerURL)
	cfg.TelegramAPIURL = getEnvOrDefault("TELEGRAM_API_URL", cfg.TelegramAPIURL)

	cfg.SearchTimeout = getEnvDurationOrDefault("SEARCH_TIMEOUT", cfg.SearchTimeout)
	cfg.FeedTimeout = getEnvDurationOrDefault("FEED_TIMEOUT", cfg.FeedTimeout)
	cfg.PageTimeout = getEnvDurationOrDefault("PAGE_TIMEOUT", cfg.PageTimeout)
	cfg.ShortenerTimeout = getEnvDurationOrDefault("SHORTENER_TIMEOUT", cfg.ShortenerTimeout)
	cfg.TelegramTimeout = getEnvDurationOrDefault("TELEGRAM_TIMEOUT", cfg.TelegramTimeout)
	cfg.ShortLinkTTL = getEnvDurationOrDefault("SHORT_LINK_TTL", cfg.ShortLinkTTL)

	cfg.RulesPath = os.Getenv("RULES_PATH")
	cfg.HTTPAddr = getEnvOrDefault("HTTP_ADDR", cfg.HTTPAddr)

	cfg.CronSpec = os.Getenv("CRON_SPEC")
	cfg.WatchKeywords = SplitKeywords(os.Getenv("WATCH_KEYWORDS"))
	cfg.WatchDays = getEnvIntOrDefault("WATCH_DAYS", cfg.WatchDays)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("5s") or bare seconds ("5").
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// SplitKeywords splits a comma separated keyword list, trimming blanks.
func SplitKeywords(raw string) []string {
	var out []string
	for _, k := range strings.Split(raw, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// HasNaverCredentials reports whether the keyword search adapter can be used.
func (c *Config) HasNaverCredentials() bool {
	return c.NaverClientID != "" && c.NaverClientSecret != ""
}

// WatchEnabled reports whether scheduled runs are configured.
func (c *Config) WatchEnabled() bool {
	return c.CronSpec != "" && len(c.WatchKeywords) > 0
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return ErrMissingTelegramToken
	}
	if c.WatchEnabled() {
		if c.WatchDays < 1 || c.WatchDays > 100 {
			return ErrInvalidWatchDays
		}
		if c.TelegramChatID == "" {
			return fmt.Errorf("TELEGRAM_CHAT_ID is required when CRON_SPEC is set")
		}
	}
	return nil
}
