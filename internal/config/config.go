package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yuqiaowu/news-analyse/internal/schedule"
)

type Config struct {
	RedisURL         string
	TelegramBotToken string

	HTTPPort int
	APIKey   string

	OpenAIAPIKey string
	OpenAIModel  string

	SnapshotFile    string
	SnapshotURL     string
	RefreshInterval time.Duration
	NewsFeeds       []string

	SSHPort            int
	SSHHostKeyPath     string
	AuthorizedKeysPath string
}

func Load() *Config {
	cfg := &Config{
		RedisURL:         os.Getenv("REDIS_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
	}

	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, analysis falls back to heuristics")
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	cfg.SnapshotFile = strings.TrimSpace(os.Getenv("SNAPSHOT_FILE"))
	if cfg.SnapshotFile == "" {
		cfg.SnapshotFile = "data/latest_analysis.json"
	}

	cfg.SnapshotURL = strings.TrimSpace(os.Getenv("SNAPSHOT_URL"))
	if cfg.SnapshotURL == "" {
		cfg.SnapshotURL = "http://localhost:8080/api/analyze_all"
	}

	cfg.RefreshInterval = schedule.RefreshInterval
	if v := strings.TrimSpace(os.Getenv("REFRESH_INTERVAL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RefreshInterval = time.Duration(n) * time.Second
		}
	}

	if v := strings.TrimSpace(os.Getenv("NEWS_FEEDS")); v != "" {
		for _, feed := range strings.Split(v, ",") {
			if feed = strings.TrimSpace(feed); feed != "" {
				cfg.NewsFeeds = append(cfg.NewsFeeds, feed)
			}
		}
	}

	cfg.SSHPort = 23234
	if v := strings.TrimSpace(os.Getenv("SSH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSHPort = n
		}
	}

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/news_analyse_host_key"
	}

	cfg.AuthorizedKeysPath = strings.TrimSpace(os.Getenv("SSH_AUTHORIZED_KEYS"))

	return cfg
}
