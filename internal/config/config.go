// Package config は環境変数からアプリケーション設定を読み込む。
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultStartImageURL は/start時に送信するウェルカム画像のデフォルトURL。
const DefaultStartImageURL = "https://i.postimg.cc/TYyS5w9n/Flux-Dev-Create-a-captivating-book-cover-for-ITAYTSORSING-feat-1.jpg"

// BotMode はアップデートの受信方式を表す。
type BotMode string

const (
	// BotModePolling はgetUpdatesのロングポーリングで受信する。
	BotModePolling BotMode = "polling"
	// BotModeWebhook はWebhookエンドポイントで受信する。
	BotModeWebhook BotMode = "webhook"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Telegram
	BotToken       string
	TelegramAPIURL string
	BotMode        BotMode
	WebhookURL     string
	WebhookSecret  string
	PollTimeout    time.Duration
	SendRatePerSec float64
	StartImageURL  string

	// Admin
	AdminIDs map[int64]struct{}

	// Database
	DatabaseURL      string
	DBMaxOpenConns   int
	DBMaxIdleConns   int
	DBMaxIdleTime    time.Duration
	DBAcquireTimeout time.Duration

	// Retention
	RequestRetentionDays int

	// Server
	ServerPort string

	// Logging
	LogLevel string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if cfg.BotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		dbURL, dbMissing := databaseURLFromParts()
		missing = append(missing, dbMissing...)
		cfg.DatabaseURL = dbURL
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	adminIDs, err := parseAdminIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, err
	}
	cfg.AdminIDs = adminIDs

	cfg.BotMode = BotMode(getEnvString("BOT_MODE", string(BotModePolling)))
	switch cfg.BotMode {
	case BotModePolling, BotModeWebhook:
	default:
		return nil, fmt.Errorf("invalid BOT_MODE: %q (want polling or webhook)", cfg.BotMode)
	}

	cfg.WebhookURL = getEnvString("WEBHOOK_URL", "")
	if cfg.BotMode == BotModeWebhook && cfg.WebhookURL == "" {
		return nil, fmt.Errorf("WEBHOOK_URL is required when BOT_MODE=webhook")
	}
	cfg.WebhookSecret = getEnvString("WEBHOOK_SECRET", "")

	// Optional fields with defaults
	cfg.TelegramAPIURL = strings.TrimRight(getEnvString("TELEGRAM_API_URL", "https://api.telegram.org"), "/")
	cfg.PollTimeout = getEnvDuration("POLL_TIMEOUT", 30*time.Second)
	cfg.SendRatePerSec = getEnvFloat("SEND_RATE_PER_SEC", 25)
	cfg.StartImageURL = getEnvString("START_IMAGE_URL", DefaultStartImageURL)
	cfg.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	cfg.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 1)
	cfg.DBMaxIdleTime = getEnvDuration("DB_MAX_IDLE_TIME", 60*time.Second)
	cfg.DBAcquireTimeout = getEnvDuration("DB_ACQUIRE_TIMEOUT", 30*time.Second)
	cfg.RequestRetentionDays = getEnvInt("REQUEST_RETENTION_DAYS", 0)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	return cfg, nil
}

// IsAdmin は指定IDが管理者許可リストに含まれるかを返す。
func (c *Config) IsAdmin(id int64) bool {
	_, ok := c.AdminIDs[id]
	return ok
}

// databaseURLFromParts はDB_HOST等の個別パラメータから接続URLを組み立てる。
// 未設定の必須パラメータ名を2番目の戻り値で返す。
func databaseURLFromParts() (string, []string) {
	var missing []string
	parts := map[string]string{}
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"} {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		parts[key] = v
	}
	if len(missing) > 0 {
		return "", missing
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(parts["DB_USER"], parts["DB_PASSWORD"]),
		Host:   net.JoinHostPort(parts["DB_HOST"], parts["DB_PORT"]),
		Path:   "/" + parts["DB_NAME"],
	}
	q := u.Query()
	q.Set("sslmode", getEnvString("DB_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// parseAdminIDs はカンマ区切りの管理者ID一覧をパースする。
// 空文字列の場合は空の許可リストを返す。
func parseAdminIDs(raw string) (map[int64]struct{}, error) {
	ids := make(map[int64]struct{})
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_IDS entry %q: %w", field, err)
		}
		ids[id] = struct{}{}
	}
	return ids, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
