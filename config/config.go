package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config contém as configurações da aplicação
type Config struct {
	TelegramBotToken string
	TelegramChatID   int64
	StorePath        string
	MonitorCron      string
	RequestTimeout   time.Duration
	SettleDelay      time.Duration
	ItemDelay        time.Duration
	NotifyDelay      time.Duration
	HistoryLimit     int
	LogDir           string
	Debug            bool
}

// Load carrega as configurações das variáveis de ambiente
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN não configurado")
	}

	cfg := &Config{
		TelegramBotToken: token,
		StorePath:        "./products.json",
		MonitorCron:      "@every 30m",
		RequestTimeout:   60 * time.Second,
		SettleDelay:      0,
		ItemDelay:        900 * time.Millisecond,
		NotifyDelay:      450 * time.Millisecond,
		HistoryLimit:     120,
		LogDir:           "./logs",
	}

	// Chat ID é opcional (restringe quem pode usar os comandos do bot)
	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		if chatID, err := strconv.ParseInt(chatIDStr, 10, 64); err == nil {
			cfg.TelegramChatID = chatID
		}
	}

	if path := os.Getenv("STORE_PATH"); path != "" {
		cfg.StorePath = path
	}

	if spec := os.Getenv("MONITOR_CRON"); spec != "" {
		cfg.MonitorCron = spec
	}

	if secs := envInt("REQUEST_TIMEOUT_SECONDS"); secs > 0 {
		cfg.RequestTimeout = time.Duration(secs) * time.Second
	}
	if ms := envInt("SETTLE_DELAY_MS"); ms > 0 {
		cfg.SettleDelay = time.Duration(ms) * time.Millisecond
	}
	if ms := envInt("ITEM_DELAY_MS"); ms > 0 {
		cfg.ItemDelay = time.Duration(ms) * time.Millisecond
	}
	if ms := envInt("NOTIFY_DELAY_MS"); ms > 0 {
		cfg.NotifyDelay = time.Duration(ms) * time.Millisecond
	}
	if limit := envInt("HISTORY_LIMIT"); limit > 0 {
		cfg.HistoryLimit = limit
	}

	if dir := os.Getenv("LOG_DIR"); dir != "" {
		cfg.LogDir = dir
	}

	if debug := os.Getenv("DEBUG"); debug != "" {
		if parsed, err := strconv.ParseBool(debug); err == nil {
			cfg.Debug = parsed
		}
	}

	return cfg, nil
}

func envInt(name string) int {
	value := os.Getenv(name)
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}
