package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("falha sem o token do Telegram", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("valores padrão", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "token-de-teste")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "./products.json", cfg.StorePath)
		assert.Equal(t, "@every 30m", cfg.MonitorCron)
		assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 900*time.Millisecond, cfg.ItemDelay)
		assert.Equal(t, 450*time.Millisecond, cfg.NotifyDelay)
		assert.Equal(t, 120, cfg.HistoryLimit)
		assert.False(t, cfg.Debug)
	})

	t.Run("variáveis de ambiente sobrescrevem os padrões", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "token-de-teste")
		t.Setenv("TELEGRAM_CHAT_ID", "12345")
		t.Setenv("STORE_PATH", "/tmp/dados.json")
		t.Setenv("MONITOR_CRON", "@every 5m")
		t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")
		t.Setenv("ITEM_DELAY_MS", "100")
		t.Setenv("NOTIFY_DELAY_MS", "50")
		t.Setenv("HISTORY_LIMIT", "10")
		t.Setenv("DEBUG", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, int64(12345), cfg.TelegramChatID)
		assert.Equal(t, "/tmp/dados.json", cfg.StorePath)
		assert.Equal(t, "@every 5m", cfg.MonitorCron)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 100*time.Millisecond, cfg.ItemDelay)
		assert.Equal(t, 50*time.Millisecond, cfg.NotifyDelay)
		assert.Equal(t, 10, cfg.HistoryLimit)
		assert.True(t, cfg.Debug)
	})

	t.Run("valores inválidos caem nos padrões", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "token-de-teste")
		t.Setenv("TELEGRAM_CHAT_ID", "não é número")
		t.Setenv("HISTORY_LIMIT", "-3")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Zero(t, cfg.TelegramChatID)
		assert.Equal(t, 120, cfg.HistoryLimit)
	})
}
