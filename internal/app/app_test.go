package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsEnricher/internal/config"
	"NewsEnricher/internal/logging"
	"NewsEnricher/internal/usecase"
)

func offlineConfig(t *testing.T) config.Config {
	t.Helper()
	for _, key := range []string{
		"NEWS_ENRICHER_CONFIG", "DATABASE_DSN", "OPENROUTER_API_KEY", "PEXELS_API_KEY",
		"GOOGLE_API_KEY", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("DATA_DIR", t.TempDir())

	cfg := config.Load()
	cfg.Media.Dailymotion.Enabled = false
	cfg.Context.WikipediaEnabled = false
	return cfg
}

func TestApplicationProcessesOfflineIntoLocalStore(t *testing.T) {
	cfg := offlineConfig(t)

	application, err := New(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	ctx := context.Background()
	rec, err := application.Service().Process(ctx, usecase.SampleItem(time.Now().UTC()))
	require.NoError(t, err)

	got, err := application.Service().Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Summary, got.Summary)

	_, err = os.Stat(filepath.Join(cfg.Storage.DataDir, cfg.Storage.FileName))
	assert.NoError(t, err)
}

func TestServeStopsWithContext(t *testing.T) {
	cfg := offlineConfig(t)
	cfg.Feeds = nil

	application, err := New(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Serve(ctx, false) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}
