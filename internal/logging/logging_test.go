package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestPGHandlerStoresErrorsOnly(t *testing.T) {
	db := testutil.NewDB(t)
	pg := NewPGHandler(db)
	logger := slog.New(pg).With("request_id", "req-1")

	logger.Info("routine")
	logger.Error("store write failed",
		"user_id", "u-1",
		"action", "product.create",
		"error", errors.New("disk full").Error(),
		"latency_ms", 12.6,
		"product_id", "p-9",
	)
	pg.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	got := logs[0]
	assert.Equal(t, "ERROR", got.Level)
	assert.Equal(t, "store write failed", got.Message)
	assert.Equal(t, "req-1", got.RequestID)
	require.NotNil(t, got.UserID)
	assert.Equal(t, "u-1", *got.UserID)
	assert.Equal(t, "product.create", got.Action)
	assert.Equal(t, "disk full", got.Error)
	assert.Equal(t, 13, got.LatencyMs)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(got.Extra, &extra))
	assert.Equal(t, "p-9", extra["product_id"])
}

func TestMultiHandlerFansOut(t *testing.T) {
	var info, errs bytes.Buffer
	h := NewMultiHandler(
		NewJSONHandler(&info, slog.LevelInfo),
		NewJSONHandler(&errs, slog.LevelError),
	)
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))

	logger := slog.New(h).With("component", "test")
	logger.Info("hello")
	logger.Error("boom")

	assert.Contains(t, info.String(), `"msg":"hello"`)
	assert.Contains(t, info.String(), `"msg":"boom"`)
	assert.NotContains(t, errs.String(), "hello")
	assert.Contains(t, errs.String(), `"component":"test"`)
}

func TestPurgeOlderThan(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now().UTC()
	for _, age := range []time.Duration{time.Hour, 40 * 24 * time.Hour, 31 * 24 * time.Hour} {
		require.NoError(t, db.Create(&models.SystemLog{
			ID:        uuid.New(),
			Timestamp: now.Add(-age),
			Level:     "ERROR",
			Message:   "old",
		}).Error)
	}

	deleted, err := PurgeOlderThan(db, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	var left int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&left).Error)
	assert.EqualValues(t, 1, left)
}
