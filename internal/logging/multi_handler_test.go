package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var infoBuf, errBuf bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	))

	logger.Info("session upserted", "niche_key", "sales")
	logger.Error("store down", "tenant_id", "acme")

	assert.Contains(t, infoBuf.String(), "session upserted")
	assert.Contains(t, infoBuf.String(), "store down")
	assert.NotContains(t, errBuf.String(), "session upserted")
	assert.Contains(t, errBuf.String(), `"tenant_id":"acme"`)
}

func TestMultiHandler_WithAttrsReachesEveryHandler(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)).With("tenant_id", "acme")

	logger.Info("hello")

	assert.Contains(t, a.String(), `"tenant_id":"acme"`)
	assert.Contains(t, b.String(), `"tenant_id":"acme"`)
}

func TestMultiHandler_FailingSinkDoesNotBlockOthers(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(
		failingHandler{slog.NewJSONHandler(&bytes.Buffer{}, nil)},
		slog.NewJSONHandler(&buf, nil),
	)

	record := slog.NewRecord(time.Now(), slog.LevelError, "store down", 0)
	err := h.Handle(context.Background(), record)

	assert.EqualError(t, err, "sink down")
	assert.Contains(t, buf.String(), "store down")
}

func TestNewJSONHandler_DevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewJSONHandler(&buf, "development")).Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	slog.New(NewJSONHandler(&buf, "production")).Debug("hidden")
	assert.Empty(t, buf.String())
}
