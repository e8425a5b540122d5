package logging

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	mu      sync.Mutex
	rows    []models.SystemLog
	flushed chan struct{}
}

func (w *captureWriter) WriteLogs(batch []models.SystemLog) error {
	w.mu.Lock()
	w.rows = append(w.rows, batch...)
	w.mu.Unlock()
	w.flushed <- struct{}{}
	return nil
}

func TestPGHandler_PersistsErrorsOnly(t *testing.T) {
	w := &captureWriter{flushed: make(chan struct{}, 4)}
	h := NewPGHandler(w, time.Hour)
	logger := slog.New(h).With("request_id", "req-1")

	logger.Info("ignored")
	logger.Error("booking write failed",
		"user_id", "u-1",
		"method", "PUT",
		"path", "/api/bookings/1/status",
		"error", "connection reset",
		"booking_id", "b-1",
	)
	h.Stop()

	select {
	case <-w.flushed:
	case <-time.After(2 * time.Second):
		t.Fatal("logs were not flushed on stop")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	require.Len(t, w.rows, 1)
	row := w.rows[0]
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "booking write failed", row.Message)
	assert.Equal(t, "req-1", row.RequestID)
	require.NotNil(t, row.UserID)
	assert.Equal(t, "u-1", *row.UserID)
	assert.Equal(t, "PUT", row.Method)
	assert.Equal(t, "/api/bookings/1/status", row.Path)
	assert.Equal(t, "connection reset", row.Error)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(row.Extra, &extra))
	assert.Equal(t, "b-1", extra["booking_id"])
}

type levelRecorder struct {
	min     slog.Level
	records []string
	err     error
}

func (r *levelRecorder) Enabled(_ context.Context, l slog.Level) bool { return l >= r.min }
func (r *levelRecorder) Handle(_ context.Context, rec slog.Record) error {
	r.records = append(r.records, rec.Message)
	return r.err
}
func (r *levelRecorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *levelRecorder) WithGroup(string) slog.Handler      { return r }

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	all := &levelRecorder{min: slog.LevelDebug}
	errorsOnly := &levelRecorder{min: slog.LevelError}
	logger := slog.New(NewMultiHandler(all, errorsOnly))

	logger.Info("hello")
	logger.Error("boom")

	assert.Equal(t, []string{"hello", "boom"}, all.records)
	assert.Equal(t, []string{"boom"}, errorsOnly.records)
}

func TestMultiHandler_KeepsDispatchingAfterAFailure(t *testing.T) {
	sinkDown := errors.New("sink down")
	stdoutDown := errors.New("stdout closed")
	failing := &levelRecorder{min: slog.LevelError, err: sinkDown}
	alsoFailing := &levelRecorder{min: slog.LevelDebug, err: stdoutDown}
	healthy := &levelRecorder{min: slog.LevelDebug}
	h := NewMultiHandler(failing, alsoFailing, healthy)

	rec := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	err := h.Handle(context.Background(), rec)

	assert.ErrorIs(t, err, sinkDown)
	assert.ErrorIs(t, err, stdoutDown)
	assert.Equal(t, []string{"boom"}, failing.records)
	assert.Equal(t, []string{"boom"}, healthy.records)

	// INFO skips the error-only handler.
	err = h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "fine", 0))
	assert.ErrorIs(t, err, stdoutDown)
	assert.NotErrorIs(t, err, sinkDown)
	assert.Equal(t, []string{"boom"}, failing.records)
	assert.Equal(t, []string{"boom", "fine"}, healthy.records)
}
