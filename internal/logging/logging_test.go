package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSetup(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("json", "warn", &buf)

	logger.Info("dropped")
	logger.Warn("kept", "key", "value")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["msg"])
	assert.Equal(t, "value", lines[0]["key"])
	assert.Equal(t, "constante", lines[0]["service"])

	buf.Reset()
	Setup("text", "info", &buf).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("json", "debug", &buf)

	LogError(context.Background(), logger, "coded", oops.Code("HABIT_GET_FAILED").With("id", 7).Wrap(errors.New("boom")))
	LogError(context.Background(), logger, "plain", errors.New("plain boom"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "coded", lines[0]["msg"])
	assert.Equal(t, "HABIT_GET_FAILED", lines[0]["code"])
	assert.Contains(t, lines[0]["error"], "boom")
	assert.NotNil(t, lines[0]["context"])

	assert.Equal(t, "plain", lines[1]["msg"])
	assert.Equal(t, "plain boom", lines[1]["error"])
	assert.Nil(t, lines[1]["code"])
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("json", "info", &buf)

	handler := middleware.RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/habits/9", nil))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.Equal(t, "/habits/9", lines[0]["path"])
	assert.EqualValues(t, 404, lines[0]["status"])
	assert.EqualValues(t, 7, lines[0]["bytes"])
	assert.NotEmpty(t, lines[0]["request_id"])
}
