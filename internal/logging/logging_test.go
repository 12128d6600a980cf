package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestLogErrorIncludesOopsCode(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", "json", &buf)

	err := oops.Code("USER_EMAIL_TAKEN").With("email", "a@x.io").Wrap(errors.New("conflict"))
	LogError(logger, "register failed", err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "register failed", record["msg"])
	assert.Equal(t, "USER_EMAIL_TAKEN", record["code"])
	assert.Contains(t, record, "context")
}

func TestLogErrorPlainError(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", "json", &buf)

	LogError(logger, "boom", errors.New("plain"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "plain", record["error"])
	assert.NotContains(t, record, "code")
}

func TestMiddlewareLogsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", "json", &buf)

	handler := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "/healthz", record["path"])
	assert.EqualValues(t, http.StatusTeapot, record["status"])
}
