package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRouterRecoversPanics(t *testing.T) {
	r := NewRouter(discardLogger())
	r.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouterAppliesExtraMiddleware(t *testing.T) {
	called := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}
	r := NewRouter(discardLogger(), mw)
	r.Get("/healthz", HealthHandler(discardLogger()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]string{"summary": "short"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "short", body["summary"])
}

func TestFailDefaultsToInternalError(t *testing.T) {
	w := httptest.NewRecorder()
	Fail(discardLogger(), w, "something broke", errors.New("cause"), 0)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "something broke")
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Text string `validate:"required"`
	}
	err := Validator.Struct(&payload{})
	require.Error(t, err)

	w := httptest.NewRecorder()
	ValidationError(discardLogger(), w, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "required", body.Fields["text"])
}

func TestValidationErrorWithPlainError(t *testing.T) {
	w := httptest.NewRecorder()
	ValidationError(discardLogger(), w, errors.New("not a validation error"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
