package respond

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nike1016/selfoss/internal/domain/entity"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		data     any
		wantBody string
	}{
		{"map", http.StatusOK, map[string]string{"message": "success"}, `{"message":"success"}` + "\n"},
		{"struct", http.StatusCreated, struct {
			ID int64 `json:"id"`
		}{ID: 123}, `{"id":123}` + "\n"},
		{"nil writes no body", http.StatusNoContent, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestJSON_EncodingErrorIsLogged(t *testing.T) {
	logs := captureLogs(t)

	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, make(chan int))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logs.String(), "failed to encode JSON response")
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		err      error
		wantBody string
		wantLog  bool
	}{
		{
			name:     "client error verbatim",
			code:     http.StatusBadRequest,
			err:      errors.New("invalid id"),
			wantBody: `{"error":"invalid id"}`,
		},
		{
			name:     "not found verbatim",
			code:     http.StatusNotFound,
			err:      errors.New("source not found"),
			wantBody: `{"error":"source not found"}`,
		},
		{
			name:     "server error hidden",
			code:     http.StatusInternalServerError,
			err:      fmt.Errorf("list sources: %w", errors.New("dial postgres://u:pw@db:5432/selfoss: refused")),
			wantBody: `{"error":"internal server error"}`,
			wantLog:  true,
		},
		{
			name:     "unavailable hidden",
			code:     http.StatusServiceUnavailable,
			err:      errors.New("invalid connection"),
			wantBody: `{"error":"internal server error"}`,
			wantLog:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			w := httptest.NewRecorder()
			SafeError(w, tt.code, tt.err)

			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.Equal(t, tt.wantLog, logs.Len() > 0)
			assert.NotContains(t, logs.String(), "pw@")
		})
	}
}

func TestSafeError_NilWritesNothing(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, http.StatusBadRequest, nil)
	assert.Zero(t, w.Body.Len())
}

func TestFieldErrors(t *testing.T) {
	w := httptest.NewRecorder()
	FieldErrors(w, entity.FieldErrors{
		"title": "no text for title given",
		"url":   "param URL required but not given",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t,
		`{"errors":{"title":"no text for title given","url":"param URL required but not given"}}`,
		w.Body.String())
}
