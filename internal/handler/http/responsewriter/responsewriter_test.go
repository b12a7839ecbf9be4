package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_Defaults(t *testing.T) {
	rw := Wrap(httptest.NewRecorder())

	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.Zero(t, rw.BytesWritten())
	assert.False(t, rw.WroteHeader())
}

func TestWrap_Idempotent(t *testing.T) {
	rw := Wrap(httptest.NewRecorder())
	assert.Same(t, rw, Wrap(rw))
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusCreated, rw.StatusCode())
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, rw.WroteHeader())
}

func TestResponseWriter_WriteCountsBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)

	n, err := rw.Write([]byte(`{"id":`))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	_, _ = rw.Write([]byte(`1}`))

	assert.Equal(t, 8, rw.BytesWritten())
	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.Equal(t, `{"id":1}`, rec.Body.String())
}

func TestResponseWriter_Unwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.Same(t, rec, Wrap(rec).Unwrap())
}
