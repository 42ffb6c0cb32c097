package capture

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseRecorder_BuffersUntilFlush(t *testing.T) {
	w := httptest.NewRecorder()
	rec := NewResponseRecorder(w)

	rec.Header().Set("Content-Type", "application/json")
	rec.WriteHeader(http.StatusCreated)
	n, err := rec.Write([]byte(`{"id":7}`))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	assert.False(t, w.Flushed)
	assert.Empty(t, w.Body.String(), "nothing reaches the client before FlushToClient")
	assert.Equal(t, `{"id":7}`, string(rec.Bytes()))
	assert.Equal(t, http.StatusCreated, rec.Status())

	require.NoError(t, rec.FlushToClient())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, `{"id":7}`, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "8", w.Header().Get("Content-Length"))
}

func TestResponseRecorder_FlushOnce(t *testing.T) {
	w := httptest.NewRecorder()
	rec := NewResponseRecorder(w)
	rec.Write([]byte("hello"))

	require.NoError(t, rec.FlushToClient())
	require.NoError(t, rec.FlushToClient())
	assert.Equal(t, "hello", w.Body.String())

	_, err := rec.Write([]byte("late"))
	assert.ErrorIs(t, err, ErrFlushed)
	assert.Equal(t, "hello", w.Body.String())
}

func TestResponseRecorder_FirstStatusWins(t *testing.T) {
	rec := NewResponseRecorder(httptest.NewRecorder())
	assert.False(t, rec.Written())
	assert.Equal(t, http.StatusOK, rec.Status())

	rec.WriteHeader(http.StatusNotFound)
	rec.WriteHeader(http.StatusInternalServerError)
	assert.Equal(t, http.StatusNotFound, rec.Status())
	assert.True(t, rec.Written())
}

func TestResponseRecorder_ImplicitOK(t *testing.T) {
	w := httptest.NewRecorder()
	rec := NewResponseRecorder(w)
	rec.Write([]byte("ok"))
	rec.WriteHeader(http.StatusTeapot)

	assert.Equal(t, http.StatusOK, rec.Status())
	require.NoError(t, rec.FlushToClient())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResponseRecorder_NoBodyStatus(t *testing.T) {
	w := httptest.NewRecorder()
	rec := NewResponseRecorder(w)
	rec.WriteHeader(http.StatusNoContent)

	_, err := rec.Write([]byte("ignored"))
	assert.ErrorIs(t, err, http.ErrBodyNotAllowed)

	require.NoError(t, rec.FlushToClient())
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Content-Length"))
	assert.Empty(t, w.Body.String())
}

func TestResponseRecorder_KeepsHandlerContentLength(t *testing.T) {
	w := httptest.NewRecorder()
	rec := NewResponseRecorder(w)
	rec.Header().Set("Content-Length", "3")
	rec.Write([]byte("abc"))

	require.NoError(t, rec.FlushToClient())
	assert.Equal(t, "3", w.Header().Get("Content-Length"))
}

func TestResponseRecorder_EmptyResponse(t *testing.T) {
	w := httptest.NewRecorder()
	rec := NewResponseRecorder(w)

	b := rec.Bytes()
	assert.NotNil(t, b)
	assert.Empty(t, b)

	require.NoError(t, rec.FlushToClient())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("Content-Length"))
}

func TestResponseRecorder_Flusher(t *testing.T) {
	w := httptest.NewRecorder()
	var rw http.ResponseWriter = NewResponseRecorder(w)

	flusher, ok := rw.(http.Flusher)
	require.True(t, ok)

	rw.Write([]byte("chunk"))
	flusher.Flush()
	assert.Empty(t, w.Body.String())
}

func TestResponseRecorder_InvalidStatusIgnored(t *testing.T) {
	rec := NewResponseRecorder(httptest.NewRecorder())
	rec.WriteHeader(42)
	assert.False(t, rec.Written())
	assert.Equal(t, http.StatusOK, rec.Status())
}
