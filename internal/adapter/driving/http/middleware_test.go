package httphandler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestApplyMiddleware_RecoversPanic(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	ApplyMiddleware(mux, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	var seen string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	})
	handler := ApplyMiddleware(mux, testLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	header := rec.Header().Get(requestIDHeader)
	require.NotEmpty(t, header)
	assert.Equal(t, header, seen)
	_, err := ulid.ParseStrict(header)
	assert.NoError(t, err)

	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Greater(t, rec2.Header().Get(requestIDHeader), header, "ids are monotonic")
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(2, nil, testLogger())

	from := func(ip string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		r.RemoteAddr = ip + ":1234"
		return r
	}

	for range 2 {
		ok, _ := rl.Allow(from("10.0.0.1"))
		require.True(t, ok)
	}

	ok, retry := rl.Allow(from("10.0.0.1"))
	assert.False(t, ok)
	assert.Positive(t, retry)

	ok, _ = rl.Allow(from("10.0.0.2"))
	assert.True(t, ok, "other clients have their own bucket")
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, nil, testLogger())
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
