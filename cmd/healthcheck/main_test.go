package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/folio/internal/adapter/driving/http"
)

func TestHealthURL(t *testing.T) {
	tests := []struct {
		listen string
		want   string
	}{
		{listen: "", want: "http://127.0.0.1:8080/api/v1/health"},
		{listen: ":9000", want: "http://127.0.0.1:9000/api/v1/health"},
		{listen: "0.0.0.0:8080", want: "http://127.0.0.1:8080/api/v1/health"},
		{listen: "[::]:8080", want: "http://[::1]:8080/api/v1/health"},
		{listen: "10.1.2.3:8081", want: "http://10.1.2.3:8081/api/v1/health"},
		{listen: "localhost:8080", want: "http://localhost:8080/api/v1/health"},
	}

	for _, tc := range tests {
		t.Run(tc.listen, func(t *testing.T) {
			got, err := healthURL(tc.listen)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHealthURL_Invalid(t *testing.T) {
	for _, listen := range []string{"garbage", "127.0.0.1:"} {
		_, err := healthURL(listen)
		assert.Error(t, err, listen)
	}
}

func TestCheck(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  int
		body    any
		wantErr string
	}{
		{name: "healthy", status: http.StatusOK, body: httphandler.HealthResponse{Status: "ok", Time: "2026-03-01T12:00:05Z"}},
		{name: "error status", status: http.StatusServiceUnavailable, body: httphandler.HealthResponse{Status: "ok"}, wantErr: "503"},
		{name: "not ok", status: http.StatusOK, body: httphandler.HealthResponse{Status: "starting", Time: "2026-03-01T12:00:00Z"}, wantErr: `"starting"`},
		{name: "stale", status: http.StatusOK, body: httphandler.HealthResponse{Status: "ok", Time: "2026-03-01T11:50:00Z"}, wantErr: "10m0s off"},
		{name: "bad time", status: http.StatusOK, body: httphandler.HealthResponse{Status: "ok", Time: "noon"}, wantErr: "health time"},
		{name: "not json", status: http.StatusOK, body: "<html>", wantErr: "decode health"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/health", r.URL.Path)
				w.WriteHeader(tc.status)
				if s, ok := tc.body.(string); ok {
					_, _ = w.Write([]byte(s))
					return
				}
				_ = json.NewEncoder(w).Encode(tc.body)
			}))
			defer srv.Close()

			err := check(context.Background(), srv.Client(), srv.URL+"/api/v1/health", now)

			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestCheck_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	target := srv.URL + "/api/v1/health"
	srv.Close()

	assert.Error(t, check(context.Background(), http.DefaultClient, target, time.Now()))
}
