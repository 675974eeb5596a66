package httphandler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIPResolver(t *testing.T) {
	proxies := NewClientIPResolver([]netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("::1/128"),
	})

	tests := []struct {
		name     string
		resolver *ClientIPResolver
		headers  map[string]string
		remote   string
		want     string
	}{
		{name: "remote addr", resolver: proxies, remote: "198.51.100.1:5555", want: "198.51.100.1"},
		{name: "remote without port", resolver: proxies, remote: "198.51.100.7", want: "198.51.100.7"},
		{name: "forwarded ignored from untrusted peer", resolver: proxies, headers: map[string]string{"X-Forwarded-For": "1.1.1.1"}, remote: "203.0.113.9:5555", want: "203.0.113.9"},
		{name: "real ip ignored from untrusted peer", resolver: proxies, headers: map[string]string{"X-Real-IP": "1.1.1.1"}, remote: "203.0.113.9:5555", want: "203.0.113.9"},
		{name: "nothing trusted by default", resolver: NewClientIPResolver(nil), headers: map[string]string{"X-Forwarded-For": "1.1.1.1"}, remote: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "nil resolver", resolver: nil, headers: map[string]string{"X-Forwarded-For": "1.1.1.1"}, remote: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "single trusted hop", resolver: proxies, headers: map[string]string{"X-Forwarded-For": "203.0.113.9"}, remote: "10.0.0.1:5555", want: "203.0.113.9"},
		{name: "rightmost untrusted hop", resolver: proxies, headers: map[string]string{"X-Forwarded-For": "6.6.6.6, 203.0.113.9, 10.0.0.2"}, remote: "10.0.0.1:5555", want: "203.0.113.9"},
		{name: "all hops trusted", resolver: proxies, headers: map[string]string{"X-Forwarded-For": "10.0.0.3, 10.0.0.2"}, remote: "10.0.0.1:5555", want: "10.0.0.3"},
		{name: "garbage hop stops the walk", resolver: proxies, headers: map[string]string{"X-Forwarded-For": "203.0.113.9, junk, 10.0.0.2"}, remote: "10.0.0.1:5555", want: "10.0.0.2"},
		{name: "real ip from trusted peer", resolver: proxies, headers: map[string]string{"X-Real-IP": "198.51.100.4"}, remote: "10.0.0.1:5555", want: "198.51.100.4"},
		{name: "ipv6 loopback proxy", resolver: proxies, headers: map[string]string{"X-Forwarded-For": "2001:db8::1"}, remote: "[::1]:5555", want: "2001:db8::1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, tc.resolver.ClientIP(r))
		})
	}
}

func TestRateLimiter_RotatingForwardedForStillLimited(t *testing.T) {
	rl := NewRateLimiter(5, NewClientIPResolver(nil), testLogger())

	allowed := 0
	for i := range 50 {
		r := httptest.NewRequest(http.MethodPost, "/admin", nil)
		r.RemoteAddr = "203.0.113.9:4000"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("1.1.1.%d", i))
		if ok, _ := rl.Allow(r); ok {
			allowed++
		}
	}

	assert.Equal(t, 5, allowed)
}

func TestRateLimiter_TrustedProxyKeysOnForwardedClient(t *testing.T) {
	rl := NewRateLimiter(1, NewClientIPResolver([]netip.Prefix{netip.MustParsePrefix("10.0.0.1/32")}), testLogger())

	via := func(client string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/admin", nil)
		r.RemoteAddr = "10.0.0.1:4000"
		r.Header.Set("X-Forwarded-For", client)
		return r
	}

	ok, _ := rl.Allow(via("198.51.100.1"))
	require.True(t, ok)
	ok, _ = rl.Allow(via("198.51.100.1"))
	assert.False(t, ok)
	ok, _ = rl.Allow(via("198.51.100.2"))
	assert.True(t, ok, "clients behind the same proxy have their own bucket")
}
