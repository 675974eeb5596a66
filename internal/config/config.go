// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPlaceholderImage is shown for projects without a cover image.
	DefaultPlaceholderImage = "https://placehold.co/600x400?text=Project"

	// DefaultListenAddr is used when FOLIO_LISTEN_ADDR is unset.
	DefaultListenAddr = "127.0.0.1:8080"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL       string
	ListenAddr       string
	DBPath           string
	SecretKey        []byte // 32 bytes, or nil for memory-only sessions
	APITimeout       time.Duration
	LivePollInterval time.Duration
	HTTPCache        bool
	TokenRefresh     bool
	GitHubToken      string
	PlaceholderImage string
	LoginRatePerMin  int
	PublicRatePerMin int
	LogLevel         slog.Level
	TrustedProxies   []netip.Prefix // peers whose X-Forwarded-For is believed
}

// HasSecretKey reports whether admin sessions can be persisted.
func (c *Config) HasSecretKey() bool {
	return len(c.SecretKey) == 32
}

// Load reads configuration from environment variables and returns a validated Config.
// FOLIO_API_URL is required. Optional variables with defaults:
// FOLIO_LISTEN_ADDR (127.0.0.1:8080), FOLIO_DB_PATH (folio.db),
// FOLIO_SECRET_KEY (unset: sessions are memory-only), FOLIO_API_TIMEOUT (15s),
// FOLIO_LIVE_POLL_INTERVAL (30s), FOLIO_HTTP_CACHE (true), FOLIO_TOKEN_REFRESH (true),
// FOLIO_GITHUB_TOKEN (unset: anonymous quota), FOLIO_PLACEHOLDER_IMAGE,
// FOLIO_RATE_LIMIT_LOGIN (5 per minute), FOLIO_RATE_LIMIT_PUBLIC (20 per minute),
// FOLIO_LOG_LEVEL (info), FOLIO_TRUSTED_PROXIES (unset: forwarding headers ignored).
func Load() (*Config, error) {
	apiURL := strings.TrimSpace(os.Getenv("FOLIO_API_URL"))
	if apiURL == "" {
		return nil, errors.New("FOLIO_API_URL is required")
	}

	cfg := &Config{
		APIBaseURL:       apiURL,
		ListenAddr:       DefaultListenAddr,
		DBPath:           "folio.db",
		APITimeout:       15 * time.Second,
		LivePollInterval: 30 * time.Second,
		HTTPCache:        true,
		TokenRefresh:     true,
		GitHubToken:      os.Getenv("FOLIO_GITHUB_TOKEN"),
		PlaceholderImage: DefaultPlaceholderImage,
		LoginRatePerMin:  5,
		PublicRatePerMin: 20,
		LogLevel:         slog.LevelInfo,
	}

	if v, ok := os.LookupEnv("FOLIO_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("FOLIO_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("FOLIO_PLACEHOLDER_IMAGE"); ok && v != "" {
		cfg.PlaceholderImage = v
	}

	if v, ok := os.LookupEnv("FOLIO_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("FOLIO_SECRET_KEY must be 64 hex characters (32 bytes)")
		}
		cfg.SecretKey = key
	}

	var err error
	if cfg.APITimeout, err = durationEnv("FOLIO_API_TIMEOUT", cfg.APITimeout); err != nil {
		return nil, err
	}
	if cfg.LivePollInterval, err = durationEnv("FOLIO_LIVE_POLL_INTERVAL", cfg.LivePollInterval); err != nil {
		return nil, err
	}
	if cfg.LivePollInterval <= 0 {
		return nil, fmt.Errorf("FOLIO_LIVE_POLL_INTERVAL must be positive")
	}
	if cfg.HTTPCache, err = boolEnv("FOLIO_HTTP_CACHE", cfg.HTTPCache); err != nil {
		return nil, err
	}
	if cfg.TokenRefresh, err = boolEnv("FOLIO_TOKEN_REFRESH", cfg.TokenRefresh); err != nil {
		return nil, err
	}
	if cfg.LoginRatePerMin, err = positiveIntEnv("FOLIO_RATE_LIMIT_LOGIN", cfg.LoginRatePerMin); err != nil {
		return nil, err
	}
	if cfg.PublicRatePerMin, err = positiveIntEnv("FOLIO_RATE_LIMIT_PUBLIC", cfg.PublicRatePerMin); err != nil {
		return nil, err
	}

	if v, ok := os.LookupEnv("FOLIO_LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("FOLIO_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	if cfg.TrustedProxies, err = prefixListEnv("FOLIO_TRUSTED_PROXIES"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// prefixListEnv parses a comma-separated list of CIDR prefixes or bare
// addresses. A bare address becomes a single-host prefix.
func prefixListEnv(key string) ([]netip.Prefix, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil, nil
	}

	var out []netip.Prefix
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, fmt.Errorf("%s has invalid prefix %q: %w", key, item, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("%s has invalid address %q: %w", key, item, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	return parsed, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s has invalid boolean %q: %w", key, v, err)
	}
	return parsed, nil
}

func positiveIntEnv(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return parsed, nil
}
