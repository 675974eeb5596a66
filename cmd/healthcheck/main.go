// Command healthcheck asks the local folio instance whether it is serving, for
// use as a container HEALTHCHECK. It exits non-zero when the instance does not
// answer, answers with an error, or reports a time far from the local clock.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	httphandler "github.com/ericfisherdev/folio/internal/adapter/driving/http"
	"github.com/ericfisherdev/folio/internal/config"
)

const (
	timeout = 2 * time.Second
	maxSkew = time.Minute
)

func main() {
	if err := run(); err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("unhealthy", "error", err)
		os.Exit(1)
	}
}

func run() error {
	target, err := healthURL(os.Getenv("FOLIO_LISTEN_ADDR"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return check(ctx, &http.Client{Timeout: timeout}, target, time.Now())
}

// healthURL maps the server's listen address to its health endpoint. Wildcard
// hosts are dialled on loopback since the check runs beside the server.
func healthURL(listen string) (string, error) {
	if listen == "" {
		listen = config.DefaultListenAddr
	}
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "", fmt.Errorf("listen address %q: %w", listen, err)
	}
	if port == "" {
		return "", fmt.Errorf("listen address %q has no port", listen)
	}

	switch host {
	case "", "0.0.0.0":
		host = "127.0.0.1"
	case "::":
		host = "::1"
	}

	u := url.URL{Scheme: "http", Host: net.JoinHostPort(host, port), Path: "/api/v1/health"}
	return u.String(), nil
}

func check(ctx context.Context, client *http.Client, target string, now time.Time) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health returned %s", resp.Status)
	}

	var body httphandler.HealthResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&body); err != nil {
		return fmt.Errorf("decode health: %w", err)
	}
	if body.Status != "ok" {
		return fmt.Errorf("health reported %q", body.Status)
	}

	reported, err := time.Parse(time.RFC3339, body.Time)
	if err != nil {
		return fmt.Errorf("health time %q: %w", body.Time, err)
	}
	if skew := now.Sub(reported).Abs(); skew > maxSkew {
		return errors.New("health time is " + skew.Round(time.Second).String() + " off the local clock")
	}
	return nil
}
