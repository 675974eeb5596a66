// Package portfolioapi implements the PortfolioAPI port over the backend's JSON REST API.
package portfolioapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// ErrBaseURLRequired is returned by NewClient when no base address is configured.
// It is a configuration error and is never produced at request time.
var ErrBaseURLRequired = errors.New("portfolio API base URL is required: set FOLIO_API_URL")

// maxErrorBody caps how much of a failed response body is kept on an APIError.
const maxErrorBody = 64 << 10

// APIError is returned for every non-2xx response. The backend body is kept
// verbatim; Detail holds its "detail" or "error" field when present.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Detail     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// ErrorDetail returns the backend's message for display.
func (e *APIError) ErrorDetail() string {
	return e.Detail
}

// Is lets callers match status classes with errors.Is against the port sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case driven.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case driven.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// StatusCode extracts the HTTP status of an APIError anywhere in err's chain.
// Returns 0 for transport failures.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default transport stack. Intended for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithHTTPCache toggles the ETag/Cache-Control aware memory cache transport.
func WithHTTPCache(enabled bool) Option {
	return func(c *Client) { c.cache = enabled }
}

// WithTokenRefresh toggles silent refresh-on-401 using the stored refresh token.
func WithTokenRefresh(enabled bool) Option {
	return func(c *Client) { c.refresh = enabled }
}

// WithTimeout bounds every request. Zero means no bound beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for best-effort failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Compile-time interface satisfaction check.
var _ driven.PortfolioAPI = (*Client)(nil)

// Client is the single outgoing channel to the backend. It attaches the current
// bearer token to every request and targets one base address.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  driven.TokenStore
	cache   bool
	refresh bool
	timeout time.Duration
	logger  *slog.Logger

	refreshMu sync.Mutex
}

// NewClient creates a Client for the API rooted at baseURL (e.g.
// "https://example.com/api/v1"). The default transport is an httpcache memory
// cache so the backend's Cache-Control headers are honoured.
func NewClient(baseURL string, tokens driven.TokenStore, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid URL %q", ErrBaseURLRequired, baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		tokens:  tokens,
		cache:   true,
		refresh: true,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		if c.cache {
			c.http = &http.Client{Transport: httpcache.NewMemoryCacheTransport()}
		} else {
			c.http = &http.Client{}
		}
	}

	return c, nil
}

// BaseURL returns the normalised base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one API call. The body is held as bytes so the request can
// be replayed once after a token refresh.
type request struct {
	method      string
	path        string
	body        []byte
	contentType string
	header      http.Header
	noRefresh   bool
}

func jsonRequest(method, path string, payload any) (request, error) {
	req := request{method: method, path: path}
	if payload == nil {
		return req, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return req, fmt.Errorf("encoding %s %s body: %w", method, path, err)
	}
	req.body = data
	req.contentType = "application/json"
	return req, nil
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, _ := jsonRequest(http.MethodGet, path, nil)
	return c.send(ctx, req, out)
}

// Post issues a JSON POST and decodes the JSON response into out (which may be nil).
func (c *Client) Post(ctx context.Context, path string, payload, out any) error {
	req, err := jsonRequest(http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	return c.send(ctx, req, out)
}

// Delete issues a DELETE. Any response body is discarded.
func (c *Client) Delete(ctx context.Context, path string) error {
	req, _ := jsonRequest(http.MethodDelete, path, nil)
	return c.send(ctx, req, nil)
}

// Upload issues a multipart/form-data POST built from body and decodes the JSON
// response into out.
func (c *Client) Upload(ctx context.Context, path string, body *bytes.Buffer, contentType string, out any) error {
	return c.send(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        body.Bytes(),
		contentType: contentType,
	}, out)
}

// send performs the request, refreshing the access token once on 401 when a
// refresh token is held.
func (c *Client) send(ctx context.Context, req request, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, usedToken, err := c.roundTrip(ctx, req)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.canRefresh(req, usedToken) {
		original := c.readError(req, resp)

		if refreshErr := c.refreshAccessToken(ctx, usedToken); refreshErr != nil {
			c.logger.Info("token refresh failed, session cleared",
				"path", req.path,
				"error", refreshErr,
			)
			return original
		}

		resp, _, err = c.roundTrip(ctx, req)
		if err != nil {
			return err
		}
	}

	return c.decode(req, resp, out)
}

func (c *Client) canRefresh(req request, usedToken string) bool {
	return c.refresh && !req.noRefresh && usedToken != "" && c.tokens != nil && c.tokens.PeekRefreshToken() != ""
}

// roundTrip sends one attempt and reports which access token was attached.
func (c *Client) roundTrip(ctx context.Context, req request) (*http.Response, string, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return nil, "", fmt.Errorf("building %s %s: %w", req.method, req.path, err)
	}
	for k, vs := range req.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	var token string
	if c.tokens != nil {
		token = c.tokens.PeekAccessToken()
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, token, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}

	c.logger.Debug("portfolio api call",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"authenticated", token != "",
		"cached", resp.Header.Get(httpcache.XFromCache) != "",
	)

	return resp, token, nil
}

// decode consumes resp. 2xx bodies are decoded into out; everything else
// becomes an *APIError.
func (c *Client) decode(req request, resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.readError(req, resp)
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decoding %s %s response: %w", req.method, req.path, err)
	}
	return nil
}

// readError consumes resp into an *APIError.
func (c *Client) readError(req request, resp *http.Response) error {
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{
		Method:     req.method,
		Path:       req.path,
		StatusCode: resp.StatusCode,
		Body:       string(data),
		Detail:     errorDetail(data),
	}
}

// errorDetail extracts the human-readable message from a DRF error body.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Error
}

// refreshAccessToken exchanges the stored refresh token for a new access token.
// staleToken is the access token the server rejected; if another request has
// already rotated it, no call is made.
func (c *Client) refreshAccessToken(ctx context.Context, staleToken string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current := c.tokens.PeekAccessToken(); current != "" && current != staleToken {
		return nil
	}

	refreshToken := c.tokens.PeekRefreshToken()
	cred, err := c.RefreshToken(ctx, refreshToken)
	if err != nil {
		if clearErr := c.tokens.Clear(ctx); clearErr != nil {
			c.logger.Error("failed to clear credentials after refresh failure", "error", clearErr)
		}
		return err
	}

	return c.tokens.Save(ctx, cred.AccessToken, cred.RefreshToken)
}

// tokenResponse is the body of /token/ and /token/refresh/.
type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
