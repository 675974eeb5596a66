// Package github implements the RepoStatsClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RepoStatsClient = (*Client)(nil)

// Client implements the driven.RepoStatsClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client, PAT auth when token is set)
//
// An empty token uses the unauthenticated quota.
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchRepoStats looks up the repository a project links to. Links that do not
// point at a github.com repository yield nil, nil.
func (c *Client) FetchRepoStats(ctx context.Context, link string) (*model.RepoStats, error) {
	owner, repo, ok := parseRepoLink(link)
	if !ok {
		return nil, nil
	}

	r, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("fetching repository %s/%s: %w", owner, repo, err)
	}

	logRateLimit(resp, owner+"/"+repo)

	return mapRepository(r), nil
}

// mapRepository converts a go-github Repository to domain RepoStats.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapRepository(r *gh.Repository) *model.RepoStats {
	return &model.RepoStats{
		FullName:   r.GetFullName(),
		URL:        r.GetHTMLURL(),
		Stars:      r.GetStargazersCount(),
		Forks:      r.GetForksCount(),
		OpenIssues: r.GetOpenIssuesCount(),
		Language:   r.GetLanguage(),
		PushedAt:   r.GetPushedAt().Time,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 10 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// parseRepoLink extracts owner and repo from a github.com URL such as
// "https://github.com/owner/repo", "github.com/owner/repo.git" or
// "https://github.com/owner/repo/tree/main".
func parseRepoLink(link string) (string, string, bool) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", "", false
	}
	if !strings.Contains(link, "://") {
		link = "https://" + link
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", "", false
	}
	host := strings.ToLower(u.Hostname())
	if host != "github.com" && host != "www.github.com" {
		return "", "", false
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), true
}
