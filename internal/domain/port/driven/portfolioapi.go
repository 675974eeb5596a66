package driven

import (
	"context"
	"io"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// PortfolioAPI defines the driven port for the backend REST API. Each method
// wraps one endpoint and never retries.
type PortfolioAPI interface {
	// Public reads

	GetHome(ctx context.Context) (*model.HomeData, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, slug string) (*model.Project, error)
	ListBlogPosts(ctx context.Context) ([]model.BlogPost, error)
	GetBlogPost(ctx context.Context, slug string) (*model.BlogPost, error)
	GetSystemStatus(ctx context.Context) (*model.SystemStatus, error)

	// Public writes

	SendContactMessage(ctx context.Context, msg model.ContactMessage) error
	// TrackVisitor records a page view. Failures are swallowed by the adapter.
	TrackVisitor(ctx context.Context, event model.TrackEvent)
	// SendChatQuery never fails: transport errors yield a canned fallback reply.
	SendChatQuery(ctx context.Context, query string) model.ChatReply

	// Authentication

	ObtainToken(ctx context.Context, identifier, secret string) (model.Credential, error)
	// RefreshToken exchanges a refresh token for a new pair. The refresh token is
	// echoed back when the backend does not rotate it.
	RefreshToken(ctx context.Context, refresh string) (model.Credential, error)

	// Privileged (bearer token required)

	GetDashboardStats(ctx context.Context) (*model.DashboardStats, error)
	ListVisitors(ctx context.Context) ([]model.Visitor, error)
	ListVaultFiles(ctx context.Context) ([]model.VaultFile, error)
	UploadVaultFile(ctx context.Context, name string, category model.VaultCategory, content io.Reader) (*model.VaultFile, error)
	DeleteVaultFile(ctx context.Context, id int64) error
}

// RepoStatsClient defines the driven port for looking up public source
// repository statistics of a project link.
type RepoStatsClient interface {
	// FetchRepoStats returns nil, nil when link does not point at a supported host.
	FetchRepoStats(ctx context.Context, link string) (*model.RepoStats, error)
}
