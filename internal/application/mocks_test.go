package application

import (
	"context"
	"io"
	"sync"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// mockAPI is a hand-written driven.PortfolioAPI. Nil function fields return
// zero values.
type mockAPI struct {
	mu sync.Mutex

	getHomeFn           func(ctx context.Context) (*model.HomeData, error)
	listProjectsFn      func(ctx context.Context) ([]model.Project, error)
	getProjectFn        func(ctx context.Context, slug string) (*model.Project, error)
	listBlogPostsFn     func(ctx context.Context) ([]model.BlogPost, error)
	getBlogPostFn       func(ctx context.Context, slug string) (*model.BlogPost, error)
	getSystemStatusFn   func(ctx context.Context) (*model.SystemStatus, error)
	sendContactFn       func(ctx context.Context, msg model.ContactMessage) error
	chatFn              func(ctx context.Context, query string) model.ChatReply
	obtainTokenFn       func(ctx context.Context, identifier, secret string) (model.Credential, error)
	refreshTokenFn      func(ctx context.Context, refresh string) (model.Credential, error)
	getDashboardStatsFn func(ctx context.Context) (*model.DashboardStats, error)
	listVisitorsFn      func(ctx context.Context) ([]model.Visitor, error)
	listVaultFilesFn    func(ctx context.Context) ([]model.VaultFile, error)
	uploadVaultFileFn   func(ctx context.Context, name string, category model.VaultCategory, content io.Reader) (*model.VaultFile, error)
	deleteVaultFileFn   func(ctx context.Context, id int64) error

	tracked       []model.TrackEvent
	obtainCalls   int
	contactCalls  []model.ContactMessage
	vaultListings int
}

var _ driven.PortfolioAPI = (*mockAPI)(nil)

func (m *mockAPI) GetHome(ctx context.Context) (*model.HomeData, error) {
	if m.getHomeFn != nil {
		return m.getHomeFn(ctx)
	}
	return &model.HomeData{}, nil
}

func (m *mockAPI) ListProjects(ctx context.Context) ([]model.Project, error) {
	if m.listProjectsFn != nil {
		return m.listProjectsFn(ctx)
	}
	return []model.Project{}, nil
}

func (m *mockAPI) GetProject(ctx context.Context, slug string) (*model.Project, error) {
	if m.getProjectFn != nil {
		return m.getProjectFn(ctx, slug)
	}
	return &model.Project{Slug: slug}, nil
}

func (m *mockAPI) ListBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	if m.listBlogPostsFn != nil {
		return m.listBlogPostsFn(ctx)
	}
	return []model.BlogPost{}, nil
}

func (m *mockAPI) GetBlogPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	if m.getBlogPostFn != nil {
		return m.getBlogPostFn(ctx, slug)
	}
	return &model.BlogPost{Slug: slug}, nil
}

func (m *mockAPI) GetSystemStatus(ctx context.Context) (*model.SystemStatus, error) {
	if m.getSystemStatusFn != nil {
		return m.getSystemStatusFn(ctx)
	}
	return &model.SystemStatus{Status: model.StatusOperational}, nil
}

func (m *mockAPI) SendContactMessage(ctx context.Context, msg model.ContactMessage) error {
	m.mu.Lock()
	m.contactCalls = append(m.contactCalls, msg)
	m.mu.Unlock()
	if m.sendContactFn != nil {
		return m.sendContactFn(ctx, msg)
	}
	return nil
}

func (m *mockAPI) TrackVisitor(_ context.Context, event model.TrackEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracked = append(m.tracked, event)
}

func (m *mockAPI) SendChatQuery(ctx context.Context, query string) model.ChatReply {
	if m.chatFn != nil {
		return m.chatFn(ctx, query)
	}
	return model.ChatReply{Text: "echo: " + query}
}

func (m *mockAPI) ObtainToken(ctx context.Context, identifier, secret string) (model.Credential, error) {
	m.mu.Lock()
	m.obtainCalls++
	m.mu.Unlock()
	if m.obtainTokenFn != nil {
		return m.obtainTokenFn(ctx, identifier, secret)
	}
	return model.Credential{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (m *mockAPI) RefreshToken(ctx context.Context, refresh string) (model.Credential, error) {
	if m.refreshTokenFn != nil {
		return m.refreshTokenFn(ctx, refresh)
	}
	return model.Credential{AccessToken: "access", RefreshToken: refresh}, nil
}

func (m *mockAPI) GetDashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	if m.getDashboardStatsFn != nil {
		return m.getDashboardStatsFn(ctx)
	}
	return &model.DashboardStats{}, nil
}

func (m *mockAPI) ListVisitors(ctx context.Context) ([]model.Visitor, error) {
	if m.listVisitorsFn != nil {
		return m.listVisitorsFn(ctx)
	}
	return []model.Visitor{}, nil
}

func (m *mockAPI) ListVaultFiles(ctx context.Context) ([]model.VaultFile, error) {
	m.mu.Lock()
	m.vaultListings++
	m.mu.Unlock()
	if m.listVaultFilesFn != nil {
		return m.listVaultFilesFn(ctx)
	}
	return []model.VaultFile{}, nil
}

func (m *mockAPI) UploadVaultFile(ctx context.Context, name string, category model.VaultCategory, content io.Reader) (*model.VaultFile, error) {
	if m.uploadVaultFileFn != nil {
		return m.uploadVaultFileFn(ctx, name, category, content)
	}
	return &model.VaultFile{ID: 1, Name: name, Category: category}, nil
}

func (m *mockAPI) DeleteVaultFile(ctx context.Context, id int64) error {
	if m.deleteVaultFileFn != nil {
		return m.deleteVaultFileFn(ctx, id)
	}
	return nil
}

func (m *mockAPI) trackedEvents() []model.TrackEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.TrackEvent(nil), m.tracked...)
}

// mockPersister is an in-memory driven.CredentialPersister.
type mockPersister struct {
	cred    model.Credential
	loadErr error
	saveErr error
	clears  int
}

func (p *mockPersister) Load(_ context.Context) (model.Credential, error) {
	return p.cred, p.loadErr
}

func (p *mockPersister) Save(_ context.Context, cred model.Credential) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.cred = cred
	return nil
}

func (p *mockPersister) Clear(_ context.Context) error {
	p.clears++
	p.cred = model.Credential{}
	return nil
}
