package web

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// fakeAPI is a hand-written driven.PortfolioAPI. Nil function fields return
// empty successful responses.
type fakeAPI struct {
	mu sync.Mutex

	getHomeFn         func(ctx context.Context) (*model.HomeData, error)
	listProjectsFn    func(ctx context.Context) ([]model.Project, error)
	getProjectFn      func(ctx context.Context, slug string) (*model.Project, error)
	listBlogPostsFn   func(ctx context.Context) ([]model.BlogPost, error)
	getBlogPostFn     func(ctx context.Context, slug string) (*model.BlogPost, error)
	getStatusFn       func(ctx context.Context) (*model.SystemStatus, error)
	sendContactFn     func(ctx context.Context, msg model.ContactMessage) error
	obtainTokenFn     func(ctx context.Context, identifier, secret string) (model.Credential, error)
	getStatsFn        func(ctx context.Context) (*model.DashboardStats, error)
	listVisitorsFn    func(ctx context.Context) ([]model.Visitor, error)
	listVaultFilesFn  func(ctx context.Context) ([]model.VaultFile, error)
	uploadVaultFileFn func(ctx context.Context, name string, category model.VaultCategory, content []byte) (*model.VaultFile, error)
	deleteVaultFileFn func(ctx context.Context, id int64) error

	tracked  []model.TrackEvent
	contacts []model.ContactMessage
	deleted  []int64
}

var _ driven.PortfolioAPI = (*fakeAPI)(nil)

func (f *fakeAPI) GetHome(ctx context.Context) (*model.HomeData, error) {
	if f.getHomeFn != nil {
		return f.getHomeFn(ctx)
	}
	return &model.HomeData{}, nil
}

func (f *fakeAPI) ListProjects(ctx context.Context) ([]model.Project, error) {
	if f.listProjectsFn != nil {
		return f.listProjectsFn(ctx)
	}
	return []model.Project{}, nil
}

func (f *fakeAPI) GetProject(ctx context.Context, slug string) (*model.Project, error) {
	if f.getProjectFn != nil {
		return f.getProjectFn(ctx, slug)
	}
	return &model.Project{Slug: slug, Title: slug}, nil
}

func (f *fakeAPI) ListBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	if f.listBlogPostsFn != nil {
		return f.listBlogPostsFn(ctx)
	}
	return []model.BlogPost{}, nil
}

func (f *fakeAPI) GetBlogPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	if f.getBlogPostFn != nil {
		return f.getBlogPostFn(ctx, slug)
	}
	return &model.BlogPost{Slug: slug, Title: slug}, nil
}

func (f *fakeAPI) GetSystemStatus(ctx context.Context) (*model.SystemStatus, error) {
	if f.getStatusFn != nil {
		return f.getStatusFn(ctx)
	}
	return &model.SystemStatus{Status: model.StatusOperational, Latency: "12ms", Services: []model.ServiceStatus{}}, nil
}

func (f *fakeAPI) SendContactMessage(ctx context.Context, msg model.ContactMessage) error {
	f.mu.Lock()
	f.contacts = append(f.contacts, msg)
	f.mu.Unlock()
	if f.sendContactFn != nil {
		return f.sendContactFn(ctx, msg)
	}
	return nil
}

func (f *fakeAPI) TrackVisitor(_ context.Context, event model.TrackEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracked = append(f.tracked, event)
}

func (f *fakeAPI) trackedEvents() []model.TrackEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.TrackEvent(nil), f.tracked...)
}

func (f *fakeAPI) SendChatQuery(_ context.Context, query string) model.ChatReply {
	return model.ChatReply{Text: query}
}

func (f *fakeAPI) ObtainToken(ctx context.Context, identifier, secret string) (model.Credential, error) {
	if f.obtainTokenFn != nil {
		return f.obtainTokenFn(ctx, identifier, secret)
	}
	return model.Credential{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (f *fakeAPI) RefreshToken(_ context.Context, refresh string) (model.Credential, error) {
	return model.Credential{AccessToken: "rotated", RefreshToken: refresh}, nil
}

func (f *fakeAPI) GetDashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	if f.getStatsFn != nil {
		return f.getStatsFn(ctx)
	}
	return &model.DashboardStats{}, nil
}

func (f *fakeAPI) ListVisitors(ctx context.Context) ([]model.Visitor, error) {
	if f.listVisitorsFn != nil {
		return f.listVisitorsFn(ctx)
	}
	return []model.Visitor{}, nil
}

func (f *fakeAPI) ListVaultFiles(ctx context.Context) ([]model.VaultFile, error) {
	if f.listVaultFilesFn != nil {
		return f.listVaultFilesFn(ctx)
	}
	return []model.VaultFile{}, nil
}

func (f *fakeAPI) UploadVaultFile(ctx context.Context, name string, category model.VaultCategory, content io.Reader) (*model.VaultFile, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	if f.uploadVaultFileFn != nil {
		return f.uploadVaultFileFn(ctx, name, category, data)
	}
	return &model.VaultFile{ID: 1, Name: name, Category: category}, nil
}

func (f *fakeAPI) DeleteVaultFile(ctx context.Context, id int64) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, id)
	f.mu.Unlock()
	if f.deleteVaultFileFn != nil {
		return f.deleteVaultFileFn(ctx, id)
	}
	return nil
}

// detailError mimics a backend error carrying a display message.
type detailError struct {
	detail string
}

func (e *detailError) Error() string       { return "backend: " + e.detail }
func (e *detailError) ErrorDetail() string { return e.detail }

// stubLimiter allows a fixed number of requests.
type stubLimiter struct {
	remaining int
}

func (l *stubLimiter) Allow(_ *http.Request) (bool, time.Duration) {
	if l.remaining <= 0 {
		return false, 30 * time.Second
	}
	l.remaining--
	return true, 0
}
