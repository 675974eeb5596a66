package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// ErrFileNameRequired is returned when an upload has no display name.
var ErrFileNameRequired = errors.New("file name is required")

// PageShare is a top page with its share of all page views, in percent.
type PageShare struct {
	Path    string
	Views   int
	Percent int
}

// Dashboard is the joined analytics view.
type Dashboard struct {
	Stats    model.DashboardStats
	Visitors []model.Visitor
}

// TopVisitors returns at most n visitors in backend order.
func (d *Dashboard) TopVisitors(n int) []model.Visitor {
	if len(d.Visitors) <= n {
		return d.Visitors
	}
	return d.Visitors[:n]
}

// TopPages returns at most n pages with their share of total page views.
func (d *Dashboard) TopPages(n int) []PageShare {
	pages := d.Stats.TopPages
	if len(pages) > n {
		pages = pages[:n]
	}

	total := d.Stats.Overview.TotalPageviews
	out := make([]PageShare, 0, len(pages))
	for _, p := range pages {
		share := PageShare{Path: p.Path, Views: p.Views}
		if total > 0 {
			share.Percent = min(p.Views*100/total, 100)
		}
		out = append(out, share)
	}
	return out
}

// AdminService serves the privileged dashboard and vault. Every call needs a
// held access token; the API client attaches it.
type AdminService struct {
	api    driven.PortfolioAPI
	logger *slog.Logger
}

// NewAdminService creates an AdminService.
func NewAdminService(api driven.PortfolioAPI, logger *slog.Logger) *AdminService {
	return &AdminService{
		api:    api,
		logger: logger,
	}
}

// Dashboard fetches stats and visitors concurrently. If either fails nothing
// is returned.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		stats    *model.DashboardStats
		visitors []model.Visitor
	)

	_, err := LoadAll(ctx,
		func(ctx context.Context) error {
			var err error
			stats, err = s.api.GetDashboardStats(ctx)
			return err
		},
		func(ctx context.Context) error {
			var err error
			visitors, err = s.api.ListVisitors(ctx)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	return &Dashboard{Stats: *stats, Visitors: visitors}, nil
}

// VaultFiles lists the vault.
func (s *AdminService) VaultFiles(ctx context.Context) ([]model.VaultFile, error) {
	return s.api.ListVaultFiles(ctx)
}

// UploadVaultFile stores content under name and returns the refreshed listing.
func (s *AdminService) UploadVaultFile(ctx context.Context, name string, category model.VaultCategory, content io.Reader) ([]model.VaultFile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFileNameRequired
	}

	file, err := s.api.UploadVaultFile(ctx, name, category, content)
	if err != nil {
		return nil, err
	}
	s.logger.Info("vault file uploaded", "id", file.ID, "name", file.Name)

	files, err := s.api.ListVaultFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("re-listing vault after upload: %w", err)
	}
	return files, nil
}

// DeleteVaultFile removes a file. The caller's listing must only change after
// this returns nil.
func (s *AdminService) DeleteVaultFile(ctx context.Context, id int64) error {
	if err := s.api.DeleteVaultFile(ctx, id); err != nil {
		return err
	}
	s.logger.Info("vault file deleted", "id", id)
	return nil
}
