package application

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// trackTimeout bounds a detached page-view tracking call.
const trackTimeout = 5 * time.Second

// ErrIncompleteMessage is returned when a contact submission misses a field.
var ErrIncompleteMessage = errors.New("name, email and message are required")

// ProjectsPage is the projects list after search and category filtering,
// together with the backend latency reported by the status endpoint.
type ProjectsPage struct {
	Projects []model.Project
	Total    int
	Filter   model.ProjectFilter
	Query    string
	Latency  string
}

// ProjectDetail is one project with optional repository statistics.
type ProjectDetail struct {
	Project model.Project
	Repo    *model.RepoStats
}

// SiteService serves the public pages. It depends only on port interfaces.
type SiteService struct {
	api    driven.PortfolioAPI
	repos  driven.RepoStatsClient
	logger *slog.Logger

	trackWG sync.WaitGroup
}

// NewSiteService creates a SiteService. repos may be nil to disable repository
// statistics on project pages.
func NewSiteService(api driven.PortfolioAPI, repos driven.RepoStatsClient, logger *slog.Logger) *SiteService {
	return &SiteService{
		api:    api,
		repos:  repos,
		logger: logger,
	}
}

// Home fetches the home aggregate with timeline and achievements in display order.
func (s *SiteService) Home(ctx context.Context) (*model.HomeData, error) {
	home, err := s.api.GetHome(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(home.Journey, func(a, b model.Journey) int { return cmp.Compare(a.Order, b.Order) })
	slices.SortStableFunc(home.Achievements, func(a, b model.Achievement) int { return cmp.Compare(a.Order, b.Order) })
	return home, nil
}

// Projects fetches the project list and the backend status concurrently. If
// either fails the whole page fails.
func (s *SiteService) Projects(ctx context.Context, filter model.ProjectFilter, query string) (*ProjectsPage, error) {
	var (
		projects []model.Project
		status   *model.SystemStatus
	)

	_, err := LoadAll(ctx,
		func(ctx context.Context) error {
			var err error
			projects, err = s.api.ListProjects(ctx)
			return err
		},
		func(ctx context.Context) error {
			var err error
			status, err = s.api.GetSystemStatus(ctx)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	return &ProjectsPage{
		Projects: model.FilterProjects(projects, filter, query),
		Total:    len(projects),
		Filter:   filter,
		Query:    strings.TrimSpace(query),
		Latency:  status.Latency,
	}, nil
}

// Project fetches one project. Repository statistics are best effort.
func (s *SiteService) Project(ctx context.Context, slug string) (*ProjectDetail, error) {
	project, err := s.api.GetProject(ctx, slug)
	if err != nil {
		return nil, err
	}

	detail := &ProjectDetail{Project: *project}
	if s.repos == nil || project.GitHubLink == "" {
		return detail, nil
	}

	stats, err := s.repos.FetchRepoStats(ctx, project.GitHubLink)
	if err != nil {
		s.logger.Debug("repository stats unavailable", "link", project.GitHubLink, "error", err)
		return detail, nil
	}
	detail.Repo = stats
	return detail, nil
}

// BlogPosts fetches the post list.
func (s *SiteService) BlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	return s.api.ListBlogPosts(ctx)
}

// BlogPost fetches one post.
func (s *SiteService) BlogPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	return s.api.GetBlogPost(ctx, slug)
}

// Status returns the backend health. A failed fetch is reported as an outage.
func (s *SiteService) Status(ctx context.Context) model.SystemStatus {
	status, err := s.api.GetSystemStatus(ctx)
	if err != nil {
		s.logger.Warn("status fetch failed", "error", err)
		return model.OutageStatus()
	}
	return *status
}

// Contact delivers a contact form submission.
func (s *SiteService) Contact(ctx context.Context, msg model.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)
	if !msg.Complete() {
		return ErrIncompleteMessage
	}
	if err := s.api.SendContactMessage(ctx, msg); err != nil {
		return fmt.Errorf("contact: %w", err)
	}
	return nil
}

// Chat forwards a question to the assistant. It never fails.
func (s *SiteService) Chat(ctx context.Context, query string) model.ChatReply {
	return s.api.SendChatQuery(ctx, strings.TrimSpace(query))
}

// Track records a page view in the background. It returns immediately and the
// call is bounded by its own timeout, independent of the page request.
func (s *SiteService) Track(event model.TrackEvent) {
	s.trackWG.Add(1)
	go func() {
		defer s.trackWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()
		s.api.TrackVisitor(ctx, event)
	}()
}

// Wait blocks until in-flight tracking calls have finished.
func (s *SiteService) Wait() {
	s.trackWG.Wait()
}
