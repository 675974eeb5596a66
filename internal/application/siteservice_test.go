package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

type mockRepoStats struct {
	stats *model.RepoStats
	err   error
	links []string
}

func (m *mockRepoStats) FetchRepoStats(_ context.Context, link string) (*model.RepoStats, error) {
	m.links = append(m.links, link)
	return m.stats, m.err
}

func sampleProjects() []model.Project {
	return []model.Project{
		{Title: "Cluster Ops", Skills: []model.Skill{{Name: "Kubernetes", Category: model.SkillCategoryDevOps}}},
		{Title: "Shop Front", Tagline: "storefront", Skills: []model.Skill{{Name: "React", Category: model.SkillCategoryFront}}},
		{Title: "Log Grep", Skills: []model.Skill{{Name: "Bash", Category: model.SkillCategoryTool}}},
	}
}

func TestSiteService_HomeSortsByOrder(t *testing.T) {
	api := &mockAPI{
		getHomeFn: func(context.Context) (*model.HomeData, error) {
			return &model.HomeData{
				Journey:      []model.Journey{{Title: "b", Order: 2}, {Title: "a", Order: 1}},
				Achievements: []model.Achievement{{Title: "y", Order: 9}, {Title: "x", Order: 3}},
			}, nil
		},
	}
	svc := NewSiteService(api, nil, slog.Default())

	home, err := svc.Home(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "a", home.Journey[0].Title)
	assert.Equal(t, "x", home.Achievements[0].Title)
}

func TestSiteService_ProjectsFiltersAndReportsLatency(t *testing.T) {
	api := &mockAPI{
		listProjectsFn: func(context.Context) ([]model.Project, error) { return sampleProjects(), nil },
		getSystemStatusFn: func(context.Context) (*model.SystemStatus, error) {
			return &model.SystemStatus{Status: model.StatusOperational, Latency: "24ms"}, nil
		},
	}
	svc := NewSiteService(api, nil, slog.Default())

	page, err := svc.Projects(context.Background(), model.ProjectFilterDevOps, "")
	require.NoError(t, err)

	require.Len(t, page.Projects, 1)
	assert.Equal(t, "Cluster Ops", page.Projects[0].Title)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, "24ms", page.Latency)
}

func TestSiteService_ProjectsSearchMatchesTagline(t *testing.T) {
	api := &mockAPI{
		listProjectsFn: func(context.Context) ([]model.Project, error) { return sampleProjects(), nil },
	}
	svc := NewSiteService(api, nil, slog.Default())

	page, err := svc.Projects(context.Background(), model.ProjectFilterAll, "  STORE ")
	require.NoError(t, err)

	require.Len(t, page.Projects, 1)
	assert.Equal(t, "Shop Front", page.Projects[0].Title)
	assert.Equal(t, "STORE", page.Query)
}

func TestSiteService_ProjectsFailsWhenStatusFails(t *testing.T) {
	api := &mockAPI{
		listProjectsFn: func(context.Context) ([]model.Project, error) { return sampleProjects(), nil },
		getSystemStatusFn: func(context.Context) (*model.SystemStatus, error) {
			return nil, errors.New("status down")
		},
	}
	svc := NewSiteService(api, nil, slog.Default())

	page, err := svc.Projects(context.Background(), model.ProjectFilterAll, "")

	require.Error(t, err)
	assert.Nil(t, page)
}

func TestSiteService_ProjectAddsRepoStats(t *testing.T) {
	api := &mockAPI{
		getProjectFn: func(_ context.Context, slug string) (*model.Project, error) {
			return &model.Project{Slug: slug, GitHubLink: "https://github.com/o/r"}, nil
		},
	}
	repos := &mockRepoStats{stats: &model.RepoStats{FullName: "o/r", Stars: 10}}
	svc := NewSiteService(api, repos, slog.Default())

	detail, err := svc.Project(context.Background(), "demo")
	require.NoError(t, err)

	require.NotNil(t, detail.Repo)
	assert.Equal(t, 10, detail.Repo.Stars)
	assert.Equal(t, []string{"https://github.com/o/r"}, repos.links)
}

func TestSiteService_ProjectRepoStatsFailureIsIgnored(t *testing.T) {
	api := &mockAPI{
		getProjectFn: func(_ context.Context, slug string) (*model.Project, error) {
			return &model.Project{Slug: slug, GitHubLink: "https://github.com/o/r"}, nil
		},
	}
	svc := NewSiteService(api, &mockRepoStats{err: errors.New("rate limited")}, slog.Default())

	detail, err := svc.Project(context.Background(), "demo")
	require.NoError(t, err)

	assert.Equal(t, "demo", detail.Project.Slug)
	assert.Nil(t, detail.Repo)
}

func TestSiteService_ProjectWithoutLinkSkipsLookup(t *testing.T) {
	repos := &mockRepoStats{}
	svc := NewSiteService(&mockAPI{}, repos, slog.Default())

	_, err := svc.Project(context.Background(), "demo")
	require.NoError(t, err)

	assert.Empty(t, repos.links)
}

func TestSiteService_StatusOutageOnFailure(t *testing.T) {
	api := &mockAPI{
		getSystemStatusFn: func(context.Context) (*model.SystemStatus, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewSiteService(api, nil, slog.Default())

	status := svc.Status(context.Background())

	assert.Equal(t, "Outage", status.Status)
	assert.NotNil(t, status.Services)
	assert.Empty(t, status.Services)
}

func TestSiteService_ContactRequiresAllFields(t *testing.T) {
	api := &mockAPI{}
	svc := NewSiteService(api, nil, slog.Default())

	err := svc.Contact(context.Background(), model.ContactMessage{Name: "n", Email: " ", Message: "m"})

	require.ErrorIs(t, err, ErrIncompleteMessage)
	assert.Empty(t, api.contactCalls)
}

func TestSiteService_ContactSendsTrimmedMessage(t *testing.T) {
	api := &mockAPI{}
	svc := NewSiteService(api, nil, slog.Default())

	err := svc.Contact(context.Background(), model.ContactMessage{Name: " n ", Email: "e@x.io", Message: "hi\n"})
	require.NoError(t, err)

	require.Len(t, api.contactCalls, 1)
	assert.Equal(t, model.ContactMessage{Name: "n", Email: "e@x.io", Message: "hi"}, api.contactCalls[0])
}

func TestSiteService_ContactWrapsBackendError(t *testing.T) {
	boom := errors.New("smtp down")
	api := &mockAPI{sendContactFn: func(context.Context, model.ContactMessage) error { return boom }}
	svc := NewSiteService(api, nil, slog.Default())

	err := svc.Contact(context.Background(), model.ContactMessage{Name: "n", Email: "e", Message: "m"})

	assert.ErrorIs(t, err, boom)
}

func TestSiteService_TrackIsDetached(t *testing.T) {
	api := &mockAPI{}
	svc := NewSiteService(api, nil, slog.Default())

	svc.Track(model.TrackEvent{Path: "/blog", Referrer: "https://news.example"})
	svc.Wait()

	assert.Equal(t, []model.TrackEvent{{Path: "/blog", Referrer: "https://news.example"}}, api.trackedEvents())
}

func TestSiteService_ChatTrimsQuery(t *testing.T) {
	svc := NewSiteService(&mockAPI{}, nil, slog.Default())

	reply := svc.Chat(context.Background(), "  skills?  ")

	assert.Equal(t, "echo: skills?", reply.Text)
}
