package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/folio/internal/application"
	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

const testCSRF = "FOLIOTESTCSRFTOKENABCDEFGH"

type fixture struct {
	api     *fakeAPI
	store   *application.CredentialStore
	auth    *application.AuthService
	site    *application.SiteService
	handler http.Handler
	session string
}

func setup(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	return setupWithRepos(t, nil, opts...)
}

func setupWithRepos(t *testing.T, repos driven.RepoStatsClient, opts ...Option) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := &fakeAPI{}
	store := application.NewCredentialStore(nil)
	site := application.NewSiteService(api, repos, logger)
	auth := application.NewAuthService(api, store, logger)

	h := NewHandler(
		site,
		application.NewAdminService(api, logger),
		auth,
		application.NewLiveCounter(api, time.Minute, logger),
		logger,
		append([]Option{WithPlaceholderImage("https://img.example/placeholder.png")}, opts...)...,
	)
	h.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	mux := http.NewServeMux()
	RegisterRoutes(mux, h)
	t.Cleanup(site.Wait)

	return &fixture{api: api, store: store, auth: auth, site: site, handler: mux}
}

// login signs the admin in; later requests from the fixture carry the
// session cookie.
func (f *fixture) login(t *testing.T) {
	t.Helper()
	session, err := f.auth.Login(context.Background(), "admin", "pw")
	require.NoError(t, err)
	f.session = session
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	if f.session != "" {
		if _, err := req.Cookie(sessionCookieName); err != nil {
			req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: f.session})
		}
	}
	return f.serve(req)
}

// serve sends req as is, without the fixture's session cookie.
func (f *fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// csrfPost builds a form post with a matching CSRF cookie and field.
func csrfPost(path string, form url.Values) *http.Request {
	if form == nil {
		form = url.Values{}
	}
	form.Set(csrfFormField, testCSRF)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testCSRF})
	return req
}

func (f *fixture) get(path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return f.do(req)
}

// postForm submits form with a matching CSRF cookie and field.
func (f *fixture) postForm(path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := csrfPost(path, form)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return f.do(req)
}

func multipartUpload(t *testing.T, fields map[string]string, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func (f *fixture) upload(t *testing.T, fields map[string]string, fileName, content string, htmx bool) *httptest.ResponseRecorder {
	t.Helper()

	fields[csrfFormField] = testCSRF
	body, contentType := multipartUpload(t, fields, fileName, content)

	req := httptest.NewRequest(http.MethodPost, "/admin/vault", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testCSRF})
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return f.do(req)
}

// --- Public pages ---

func TestHome(t *testing.T) {
	f := setup(t)
	f.api.getHomeFn = func(context.Context) (*model.HomeData, error) {
		return &model.HomeData{
			HeroTitle:        "Hi, I build pipelines",
			FeaturedProjects: []model.Project{{Title: "Folio", Slug: "folio"}},
			Skills:           []model.Skill{{Name: "Go", Category: model.SkillCategoryBack}},
			Journey: []model.Journey{
				{Title: "Second", Order: 2},
				{Title: "First", Order: 1},
			},
			Achievements: []model.Achievement{{Title: "Shipped", IconName: "zap"}},
		}, nil
	}

	rec := f.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "Hi, I build pipelines")
	assert.Contains(t, body, `href="/projects/folio"`)
	assert.Contains(t, body, "https://img.example/placeholder.png")
	assert.Contains(t, body, "devicon/icons/go/go-original.svg")
	assert.Contains(t, body, "⚡")
	assert.Less(t, strings.Index(body, "First"), strings.Index(body, "Second"), "timeline is ordered")
	assert.Contains(t, body, `id="live-count" data-poll="/api/v1/live">1</span>`)
}

func TestHome_BackendFailure(t *testing.T) {
	f := setup(t)
	f.api.getHomeFn = func(context.Context) (*model.HomeData, error) {
		return nil, errors.New("connection refused")
	}

	rec := f.get("/")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "The portfolio could not be loaded.")
}

func TestHome_SetsCSRFCookie(t *testing.T) {
	f := setup(t)

	rec := f.get("/")

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, csrfCookieName, cookies[0].Name)
	assert.Len(t, cookies[0].Value, csrfTokenLen)
}

func testProjects() []model.Project {
	return []model.Project{
		{Title: "Cluster Bootstrap", Slug: "cluster", Tagline: "k8s in a box", Skills: []model.Skill{{Name: "Kubernetes"}}},
		{Title: "Shop Front", Slug: "shop", Tagline: "storefront", Skills: []model.Skill{{Name: "React", Category: model.SkillCategoryFront}}},
		{Title: "Log Cleaner", Slug: "logs", Tagline: "cron script", Skills: []model.Skill{{Name: "Bash", Category: model.SkillCategoryTool}}},
	}
}

func TestProjects_FilterAndSearch(t *testing.T) {
	f := setup(t)
	f.api.listProjectsFn = func(context.Context) ([]model.Project, error) { return testProjects(), nil }

	rec := f.get("/projects?filter=devops&q=CLUSTER")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Cluster Bootstrap")
	assert.NotContains(t, body, "Shop Front")
	assert.NotContains(t, body, "Log Cleaner")
	assert.Contains(t, body, "Showing 1 of 3 projects · API latency 12ms")
	assert.Contains(t, body, `class="filter active"`)
	assert.Contains(t, body, `href="/projects?filter=WEB&amp;q=CLUSTER"`)
}

func TestProjects_NoMatches(t *testing.T) {
	f := setup(t)
	f.api.listProjectsFn = func(context.Context) ([]model.Project, error) { return testProjects(), nil }

	rec := f.get("/projects?q=nothing-here")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No projects match your search.")
}

func TestProjects_StatusFailureFailsPage(t *testing.T) {
	f := setup(t)
	f.api.listProjectsFn = func(context.Context) ([]model.Project, error) { return testProjects(), nil }
	f.api.getStatusFn = func(context.Context) (*model.SystemStatus, error) {
		return nil, errors.New("status down")
	}

	rec := f.get("/projects")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Projects could not be loaded.")
	assert.NotContains(t, body, "Cluster Bootstrap", "no partial render")
}

func TestProject_Detail(t *testing.T) {
	f := setup(t)
	f.api.getProjectFn = func(_ context.Context, slug string) (*model.Project, error) {
		assert.Equal(t, "folio", slug)
		return &model.Project{
			Title:       "<script>alert(1)</script>",
			Slug:        "folio",
			Description: "Built with **Go**.",
			Images:      []model.ProjectImage{{ImageURL: "https://img.example/shot.png", Caption: "Shot", IsFeature: true}},
		}, nil
	}

	rec := f.get("/projects/folio")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<script>alert")
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, body, "<strong>Go</strong>")
	assert.Contains(t, body, `src="https://img.example/shot.png"`)
}

type stubRepos struct {
	stats *model.RepoStats
	err   error
}

func (s stubRepos) FetchRepoStats(context.Context, string) (*model.RepoStats, error) {
	return s.stats, s.err
}

func TestProject_RepoStats(t *testing.T) {
	f := setupWithRepos(t, stubRepos{stats: &model.RepoStats{
		FullName: "octo/folio",
		Stars:    42,
		Language: "Go",
		PushedAt: time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC),
	}})
	f.api.getProjectFn = func(_ context.Context, slug string) (*model.Project, error) {
		return &model.Project{Title: "Folio", Slug: slug, GitHubLink: "https://github.com/octo/folio"}, nil
	}

	rec := f.get("/projects/folio")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "octo/folio")
	assert.Contains(t, body, "<dd>42</dd>")
	assert.Contains(t, body, "2d ago")
}

func TestProject_RepoStatsFailureIgnored(t *testing.T) {
	f := setupWithRepos(t, stubRepos{err: errors.New("rate limited")})
	f.api.getProjectFn = func(_ context.Context, slug string) (*model.Project, error) {
		return &model.Project{Title: "Folio", Slug: slug, GitHubLink: "https://github.com/octo/folio"}, nil
	}

	rec := f.get("/projects/folio")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "repo-stats")
}

func TestProject_NotFound(t *testing.T) {
	f := setup(t)
	f.api.getProjectFn = func(context.Context, string) (*model.Project, error) {
		return nil, fmt.Errorf("get project: %w", driven.ErrNotFound)
	}

	rec := f.get("/projects/missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pipeline Deployment Failed.")
}

func TestProject_BackendFailure(t *testing.T) {
	f := setup(t)
	f.api.getProjectFn = func(context.Context, string) (*model.Project, error) {
		return nil, errors.New("timeout")
	}

	rec := f.get("/projects/folio")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "The project could not be loaded.")
}

func TestBlog(t *testing.T) {
	f := setup(t)
	f.api.listBlogPostsFn = func(context.Context) ([]model.BlogPost, error) {
		return []model.BlogPost{{
			Title:     "Hello",
			Slug:      "hello",
			Content:   strings.Repeat("x", 150),
			Tags:      "go, ops ,",
			CreatedAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			ReadTime:  4,
		}}, nil
	}

	rec := f.get("/blog")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `href="/blog/hello"`)
	assert.Contains(t, body, strings.Repeat("x", 100)+"...")
	assert.NotContains(t, body, strings.Repeat("x", 101))
	assert.Contains(t, body, "<li>#go</li><li>#ops</li>")
	assert.Contains(t, body, "Jan 5, 2026 · 4 min read")
}

func TestBlogPost_RendersMarkdown(t *testing.T) {
	f := setup(t)
	f.api.getBlogPostFn = func(_ context.Context, slug string) (*model.BlogPost, error) {
		return &model.BlogPost{Title: "Hello", Slug: slug, Content: "# Intro\n\nUse `code` here.\n\n<script>x()</script>"}, nil
	}

	rec := f.get("/blog/hello")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<h1 id="intro">Intro</h1>`)
	assert.Contains(t, body, "<code>code</code>")
	assert.NotContains(t, body, "<script>x()")
}

func TestBlogPost_NotFound(t *testing.T) {
	f := setup(t)
	f.api.getBlogPostFn = func(context.Context, string) (*model.BlogPost, error) {
		return nil, driven.ErrNotFound
	}

	rec := f.get("/blog/missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCertificationsAndAchievements(t *testing.T) {
	f := setup(t)
	f.api.getHomeFn = func(context.Context) (*model.HomeData, error) {
		return &model.HomeData{
			Certificates: []model.Certificate{{Name: "CKA", Issuer: "CNCF", CredentialURL: "https://cred.example/1"}},
			Achievements: []model.Achievement{{Title: "Hackathon", IconName: "unknown-icon"}},
		}, nil
	}

	rec := f.get("/certifications")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CKA")
	assert.Contains(t, rec.Body.String(), `href="https://cred.example/1"`)

	rec = f.get("/achievements")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hackathon")
	assert.Contains(t, rec.Body.String(), "🏆", "unknown icons fall back to the trophy")
}

func TestStatus_OutageOnFailure(t *testing.T) {
	f := setup(t)
	f.api.getStatusFn = func(context.Context) (*model.SystemStatus, error) {
		return nil, errors.New("unreachable")
	}

	rec := f.get("/status")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "status-down")
	assert.Contains(t, body, "Outage")
}

func TestStatus_Operational(t *testing.T) {
	f := setup(t)
	f.api.getStatusFn = func(context.Context) (*model.SystemStatus, error) {
		return &model.SystemStatus{
			Status:   model.StatusOperational,
			Version:  "1.4.2",
			Services: []model.ServiceStatus{{Name: "Database", Status: model.StatusOperational}, {Name: "Chat", Status: "Degraded"}},
		}, nil
	}

	rec := f.get("/status")

	body := rec.Body.String()
	assert.Contains(t, body, "status-up")
	assert.Contains(t, body, "1.4.2")
	assert.Contains(t, body, `<li class="service up"><span class="name">Database</span>`)
	assert.Contains(t, body, `<li class="service down"><span class="name">Chat</span>`)
}

func TestNotFound(t *testing.T) {
	f := setup(t)

	rec := f.get("/no/such/page")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pipeline Deployment Failed.")
}

func TestStaticAssets(t *testing.T) {
	f := setup(t)

	rec := f.get("/static/csrf.js")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "X-CSRF-Token")
}

// --- Tracking ---

func TestTracking_PublicPages(t *testing.T) {
	f := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/blog", nil)
	req.Header.Set("Referer", "https://search.example/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")
	f.do(req)
	f.site.Wait()

	assert.Equal(t, []model.TrackEvent{{
		Path:      "/blog",
		Referrer:  "https://search.example/",
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64)",
		ClientIP:  "192.0.2.1",
	}}, f.api.trackedEvents())
}

type fixedIP string

func (ip fixedIP) ClientIP(*http.Request) string { return string(ip) }

func TestTracking_UsesClientIPResolver(t *testing.T) {
	f := setup(t, WithClientIPResolver(fixedIP("198.51.100.23")))

	f.get("/")
	f.site.Wait()

	events := f.api.trackedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "198.51.100.23", events[0].ClientIP)
}

func TestTracking_SkipsFragmentsAndAdmin(t *testing.T) {
	f := setup(t)

	f.get("/projects", "HX-Request", "true")
	f.get("/admin")
	f.get("/admin/dashboard")
	f.site.Wait()

	assert.Empty(t, f.api.trackedEvents())
}

func TestTracking_BoostedNavigation(t *testing.T) {
	f := setup(t)

	f.get("/projects", "HX-Request", "true", "HX-Boosted", "true")
	f.site.Wait()

	assert.Len(t, f.api.trackedEvents(), 1)
}

// --- Contact ---

func TestContact_Form(t *testing.T) {
	f := setup(t)

	rec := f.get("/contact")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="csrf_token"`)
	assert.Contains(t, body, "Send Message")
}

func TestContact_Success(t *testing.T) {
	f := setup(t)

	rec := f.postForm("/contact", url.Values{
		"name":    {" Ada "},
		"email":   {"ada@example.com"},
		"message": {"Hello there"},
	}, false)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Message Received!")
	assert.NotContains(t, body, "ada@example.com", "form is cleared")
	require.Len(t, f.api.contacts, 1)
	assert.Equal(t, model.ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "Hello there"}, f.api.contacts[0])
}

func TestContact_FailureKeepsValues(t *testing.T) {
	f := setup(t)
	f.api.sendContactFn = func(context.Context, model.ContactMessage) error {
		return errors.New("smtp down")
	}

	rec := f.postForm("/contact", url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"message": {"Hello there"},
	}, true)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<!doctype html>", "HTMX gets the form fragment")
	assert.Contains(t, body, "Failed. Try Again.")
	assert.Contains(t, body, `value="ada@example.com"`)
	assert.Contains(t, body, ">Hello there</textarea>")
}

func TestContact_Incomplete(t *testing.T) {
	f := setup(t)

	rec := f.postForm("/contact", url.Values{"name": {"Ada"}}, false)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, f.api.contacts)
}

func TestContact_RejectsMissingCSRF(t *testing.T) {
	f := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("name=a&email=b&message=c"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, f.api.contacts)
}

func TestContact_RejectsCrossSitePost(t *testing.T) {
	f := setup(t)

	req := csrfPost("/contact", url.Values{"name": {"a"}, "email": {"a@b.c"}, "message": {"hi"}})
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := f.do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, f.api.contacts)
}

func TestContact_RateLimited(t *testing.T) {
	f := setup(t, WithContactLimiter(&stubLimiter{}))

	rec := f.postForm("/contact", url.Values{"name": {"a"}, "email": {"b"}, "message": {"c"}}, false)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	assert.Empty(t, f.api.contacts)
}

// --- Session guard and login ---

func TestPrivilegedRoutes_RedirectWithoutSession(t *testing.T) {
	f := setup(t)

	rec := f.get("/admin/dashboard")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	rec = f.postForm("/admin/vault/3/delete", nil, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, f.api.deleted)

	rec = f.postForm("/admin/vault/3/delete", nil, true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("HX-Redirect"))
}

func TestPrivilegedRoutes_SessionBoundToLoginBrowser(t *testing.T) {
	f := dashboardFixture(t)

	// A second browser without the session cookie, minting its own CSRF pair.
	rec := f.serve(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	rec = f.serve(csrfPost("/admin/vault/7/delete", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
	assert.Empty(t, f.api.deleted)

	forged := csrfPost("/admin/vault/7/delete", nil)
	forged.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "guessed"})
	rec = f.serve(forged)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, f.api.deleted)

	rec = f.serve(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, http.StatusOK, rec.Code, "login form, not a redirect")
	assert.NotContains(t, rec.Body.String(), "Logout")

	// The owning browser still gets through.
	assert.Equal(t, http.StatusOK, f.get("/admin/dashboard").Code)
}

func TestLoginForm(t *testing.T) {
	f := setup(t)

	rec := f.get("/admin")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="password"`)
}

func TestLoginForm_AlreadyAuthenticated(t *testing.T) {
	f := setup(t)
	f.login(t)

	rec := f.get("/admin")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
}

func TestLogin_Success(t *testing.T) {
	f := setup(t)
	f.api.obtainTokenFn = func(_ context.Context, identifier, secret string) (model.Credential, error) {
		assert.Equal(t, "admin", identifier)
		assert.Equal(t, "s3cret", secret)
		return model.Credential{AccessToken: "a1", RefreshToken: "r1"}, nil
	}

	rec := f.postForm("/admin", url.Values{"username": {"admin"}, "password": {"s3cret"}}, false)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
	assert.Equal(t, "a1", f.store.PeekAccessToken())
	assert.Equal(t, "r1", f.store.PeekRefreshToken())

	cookie := responseCookie(rec, sessionCookieName)
	require.NotNil(t, cookie, "login issues a session cookie")
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookie.Value})
	assert.Equal(t, http.StatusOK, f.serve(req).Code)
}

func TestLogin_Failure(t *testing.T) {
	f := setup(t)
	f.api.obtainTokenFn = func(context.Context, string, string) (model.Credential, error) {
		return model.Credential{}, errors.New("401")
	}

	rec := f.postForm("/admin", url.Values{"username": {"admin"}, "password": {"wrong"}}, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Access Denied: Invalid Credentials")
	assert.Contains(t, body, `value="admin"`)
	assert.NotContains(t, body, "wrong")
	assert.Empty(t, f.store.PeekAccessToken())
}

func TestLogin_RateLimited(t *testing.T) {
	f := setup(t, WithLoginLimiter(&stubLimiter{remaining: 1}))
	f.api.obtainTokenFn = func(context.Context, string, string) (model.Credential, error) {
		return model.Credential{}, errors.New("401")
	}

	first := f.postForm("/admin", url.Values{"username": {"admin"}, "password": {"x"}}, false)
	second := f.postForm("/admin", url.Values{"username": {"admin"}, "password": {"x"}}, false)

	assert.Equal(t, http.StatusUnauthorized, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "Too many attempts.")
}

func TestLogout(t *testing.T) {
	f := setup(t)
	f.login(t)

	rec := f.postForm("/admin/logout", nil, false)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Empty(t, f.store.PeekAccessToken())
	assert.Empty(t, f.store.PeekRefreshToken())

	cookie := responseCookie(rec, sessionCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge, "session cookie expired")
}

func TestLogout_ForeignBrowserKeepsSession(t *testing.T) {
	f := setup(t)
	f.login(t)

	rec := f.serve(csrfPost("/admin/logout", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "access", f.store.PeekAccessToken())
	assert.Equal(t, http.StatusOK, f.get("/admin/dashboard").Code)
}

func TestLogout_RequiresCSRF(t *testing.T) {
	f := setup(t)
	f.login(t)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/admin/logout", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "access", f.store.PeekAccessToken())
}

// --- Dashboard and vault ---

func dashboardFixture(t *testing.T) *fixture {
	t.Helper()

	f := setup(t)
	f.login(t)
	f.api.getStatsFn = func(context.Context) (*model.DashboardStats, error) {
		return &model.DashboardStats{
			Overview: model.Overview{TotalVisitors: 77, ActiveToday: 5, TotalPageviews: 200},
			DailyStats: []model.DailyStat{
				{Day: "Mon", Count: 10},
				{Day: "Tue", Count: 40},
			},
			TopPages: []model.TopPage{
				{Path: "/", Views: 120},
				{Path: "/blog", Views: 60},
				{Path: "/contact", Views: 10},
				{Path: "/status", Views: 5},
			},
		}, nil
	}
	f.api.listVisitorsFn = func(context.Context) ([]model.Visitor, error) {
		visitors := make([]model.Visitor, 0, 6)
		for i := 1; i <= 6; i++ {
			visitors = append(visitors, model.Visitor{ID: int64(i), RemoteIP: fmt.Sprintf("10.0.0.%d", i)})
		}
		return visitors, nil
	}
	f.api.listVaultFilesFn = func(context.Context) ([]model.VaultFile, error) {
		return []model.VaultFile{{ID: 9, Name: "cv.pdf", FileURL: "https://files.example/cv.pdf", Category: model.VaultCategoryResume}}, nil
	}
	return f
}

func TestDashboard(t *testing.T) {
	f := dashboardFixture(t)

	rec := f.get("/admin/dashboard")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<span class="value">77</span>`)
	assert.Contains(t, body, "width: 60%")
	assert.Contains(t, body, "width: 30%")
	assert.Contains(t, body, "width: 5%")
	assert.NotContains(t, body, `<span class="path">/status</span>`, "only the top three pages")
	assert.Contains(t, body, "height: 100%")
	assert.Contains(t, body, "height: 25%")
	assert.Contains(t, body, "10.0.0.5")
	assert.NotContains(t, body, "10.0.0.6", "only the top five visitors")
	assert.Contains(t, body, "Unknown")
	assert.Contains(t, body, "cv.pdf")
	assert.Contains(t, body, `action="/admin/vault/9/delete"`)
	assert.Contains(t, body, "session is not persisted")
}

func TestDashboard_JoinFailureKeepsVault(t *testing.T) {
	f := dashboardFixture(t)
	f.api.listVisitorsFn = func(context.Context) ([]model.Visitor, error) {
		return nil, errors.New("visitors down")
	}

	rec := f.get("/admin/dashboard")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Analytics could not be loaded.")
	assert.NotContains(t, body, `<span class="value">77</span>`, "no partial render")
	assert.Contains(t, body, "cv.pdf")
}

func TestDashboard_RejectedTokenRedirects(t *testing.T) {
	f := dashboardFixture(t)
	f.api.getStatsFn = func(context.Context) (*model.DashboardStats, error) {
		return nil, fmt.Errorf("dashboard: %w", driven.ErrUnauthorized)
	}

	rec := f.get("/admin/dashboard")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
}

func TestVaultUpload_HTMX(t *testing.T) {
	f := dashboardFixture(t)
	var gotName string
	var gotCategory model.VaultCategory
	var gotContent []byte
	f.api.uploadVaultFileFn = func(_ context.Context, name string, category model.VaultCategory, content []byte) (*model.VaultFile, error) {
		gotName, gotCategory, gotContent = name, category, content
		return &model.VaultFile{ID: 10, Name: name}, nil
	}

	rec := f.upload(t, map[string]string{"category": "CERTIFICATE"}, "cert.pdf", "%PDF-1.7", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cert.pdf", gotName, "name defaults to the file name")
	assert.Equal(t, model.VaultCategoryCertificate, gotCategory)
	assert.Equal(t, "%PDF-1.7", string(gotContent))

	body := rec.Body.String()
	assert.NotContains(t, body, "<!doctype html>")
	assert.Contains(t, body, `id="vault"`)
	assert.Contains(t, body, "Uploaded cert.pdf")
}

func TestVaultUpload_FailureShowsDetail(t *testing.T) {
	f := dashboardFixture(t)
	f.api.uploadVaultFileFn = func(context.Context, string, model.VaultCategory, []byte) (*model.VaultFile, error) {
		return nil, &detailError{detail: "disk full"}
	}

	rec := f.upload(t, map[string]string{"name": "resume"}, "cv.pdf", "data", true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Upload Failed: disk full")
	assert.Contains(t, body, "cv.pdf", "existing listing is still shown")
}

func TestVaultUpload_MissingFile(t *testing.T) {
	f := dashboardFixture(t)

	rec := f.upload(t, map[string]string{"name": "resume"}, "", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upload Failed: choose a file to upload")
}

func TestVaultUpload_PlainPostRedirectsWithFlash(t *testing.T) {
	f := dashboardFixture(t)

	rec := f.upload(t, map[string]string{"name": "resume"}, "cv.pdf", "data", false)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))

	var flash *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookieName {
			flash = c
		}
	}
	require.NotNil(t, flash)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(flash)
	page := f.do(req)

	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Uploaded resume")
}

func TestVaultDelete_Success(t *testing.T) {
	f := dashboardFixture(t)
	listed := []model.VaultFile{{ID: 9, Name: "cv.pdf"}}
	f.api.listVaultFilesFn = func(context.Context) ([]model.VaultFile, error) { return listed, nil }
	f.api.deleteVaultFileFn = func(_ context.Context, id int64) error {
		listed = nil
		return nil
	}

	rec := f.postForm("/admin/vault/9/delete", nil, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{9}, f.api.deleted)
	body := rec.Body.String()
	assert.Contains(t, body, "File deleted.")
	assert.Contains(t, body, "The vault is empty.")
}

func TestVaultDelete_FailureKeepsEntry(t *testing.T) {
	f := dashboardFixture(t)
	f.api.deleteVaultFileFn = func(context.Context, int64) error {
		return &detailError{detail: "locked"}
	}

	rec := f.postForm("/admin/vault/9/delete", nil, true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Could not delete file.")
	assert.Contains(t, body, "cv.pdf")
}

func TestVaultDelete_InvalidID(t *testing.T) {
	f := dashboardFixture(t)

	rec := f.postForm("/admin/vault/abc/delete", nil, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not delete file.")
	assert.Empty(t, f.api.deleted)
}
