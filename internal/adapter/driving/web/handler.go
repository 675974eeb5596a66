// Package web implements the HTML GUI driving adapter using templ components.
package web

//go:generate go tool templ generate -path templates

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/folio/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/folio/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/folio/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/folio/internal/application"
	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// Limiter decides whether a request may proceed and, if not, how long the
// client should wait.
type Limiter interface {
	Allow(r *http.Request) (bool, time.Duration)
}

// ClientIPResolver names the visitor behind a request, honouring trusted
// proxies.
type ClientIPResolver interface {
	ClientIP(r *http.Request) string
}

// Option configures a Handler.
type Option func(*Handler)

// WithLoginLimiter throttles admin login attempts.
func WithLoginLimiter(l Limiter) Option {
	return func(h *Handler) { h.loginRL = l }
}

// WithContactLimiter throttles contact form submissions.
func WithContactLimiter(l Limiter) Option {
	return func(h *Handler) { h.contactRL = l }
}

// WithClientIPResolver sets how visitor addresses are found for tracking.
// Without one the peer address is used.
func WithClientIPResolver(ips ClientIPResolver) Option {
	return func(h *Handler) { h.ips = ips }
}

// WithPlaceholderImage sets the image shown for projects without one.
func WithPlaceholderImage(url string) Option {
	return func(h *Handler) { h.placeholder = url }
}

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	site        *application.SiteService
	admin       *application.AdminService
	auth        *application.AuthService
	counter     *application.LiveCounter
	placeholder string
	loginRL     Limiter
	contactRL   Limiter
	ips         ClientIPResolver
	origins     *http.CrossOriginProtection
	now         func() time.Time
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	site *application.SiteService,
	admin *application.AdminService,
	auth *application.AuthService,
	counter *application.LiveCounter,
	logger *slog.Logger,
	opts ...Option,
) *Handler {
	h := &Handler{
		site:    site,
		admin:   admin,
		auth:    auth,
		counter: counter,
		origins: http.NewCrossOriginProtection(),
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// page describes one full-page render.
type page struct {
	status int
	title  string
	active string
	csrf   string
	body   templ.Component
}

// render writes body wrapped in the layout.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, p page) {
	if p.csrf == "" {
		p.csrf = formToken(r)
	}
	layout := templates.Layout(vm.LayoutViewModel{
		Title:         p.title,
		Nav:           toNav(p.active),
		Authenticated: h.authorized(r),
		LiveCount:     h.counter.Count(),
		CSRFToken:     p.csrf,
	}, p.body)

	h.write(w, r, p.status, layout)
}

// write renders a component, full page or HTMX fragment, with the given status.
func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}

// readStatus maps a failed read onto the page status. Missing resources are
// 404; everything else is the backend's fault.
func readStatus(err error) int {
	if errors.Is(err, driven.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// Home renders the landing page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	res := application.Load(r.Context(), h.site.Home)

	data := vm.HomeViewModel{Errored: !res.Loaded()}
	status := http.StatusOK
	if res.Loaded() {
		data = toHomeViewModel(res.Data, h.placeholder)
	} else {
		h.logger.Warn("home fetch failed", "error", res.Err)
		status = http.StatusBadGateway
	}

	h.render(w, r, page{status: status, title: "Home", active: "/", body: pages.Home(data)})
}

// Projects renders the filterable project list.
func (h *Handler) Projects(w http.ResponseWriter, r *http.Request) {
	filter := model.ParseProjectFilter(r.URL.Query().Get("filter"))
	query := r.URL.Query().Get("q")

	res := application.Load(r.Context(), func(ctx context.Context) (*application.ProjectsPage, error) {
		return h.site.Projects(ctx, filter, query)
	})

	data := vm.ProjectsViewModel{Errored: true, Filters: toFilters(filter, query), Query: query, Filter: string(filter)}
	status := http.StatusOK
	if res.Loaded() {
		data = toProjectsViewModel(res.Data, h.placeholder)
	} else {
		h.logger.Warn("projects fetch failed", "error", res.Err)
		status = http.StatusBadGateway
	}

	h.render(w, r, page{status: status, title: "Projects", active: "/projects", body: pages.Projects(data)})
}

// Project renders one project.
func (h *Handler) Project(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	detail, err := h.site.Project(r.Context(), slug)
	if err != nil {
		h.readFailed(w, r, "project", "/projects", err)
		return
	}

	data := toProjectDetail(detail, h.placeholder, h.now())
	h.render(w, r, page{title: detail.Project.Title, active: "/projects", body: pages.ProjectDetail(data)})
}

// Blog renders the post index.
func (h *Handler) Blog(w http.ResponseWriter, r *http.Request) {
	res := application.Load(r.Context(), h.site.BlogPosts)

	data := vm.BlogListViewModel{Errored: true}
	status := http.StatusOK
	if res.Loaded() {
		data = toBlogList(res.Data)
	} else {
		h.logger.Warn("blog fetch failed", "error", res.Err)
		status = http.StatusBadGateway
	}

	h.render(w, r, page{status: status, title: "Blog", active: "/blog", body: pages.BlogList(data)})
}

// BlogPost renders one post.
func (h *Handler) BlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.site.BlogPost(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.readFailed(w, r, "blog post", "/blog", err)
		return
	}

	h.render(w, r, page{title: post.Title, active: "/blog", body: pages.BlogPost(toBlogPost(post))})
}

// Certifications renders the certifications from the home aggregate.
func (h *Handler) Certifications(w http.ResponseWriter, r *http.Request) {
	res := application.Load(r.Context(), h.site.Home)

	data := vm.CertificationsViewModel{Errored: true}
	status := http.StatusOK
	if res.Loaded() {
		data = vm.CertificationsViewModel{Certificates: toCertificates(res.Data.Certificates)}
	} else {
		h.logger.Warn("certifications fetch failed", "error", res.Err)
		status = http.StatusBadGateway
	}

	h.render(w, r, page{status: status, title: "Certifications", active: "/certifications", body: pages.Certifications(data)})
}

// Achievements renders the achievements from the home aggregate.
func (h *Handler) Achievements(w http.ResponseWriter, r *http.Request) {
	res := application.Load(r.Context(), h.site.Home)

	data := vm.AchievementsViewModel{Errored: true}
	status := http.StatusOK
	if res.Loaded() {
		data = vm.AchievementsViewModel{Achievements: toAchievements(res.Data.Achievements)}
	} else {
		h.logger.Warn("achievements fetch failed", "error", res.Err)
		status = http.StatusBadGateway
	}

	h.render(w, r, page{status: status, title: "Achievements", active: "/achievements", body: pages.Achievements(data)})
}

// Status renders the backend health. It never fails; an unreachable backend
// is shown as an outage.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.site.Status(r.Context())
	h.render(w, r, page{title: "Status", body: pages.Status(toStatusViewModel(status))})
}

// ContactForm renders an empty contact form.
func (h *Handler) ContactForm(w http.ResponseWriter, r *http.Request) {
	data := vm.ContactViewModel{State: string(model.FormStateIdle), CSRFToken: formToken(r)}
	h.render(w, r, page{title: "Contact", active: "/contact", csrf: data.CSRFToken, body: pages.Contact(data)})
}

// SubmitContact delivers the contact form. Success clears the form; failure
// keeps the entered values.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if !submittedCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	data := vm.ContactViewModel{
		Name:      r.FormValue("name"),
		Email:     r.FormValue("email"),
		Message:   r.FormValue("message"),
		CSRFToken: formToken(r),
	}
	status := http.StatusOK

	if ok, retry := allow(h.contactRL, r); !ok {
		setRetryAfter(w, retry)
		data.State = string(model.FormStateFailure)
		data.Flash = &vm.Flash{Kind: "error", Message: "Too many messages. Please try again later."}
		status = http.StatusTooManyRequests
	} else if err := h.site.Contact(r.Context(), model.ContactMessage{
		Name:    data.Name,
		Email:   data.Email,
		Message: data.Message,
	}); err != nil {
		data.State = string(model.FormStateFailure)
		if errors.Is(err, application.ErrIncompleteMessage) {
			data.Flash = &vm.Flash{Kind: "error", Message: "Please fill in your name, email and message."}
			status = http.StatusUnprocessableEntity
		} else {
			h.logger.Warn("contact submission failed", "error", err)
			data.Flash = &vm.Flash{Kind: "error", Message: "Your message could not be sent."}
			status = http.StatusBadGateway
		}
	} else {
		data = vm.ContactViewModel{
			State:     string(model.FormStateSuccess),
			Flash:     &vm.Flash{Kind: "success", Message: "Thanks! Your message was received."},
			CSRFToken: data.CSRFToken,
		}
	}

	if isHTMX(r) {
		h.write(w, r, status, pages.ContactForm(data))
		return
	}
	h.render(w, r, page{status: status, title: "Contact", active: "/contact", csrf: data.CSRFToken, body: pages.Contact(data)})
}

// NotFound renders the 404 page for unknown paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, page{status: http.StatusNotFound, title: "Not Found", body: pages.NotFound()})
}

// readFailed renders the 404 page for missing resources and an error page
// otherwise.
func (h *Handler) readFailed(w http.ResponseWriter, r *http.Request, what, active string, err error) {
	status := readStatus(err)
	if status == http.StatusNotFound {
		h.render(w, r, page{status: status, title: "Not Found", active: active, body: pages.NotFound()})
		return
	}

	h.logger.Warn(what+" fetch failed", "path", r.URL.Path, "error", err)
	h.render(w, r, page{status: status, title: "Unavailable", active: active, body: pages.Error(vm.ErrorViewModel{
		Status:  status,
		Heading: "Upstream Unavailable.",
		Message: "The " + what + " could not be loaded. Please try again later.",
	})})
}

// allow consults l, treating a nil limiter as unlimited.
func allow(l Limiter, r *http.Request) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	return l.Allow(r)
}

func setRetryAfter(w http.ResponseWriter, delay time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(max(int(delay.Seconds()), 1)))
}
