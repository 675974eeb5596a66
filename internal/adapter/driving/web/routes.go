package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
// Unmatched paths render the 404 page. Every page route carries the CSRF guard.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Public pages.
	mux.HandleFunc("GET /{$}", h.withCSRF(h.trackPageView(h.Home)))
	mux.HandleFunc("GET /projects", h.withCSRF(h.trackPageView(h.Projects)))
	mux.HandleFunc("GET /projects/{slug}", h.withCSRF(h.trackPageView(h.Project)))
	mux.HandleFunc("GET /blog", h.withCSRF(h.trackPageView(h.Blog)))
	mux.HandleFunc("GET /blog/{slug}", h.withCSRF(h.trackPageView(h.BlogPost)))
	mux.HandleFunc("GET /certifications", h.withCSRF(h.trackPageView(h.Certifications)))
	mux.HandleFunc("GET /achievements", h.withCSRF(h.trackPageView(h.Achievements)))
	mux.HandleFunc("GET /contact", h.withCSRF(h.trackPageView(h.ContactForm)))
	mux.HandleFunc("POST /contact", h.withCSRF(h.SubmitContact))
	mux.HandleFunc("GET /status", h.withCSRF(h.trackPageView(h.Status)))

	// Admin.
	mux.HandleFunc("GET /admin", h.withCSRF(h.LoginForm))
	mux.HandleFunc("POST /admin", h.withCSRF(h.Login))
	mux.HandleFunc("POST /admin/logout", h.withCSRF(h.Logout))
	mux.HandleFunc("GET /admin/dashboard", h.withCSRF(h.requireSession(h.Dashboard)))
	mux.HandleFunc("POST /admin/vault", h.withCSRF(h.requireSession(h.UploadVaultFile)))
	mux.HandleFunc("POST /admin/vault/{id}/delete", h.withCSRF(h.requireSession(h.DeleteVaultFile)))

	mux.HandleFunc("/", h.withCSRF(h.trackPageView(h.NotFound)))
}
