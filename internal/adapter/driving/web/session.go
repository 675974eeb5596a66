package web

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	vm "github.com/ericfisherdev/folio/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/folio/internal/domain/model"
)

const (
	flashCookieName   = "flash"
	sessionCookieName = "folio_session"
)

// requireSession guards privileged routes. Only the browser holding the
// session cookie issued at login passes, and only while tokens are held.
// Everyone else is sent to the login page; the original URL is not kept.
func (h *Handler) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.authorized(r) {
			redirectToLogin(w, r)
			return
		}
		next(w, r)
	}
}

// authorized reports whether r comes from the browser that owns the admin
// session.
func (h *Handler) authorized(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}
	return h.auth.Authorize(cookie.Value)
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// redirectToLogin sends the browser to the login page, as a full navigation
// for HTMX requests.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", loginPath)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// trackPageView records a page view for the public page next serves, on
// behalf of the visitor's address and browser. It never delays the response.
func (h *Handler) trackPageView(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isHTMX(r) || r.Header.Get("HX-Boosted") == "true" {
			h.site.Track(model.TrackEvent{
				Path:      r.URL.Path,
				Referrer:  r.Referer(),
				UserAgent: r.UserAgent(),
				ClientIP:  h.clientIP(r),
			})
		}
		next(w, r)
	}
}

func (h *Handler) clientIP(r *http.Request) string {
	if h.ips != nil {
		return h.ips.ClientIP(r)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// setFlash stores a one-shot message for the next page load.
func setFlash(w http.ResponseWriter, f vm.Flash) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(f.Kind + ":" + f.Message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending flash message, if any.
func popFlash(w http.ResponseWriter, r *http.Request) *vm.Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	kind, msg, ok := strings.Cut(raw, ":")
	if !ok || (kind != "success" && kind != "error") {
		return nil
	}
	return &vm.Flash{Kind: kind, Message: msg}
}
