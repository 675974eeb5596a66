package web

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"net/http"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"

	// csrfTokenLen is the length of a rand.Text token.
	csrfTokenLen = 26
)

type csrfKey struct{}

// withCSRF guards a route against cross-site writes and hands the route its
// form token. Unsafe requests that the browser marks as cross-origin are
// refused before next runs. The token lives in a script-readable cookie so
// csrf.js can copy it into the X-CSRF-Token header of HTMX requests; a missing
// or malformed cookie is replaced.
func (h *Handler) withCSRF(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.origins.Check(r); err != nil {
			h.logger.Warn("cross-origin request refused", "method", r.Method, "path", r.URL.Path, "error", err)
			http.Error(w, "cross-origin request refused", http.StatusForbidden)
			return
		}

		token, ok := csrfCookie(r)
		if !ok {
			token = rand.Text()
			http.SetCookie(w, &http.Cookie{
				Name:     csrfCookieName,
				Value:    token,
				Path:     "/",
				SameSite: http.SameSiteStrictMode,
				Secure:   r.TLS != nil,
			})
		}
		next(w, r.WithContext(context.WithValue(r.Context(), csrfKey{}, token)))
	}
}

// formToken returns the token that forms rendered for r must echo back.
func formToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfKey{}).(string)
	return token
}

// submittedCSRF reports whether r echoes the token of the cookie it arrived
// with, in the header for HTMX or in the form body for plain posts.
func submittedCSRF(r *http.Request) bool {
	want, ok := csrfCookie(r)
	if !ok {
		return false
	}
	got := r.Header.Get(csrfHeader)
	if got == "" {
		got = r.PostFormValue(csrfFormField)
	}
	return hmac.Equal([]byte(got), []byte(want))
}

func csrfCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil || len(cookie.Value) != csrfTokenLen {
		return "", false
	}
	return cookie.Value, true
}
