package web

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardHandler() *Handler {
	return &Handler{origins: http.NewCrossOriginProtection(), logger: slog.New(slog.DiscardHandler)}
}

// guard runs req through withCSRF and returns the recorder and the token the
// wrapped handler saw, or "" when it was not reached.
func guard(req *http.Request) (*httptest.ResponseRecorder, string, bool) {
	var seen string
	reached := false
	next := func(w http.ResponseWriter, r *http.Request) {
		reached = true
		seen = formToken(r)
	}
	rec := httptest.NewRecorder()
	guardHandler().withCSRF(next)(rec, req)
	return rec, seen, reached
}

func TestWithCSRF_IssuesToken(t *testing.T) {
	rec, token, reached := guard(httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, reached)
	cookie := responseCookie(rec, csrfCookieName)
	require.NotNil(t, cookie)
	assert.Len(t, cookie.Value, csrfTokenLen)
	assert.Equal(t, cookie.Value, token)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.False(t, cookie.HttpOnly, "csrf.js reads it")
}

func TestWithCSRF_KeepsExistingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testCSRF})

	rec, token, _ := guard(req)

	assert.Equal(t, testCSRF, token)
	assert.Nil(t, responseCookie(rec, csrfCookieName))
}

func TestWithCSRF_ReplacesMalformedToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "short"})

	rec, token, _ := guard(req)

	assert.NotEqual(t, "short", token)
	cookie := responseCookie(rec, csrfCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, token, cookie.Value)
}

func TestWithCSRF_CrossOrigin(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		headers map[string]string
		allowed bool
	}{
		{name: "cross-site post", method: http.MethodPost, headers: map[string]string{"Sec-Fetch-Site": "cross-site"}},
		{name: "foreign origin post", method: http.MethodPost, headers: map[string]string{"Origin": "https://evil.example"}},
		{name: "same-origin post", method: http.MethodPost, headers: map[string]string{"Sec-Fetch-Site": "same-origin"}, allowed: true},
		{name: "cross-site get", method: http.MethodGet, headers: map[string]string{"Sec-Fetch-Site": "cross-site"}, allowed: true},
		{name: "non-browser post", method: http.MethodPost, allowed: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/contact", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			rec, _, reached := guard(req)

			assert.Equal(t, tc.allowed, reached)
			if !tc.allowed {
				assert.Equal(t, http.StatusForbidden, rec.Code)
			}
		})
	}
}

func TestSubmittedCSRF(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		form   string
		want   bool
	}{
		{name: "header matches", cookie: testCSRF, header: testCSRF, want: true},
		{name: "form matches", cookie: testCSRF, form: testCSRF, want: true},
		{name: "mismatch", cookie: testCSRF, form: strings.ToLower(testCSRF), want: false},
		{name: "no cookie", form: testCSRF, want: false},
		{name: "malformed cookie", cookie: "abc", form: "abc", want: false},
		{name: "no token", cookie: testCSRF, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{}
			if tc.form != "" {
				form.Set(csrfFormField, tc.form)
			}
			req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: tc.cookie})
			}
			if tc.header != "" {
				req.Header.Set(csrfHeader, tc.header)
			}

			assert.Equal(t, tc.want, submittedCSRF(req))
		})
	}
}
