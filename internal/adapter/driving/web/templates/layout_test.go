package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vm "github.com/ericfisherdev/folio/internal/adapter/driving/web/viewmodel"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestLayout(t *testing.T) {
	out := render(t, Layout(vm.LayoutViewModel{
		Title:         "Blog",
		Nav:           []vm.NavLink{{Label: "Blog", Path: "/blog", Active: true}, {Label: "Contact", Path: "/contact"}},
		Authenticated: true,
		LiveCount:     7,
		CSRFToken:     "tok",
	}, templ.Raw("<p>page body</p>")))

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>Blog | Folio</title>")
	assert.Contains(t, out, `<a href="/blog" class="active" aria-current="page">Blog</a>`)
	assert.Contains(t, out, `<li><a href="/contact">Contact</a></li>`)
	assert.Contains(t, out, `<main class="container"><p>page body</p></main>`)
	assert.Contains(t, out, `>7</span>`)
	assert.Contains(t, out, `action="/admin/logout"`)
	assert.Contains(t, out, `<meta name="csrf-token" content="tok">`)
	assert.Contains(t, out, `<input type="hidden" name="csrf_token" value="tok">`)
}

func TestLayout_AnonymousHasNoLogout(t *testing.T) {
	out := render(t, Layout(vm.LayoutViewModel{Title: "Home"}, templ.NopComponent))

	assert.NotContains(t, out, "Logout")
	assert.NotContains(t, out, "/admin/dashboard")
	assert.Contains(t, out, `data-endpoint="/api/v1/chat"`)
}

func TestLayout_EscapesTitleAndToken(t *testing.T) {
	out := render(t, Layout(vm.LayoutViewModel{
		Title:     `<script>"x"</script>`,
		CSRFToken: `a"b`,
	}, templ.NopComponent))

	assert.Contains(t, out, "<title>&lt;script&gt;&#34;x&#34;&lt;/script&gt; | Folio</title>")
	assert.Contains(t, out, `content="a&#34;b"`)
}

func TestLayout_NeutralisesScriptNavLinks(t *testing.T) {
	out := render(t, Layout(vm.LayoutViewModel{
		Nav: []vm.NavLink{{Label: "x", Path: "javascript:alert(1)"}},
	}, templ.NopComponent))

	assert.NotContains(t, out, "javascript:")
}

func TestFlashMessage(t *testing.T) {
	assert.Empty(t, render(t, FlashMessage(nil)))

	out := render(t, FlashMessage(&vm.Flash{Kind: "error", Message: "Upload <failed>"}))
	assert.Equal(t, `<div class="flash flash-error" role="status">Upload &lt;failed&gt;</div>`, out)
}
