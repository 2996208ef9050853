package goquery_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/sitescrape"
	"github.com/fwojciec/sitescrape/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizer_Sanitize(t *testing.T) {
	t.Parallel()

	t.Run("implements sitescrape.Sanitizer interface", func(t *testing.T) {
		t.Parallel()

		var _ sitescrape.Sanitizer = goquery.NewSanitizer(nil)
	})

	t.Run("removes scripts, styles and noscript content", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><style>body{color:red}</style></head><body>
			<script>var tracking = "evil";</script>
			<noscript>Please enable JavaScript</noscript>
			<p>Article body</p>
		</body></html>`

		got, err := goquery.NewSanitizer(nil).Sanitize(html)

		require.NoError(t, err)
		assert.Contains(t, got, "Article body")
		assert.NotContains(t, got, "tracking")
		assert.NotContains(t, got, "color:red")
		assert.NotContains(t, got, "enable JavaScript")
	})

	t.Run("removes header, nav and footer elements", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<header>Site title</header>
			<nav><a href="/a">Menu link</a></nav>
			<main><p>Main content</p></main>
			<footer>Copyright 2024</footer>
		</body></html>`

		got, err := goquery.NewSanitizer(nil).Sanitize(html)

		require.NoError(t, err)
		assert.Contains(t, got, "Main content")
		assert.NotContains(t, got, "Site title")
		assert.NotContains(t, got, "Menu link")
		assert.NotContains(t, got, "Copyright")
	})

	t.Run("removes containers named like chrome", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<div id="site-footer">Footer by id</div>
			<div class="page-Footer-links">Footer by class</div>
			<div role="contentinfo">Content info</div>
			<div role="navigation">Role nav</div>
			<ul class="main-menu">Menu items</ul>
			<div id="breadcrumbs">Home / Docs</div>
			<div class="top-bar">Top bar</div>
			<button class="hamburger">Open</button>
			<section class="content"><p>Kept paragraph</p></section>
		</body></html>`

		got, err := goquery.NewSanitizer(nil).Sanitize(html)

		require.NoError(t, err)
		assert.Contains(t, got, "Kept paragraph")
		for _, gone := range []string{"Footer by id", "Footer by class", "Content info", "Role nav", "Menu items", "Home / Docs", "Top bar", "Open"} {
			assert.NotContains(t, got, gone)
		}
	})

	t.Run("removes feedback and help widgets", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<button data-bs-toggle="modal" data-bs-target="#feedbackModal">Give feedback</button>
			<a data-bs-toggle="modal" data-target="#HelpDialog">Need assistance</a>
			<button data-bs-toggle="modal" data-bs-target="#loginModal">Sign in</button>
			<img src="/static/Feedback-tab.png" alt="tab">
			<img src="/img/help-text.svg" alt="side">
			<img src="/img/product.png" alt="product shot">
			<div id="helpCenter">Assistant bubble</div>
			<div class="site-feedback">Rate us</div>
			<p>Product description</p>
		</body></html>`

		got, err := goquery.NewSanitizer(nil).Sanitize(html)

		require.NoError(t, err)
		assert.Contains(t, got, "Product description")
		assert.Contains(t, got, "Sign in")
		assert.Contains(t, got, "product.png")
		assert.NotContains(t, got, "Give feedback")
		assert.NotContains(t, got, "Need assistance")
		assert.NotContains(t, got, "Feedback-tab")
		assert.NotContains(t, got, "help-text")
		assert.NotContains(t, got, "Assistant bubble")
		assert.NotContains(t, got, "Rate us")
	})

	t.Run("leaves plain content untouched", func(t *testing.T) {
		t.Parallel()

		html := `<html><head></head><body><article><h1>Title</h1><p>Body text</p></article></body></html>`

		got, err := goquery.NewSanitizer(nil).Sanitize(html)

		require.NoError(t, err)
		assert.Equal(t, html, got)
	})

	t.Run("tolerates malformed markup", func(t *testing.T) {
		t.Parallel()

		html := `<div><p>Unclosed paragraph<div class="nav">links<script>x()</div></span>`

		got, err := goquery.NewSanitizer(nil).Sanitize(html)

		require.NoError(t, err)
		assert.Contains(t, got, "Unclosed paragraph")
		assert.NotContains(t, got, "links")
	})

	t.Run("accepts a logger", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		got, err := goquery.NewSanitizer(logger).Sanitize(`<p>Hello</p>`)

		require.NoError(t, err)
		assert.Contains(t, got, "Hello")
		assert.Empty(t, buf.String(), "no rule should fail on valid markup")
	})
}
