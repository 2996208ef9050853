package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/sitescrape"
	"github.com/fwojciec/sitescrape/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "simple path", url: "https://example.com/docs/api/users", want: "docs/api/users.txt"},
		{name: "trailing slash becomes index", url: "https://example.com/docs/", want: "docs/index.txt"},
		{name: "root path becomes index", url: "https://example.com/", want: "index.txt"},
		{name: "root without trailing slash", url: "https://example.com", want: "index.txt"},
		{name: "folds query string into the name", url: "https://example.com/docs/api?version=2", want: "docs/api_version%3D2.txt"},
		{name: "escapes slashes in the query", url: "https://example.com/p?next=/a/b", want: "p_next%3D%2Fa%2Fb.txt"},
		{name: "root with query", url: "https://example.com/?page=2", want: "index_page%3D2.txt"},
		{name: "ignores fragment", url: "https://example.com/docs/api#section", want: "docs/api.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects unparseable URLs", func(t *testing.T) {
		t.Parallel()

		_, err := fs.URLToPath("://bad")

		assert.Equal(t, sitescrape.EINVALID, sitescrape.ErrorCode(err))
	})
}

func TestFormatPage(t *testing.T) {
	t.Parallel()

	page := &sitescrape.PageResult{
		URL:  "https://example.com/docs/api",
		Text: "API Reference\nThis is the API documentation.",
	}

	got := fs.FormatPage(page, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC))

	want := `---
source: https://example.com/docs/api
crawled: 2025-01-08
---

API Reference
This is the API documentation.`

	assert.Equal(t, want, got)
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	t.Run("implements sitescrape.PageStore interface", func(t *testing.T) {
		t.Parallel()

		var _ sitescrape.PageStore = fs.NewFileStore("", "")
	})

	t.Run("saves to the temp directory until commit", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		store := fs.NewFileStore(base, "output")

		err := store.Save(context.Background(), &sitescrape.PageResult{URL: "https://example.com/docs/api", Text: "Welcome"})
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(base, "output.tmp", "docs", "api.txt"))
		require.NoError(t, err, "file should exist in temp directory")

		_, err = os.Stat(filepath.Join(base, "output"))
		assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
	})

	t.Run("commit replaces the final directory", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(base, "output"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(base, "output", "stale.txt"), []byte("old"), 0644))

		store := fs.NewFileStore(base, "output")
		store.Now = func() time.Time { return time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC) }
		require.NoError(t, store.Save(context.Background(), &sitescrape.PageResult{URL: "https://example.com/a", Text: "Page A"}))

		require.NoError(t, store.Commit())

		content, err := os.ReadFile(filepath.Join(base, "output", "a.txt"))
		require.NoError(t, err)
		assert.Equal(t, "---\nsource: https://example.com/a\ncrawled: 2025-01-08\n---\n\nPage A", string(content))

		_, err = os.Stat(filepath.Join(base, "output", "stale.txt"))
		assert.True(t, os.IsNotExist(err), "previous output should be replaced")
		_, err = os.Stat(filepath.Join(base, "output.tmp"))
		assert.True(t, os.IsNotExist(err), "temp directory should be removed after commit")
	})

	t.Run("commit without pages creates an empty directory", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		store := fs.NewFileStore(base, "output")

		require.NoError(t, store.Commit())

		entries, err := os.ReadDir(filepath.Join(base, "output"))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("abort removes the temp directory", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		store := fs.NewFileStore(base, "output")
		require.NoError(t, store.Save(context.Background(), &sitescrape.PageResult{URL: "https://example.com/a", Text: "Page A"}))

		require.NoError(t, store.Abort())

		_, err := os.Stat(filepath.Join(base, "output.tmp"))
		assert.True(t, os.IsNotExist(err), "temp directory should be removed after abort")
		_, err = os.Stat(filepath.Join(base, "output"))
		assert.True(t, os.IsNotExist(err), "final directory should not exist after abort")
	})

	t.Run("keeps pages that differ only by query apart", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		store := fs.NewFileStore(base, "output")
		require.NoError(t, store.Save(context.Background(), &sitescrape.PageResult{URL: "https://example.com/p?id=1", Text: "First"}))
		require.NoError(t, store.Save(context.Background(), &sitescrape.PageResult{URL: "https://example.com/p?id=2", Text: "Second"}))
		require.NoError(t, store.Commit())

		entries, err := os.ReadDir(filepath.Join(base, "output"))
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("rejects two pages mapping to one file", func(t *testing.T) {
		t.Parallel()

		store := fs.NewFileStore(t.TempDir(), "output")
		require.NoError(t, store.Save(context.Background(), &sitescrape.PageResult{URL: "http://example.com/a", Text: "First"}))

		err := store.Save(context.Background(), &sitescrape.PageResult{URL: "https://example.com/a", Text: "Second"})

		assert.Equal(t, sitescrape.EINVALID, sitescrape.ErrorCode(err))
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		t.Parallel()

		store := fs.NewFileStore(t.TempDir(), "output")

		err := store.Save(context.Background(), &sitescrape.PageResult{URL: "https://example.com/../../../etc/passwd", Text: "bad"})

		assert.Equal(t, sitescrape.EINVALID, sitescrape.ErrorCode(err))
		assert.Contains(t, err.Error(), "path traversal")
	})

	t.Run("stops on a canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := fs.NewFileStore(t.TempDir(), "output").Save(ctx, &sitescrape.PageResult{URL: "https://example.com/a", Text: "A"})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
