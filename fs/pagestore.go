// Package fs stores scraped pages as text files.
package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/sitescrape"
)

// Ensure FileStore implements sitescrape.PageStore at compile time.
var _ sitescrape.PageStore = (*FileStore)(nil)

// URLToPath converts a page URL to a relative file path. A query string is
// escaped into the file name so pages that differ only by query do not share
// a file. The fragment is ignored.
// Example: https://example.com/docs/api/users → docs/api/users.txt
// Example: https://example.com/p?id=1 → p_id%3D1.txt
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", sitescrape.Errorf(sitescrape.EINVALID, "invalid page URL: %v", err)
	}

	path := strings.TrimPrefix(u.Path, "/")

	// Root or trailing slash → index
	if path == "" || strings.HasSuffix(path, "/") {
		path += "index"
	}

	if u.RawQuery != "" {
		path += "_" + url.QueryEscape(u.RawQuery)
	}

	return path + ".txt", nil
}

// FormatPage formats a page's text with YAML frontmatter.
func FormatPage(page *sitescrape.PageResult, crawled time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.URL)
	b.WriteString("\ncrawled: ")
	b.WriteString(crawled.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(page.Text)
	return b.String()
}

// FileStore implements sitescrape.PageStore with atomic update semantics.
// Pages are saved to a temporary directory, then moved atomically on Commit.
// A FileStore is not safe for concurrent use.
type FileStore struct {
	baseDir string
	name    string

	// saved maps each written file to the URL it was written for.
	saved map[string]string

	// Now returns the crawl date written to each file. Defaults to time.Now.
	Now func() time.Time
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
		saved:   make(map[string]string),
		Now:     time.Now,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes the page below the temporary directory.
func (s *FileStore) Save(ctx context.Context, page *sitescrape.PageResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relPath, err := URLToPath(page.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)
	if !strings.HasPrefix(fullPath, s.tempDir()+string(filepath.Separator)) {
		return sitescrape.Errorf(sitescrape.EINVALID, "path traversal in page URL %q", page.URL)
	}
	if prev, ok := s.saved[relPath]; ok && prev != page.URL {
		return sitescrape.Errorf(sitescrape.EINVALID, "pages %q and %q map to the same file %s", prev, page.URL, relPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	if err := os.WriteFile(fullPath, []byte(FormatPage(page, s.Now())), 0644); err != nil {
		return err
	}
	s.saved[relPath] = page.URL
	return nil
}

// Commit replaces the output directory with the saved pages.
func (s *FileStore) Commit() error {
	clear(s.saved)
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	// A run that saved nothing still produces an empty directory.
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved pages and leaves the output directory untouched.
func (s *FileStore) Abort() error {
	clear(s.saved)
	return os.RemoveAll(s.tempDir())
}
