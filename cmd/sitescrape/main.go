package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitescrape"
	"github.com/fwojciec/sitescrape/crawl"
	"github.com/fwojciec/sitescrape/fs"
	"github.com/fwojciec/sitescrape/gemini"
	"github.com/fwojciec/sitescrape/goquery"
	sitehttp "github.com/fwojciec/sitescrape/http"
	siteslog "github.com/fwojciec/sitescrape/slog"
	"github.com/fwojciec/sitescrape/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); the --db flag and the
	// SITESCRAPE_DB variable take precedence.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Fetcher  sitescrape.Fetcher
	Embedder sitescrape.Embedder
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitescrape"),
		kong.Description("Crawl a website, extract clean page text and index it for search."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitescrape --help' to see available commands")
	}

	switch args[0] {
	case "help", "--help", "-h":
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)
	if cli.DB != "" {
		m.DBPath = cli.DB
	}

	cmd, _, _ := strings.Cut(kongCtx.Command(), " ")
	switch cmd {
	case "crawl":
		fetcher := m.Fetcher
		if fetcher == nil {
			f := sitehttp.NewFetcher()
			defer f.Close()
			fetcher = f
		}
		if cli.Verbose {
			fetcher = siteslog.NewLoggingFetcher(fetcher, deps.Logger)
		}

		deps.Crawler = &crawl.Crawler{
			Fetcher:     fetcher,
			Sanitizer:   goquery.NewSanitizer(deps.Logger),
			Extractor:   goquery.NewTextExtractor(),
			Links:       goquery.NewLinkExtractor(),
			RateLimiter: crawl.NewDomainLimiter(cli.Crawl.RPS),
			RetryDelays: retryDelays(cli.Crawl.Retries),
			Logger:      deps.Logger,
		}

		if cli.Crawl.Out != "" {
			deps.Pages = fs.NewFileStore(filepath.Dir(cli.Crawl.Out), filepath.Base(cli.Crawl.Out))
		}

		if cli.Crawl.Index {
			chunks, err := m.openChunkService(ctx, cli.APIKey, stderr)
			if err != nil {
				return err
			}
			defer m.Close()
			chunks.Replace = cli.Crawl.Replace

			var indexer sitescrape.Indexer = chunks
			if cli.Verbose {
				indexer = siteslog.NewLoggingIndexer(indexer, deps.Logger)
			}
			deps.Crawler.Indexer = indexer
		}

	case "search":
		chunks, err := m.openChunkService(ctx, cli.APIKey, stderr)
		if err != nil {
			return err
		}
		defer m.Close()

		var searcher sitescrape.ChunkSearcher = chunks
		if cli.Verbose {
			searcher = siteslog.NewLoggingSearcher(searcher, deps.Logger)
		}
		deps.Searcher = searcher
	}

	return kongCtx.Run(deps)
}

// openChunkService opens the database and wires a ChunkService with an
// embedder. m.Embedder is used when set; otherwise a Gemini client is
// created from apiKey.
func (m *Main) openChunkService(ctx context.Context, apiKey string, stderr io.Writer) (*sqlite.ChunkService, error) {
	embedder := m.Embedder
	if embedder == nil {
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		embedder = gemini.NewEmbedder(client, gemini.DefaultModel)
	}

	if err := os.MkdirAll(filepath.Dir(m.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SITESCRAPE_DB to use a different database path\n")
		return nil, fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}

	return sqlite.NewChunkService(m.DB, embedder), nil
}

// newLogger logs to stderr at debug level when verbose, and discards
// everything otherwise.
func newLogger(stderr io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// retryDelays returns the first n default backoff delays.
// Zero disables retries.
func retryDelays(n int) []time.Duration {
	if n <= 0 {
		return nil
	}
	delays := crawl.DefaultRetryDelays()
	return delays[:min(n, len(delays))]
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitescrape.db"
	}
	return filepath.Join(home, ".sitescrape", "sitescrape.db")
}
