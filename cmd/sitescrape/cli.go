package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/sitescrape"
	"github.com/fwojciec/sitescrape/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Crawler  *crawl.Crawler
	Pages    sitescrape.PageStore
	Searcher sitescrape.ChunkSearcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"SITESCRAPE_DB" help:"SQLite database path (default ~/.sitescrape/sitescrape.db)"`
	APIKey  string `name:"api-key" env:"GEMINI_API_KEY" help:"Gemini API key used for embeddings"`
	Verbose bool   `short:"v" help:"Log requests and crawl decisions to stderr"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl a site and print the scraped pages as JSON"`
	Search SearchCmd `cmd:"" help:"Search indexed page chunks"`
}

// CrawlCmd is the "crawl" subcommand. Unset limit flags keep the value from
// --config, or the default when no config file is given.
type CrawlCmd struct {
	URL         string         `arg:"" help:"Start URL"`
	Config      string         `short:"c" type:"path" help:"YAML file with crawl settings"`
	MaxPages    *int           `help:"Maximum number of pages to fetch (default 50)"`
	MaxDepth    *int           `help:"Maximum number of link hops from the start URL (default 3)"`
	Timeout     *time.Duration `help:"Per-request timeout (default 15s)"`
	Delay       *time.Duration `help:"Pause after every processed URL (default 500ms)"`
	Exclude     []string       `short:"x" help:"Skip URLs matching this regex (repeatable)"`
	Block       []string       `short:"b" help:"Drop text lines matching this regex (repeatable)"`
	Index       bool           `help:"Split pages into chunks and store them for search"`
	Replace     bool           `help:"Drop previously indexed chunks of a page before storing new ones"`
	IncludeText bool           `default:"true" negatable:"" help:"Include page text and sanitized HTML in the report"`
	Retries     int            `default:"0" help:"Retries for transient fetch failures (at most 3)"`
	RPS         float64        `name:"rps" default:"0" help:"Maximum requests per second per host (0 disables)"`
	Out         string         `short:"o" type:"path" help:"Also write each page's text to files under this directory"`
	Quiet       bool           `short:"q" help:"Suppress progress output"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string  `arg:"" help:"Search query"`
	Limit    int     `short:"n" default:"5" help:"Maximum number of results"`
	MinScore float32 `help:"Minimum similarity score"`
	JSON     bool    `name:"json" help:"Print results as JSON"`
}
