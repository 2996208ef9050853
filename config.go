package sitescrape

import (
	"errors"
	"io"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Default crawl limits.
const (
	DefaultMaxPages       = 50
	DefaultMaxDepth       = 3
	DefaultRequestTimeout = 15 * time.Second
	DefaultDelay          = 500 * time.Millisecond
)

// CrawlConfig bounds a single crawl run. It is read-only once a crawl starts
// and may be shared across runs.
type CrawlConfig struct {
	// MaxPages caps the number of URLs a run attempts to fetch.
	MaxPages int `yaml:"max_pages"`

	// MaxDepth caps the number of link hops from the start URL.
	MaxDepth int `yaml:"max_depth"`

	// RequestTimeout bounds each fetch.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Delay is the politeness pause after every processed frontier entry.
	Delay time.Duration `yaml:"delay"`

	// ExcludeURLPatterns are appended to DefaultBlockedURLPatterns.
	ExcludeURLPatterns []string `yaml:"exclude_url_patterns"`

	// BlockTextPatterns are appended to DefaultBlockedTextPatterns.
	BlockTextPatterns []string `yaml:"block_text_patterns"`
}

// DefaultCrawlConfig returns a CrawlConfig populated with the default limits.
func DefaultCrawlConfig() CrawlConfig {
	return CrawlConfig{
		MaxPages:       DefaultMaxPages,
		MaxDepth:       DefaultMaxDepth,
		RequestTimeout: DefaultRequestTimeout,
		Delay:          DefaultDelay,
	}
}

// Validate returns an error if the config contains invalid limits or patterns.
func (c *CrawlConfig) Validate() error {
	if c.MaxPages < 0 {
		return Errorf(EINVALID, "max pages must not be negative")
	}
	if c.MaxDepth < 0 {
		return Errorf(EINVALID, "max depth must not be negative")
	}
	if c.RequestTimeout < 0 {
		return Errorf(EINVALID, "request timeout must not be negative")
	}
	if c.Delay < 0 {
		return Errorf(EINVALID, "delay must not be negative")
	}
	for _, p := range c.ExcludeURLPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return Errorf(EINVALID, "invalid URL exclude pattern %q: %v", p, err)
		}
	}
	for _, p := range c.BlockTextPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return Errorf(EINVALID, "invalid text block pattern %q: %v", p, err)
		}
	}
	return nil
}

// LoadCrawlConfig decodes a YAML document over DefaultCrawlConfig.
// Fields absent from the document keep their default values.
// An empty document yields the defaults.
func LoadCrawlConfig(r io.Reader) (CrawlConfig, error) {
	cfg := DefaultCrawlConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return CrawlConfig{}, Errorf(EINVALID, "invalid crawl config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return CrawlConfig{}, err
	}
	return cfg, nil
}
