package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/sitescrape"
	"github.com/fwojciec/sitescrape/crawl"
)

// progressURLWidth is the maximum URL length shown in progress lines.
const progressURLWidth = 80

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	cfg, err := c.crawlConfig()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitescrape.ErrorMessage(err))
		return err
	}
	if deps.Pages != nil && !c.IncludeText {
		err := sitescrape.Errorf(sitescrape.EINVALID, "writing pages requires page text; drop --no-include-text")
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitescrape.ErrorMessage(err))
		return err
	}

	opts := crawl.ScrapeOptions{
		Index:       c.Index,
		IncludeText: c.IncludeText,
	}
	if !c.Quiet {
		opts.Progress = func(e crawl.ProgressEvent) {
			fmt.Fprintln(deps.Stderr, crawl.FormatProgress(e, progressURLWidth))
		}
	}

	report, err := deps.Crawler.Scrape(deps.Ctx, c.URL, cfg, opts)
	if report != nil {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			return encErr
		}
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitescrape.ErrorMessage(err))
		return err
	}

	if c.Index {
		fmt.Fprintf(deps.Stderr, "indexed %d chunks\n", report.ChunksIndexed)
	}

	if deps.Pages != nil {
		if err := savePages(deps, report.Items); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitescrape.ErrorMessage(err))
			return err
		}
	}
	return nil
}

// savePages writes every report item to the page store. Nothing is
// committed unless every page was saved.
func savePages(deps *Dependencies, items []crawl.Item) error {
	for _, item := range items {
		if err := deps.Pages.Save(deps.Ctx, &sitescrape.PageResult{URL: item.URL, Text: item.Text}); err != nil {
			_ = deps.Pages.Abort()
			return err
		}
	}
	return deps.Pages.Commit()
}

// crawlConfig layers the flags over the config file over the defaults.
func (c *CrawlCmd) crawlConfig() (sitescrape.CrawlConfig, error) {
	cfg := sitescrape.DefaultCrawlConfig()
	if c.Config != "" {
		f, err := os.Open(c.Config)
		if err != nil {
			return cfg, sitescrape.Errorf(sitescrape.EINVALID, "cannot read config: %v", err)
		}
		defer f.Close()
		if cfg, err = sitescrape.LoadCrawlConfig(f); err != nil {
			return cfg, err
		}
	}

	if c.MaxPages != nil {
		cfg.MaxPages = *c.MaxPages
	}
	if c.MaxDepth != nil {
		cfg.MaxDepth = *c.MaxDepth
	}
	if c.Timeout != nil {
		cfg.RequestTimeout = *c.Timeout
	}
	if c.Delay != nil {
		cfg.Delay = *c.Delay
	}
	cfg.ExcludeURLPatterns = append(cfg.ExcludeURLPatterns, c.Exclude...)
	cfg.BlockTextPatterns = append(cfg.BlockTextPatterns, c.Block...)

	return cfg, cfg.Validate()
}
