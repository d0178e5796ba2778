package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/causelist"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Config  causelist.Config
	Verbose bool

	Renderer    causelist.Renderer
	Transport   causelist.Transport
	Links       causelist.LinkExtractor
	Rows        causelist.RowFinder
	RateLimiter causelist.HostLimiter
	Extractor   causelist.TextExtractor

	// NewFetcher returns a DocumentFetcher writing into dir.
	NewFetcher func(dir string) causelist.DocumentFetcher

	Now      func() time.Time
	NewRunID func() string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" env:"CAUSELIST_VERBOSE" help:"Log every request and extraction to stderr"`

	UserAgent       string        `name:"user-agent" env:"CAUSELIST_USER_AGENT" default:"${user_agent}" help:"User-Agent sent with every request"`
	PageTimeout     time.Duration `name:"page-timeout" env:"CAUSELIST_PAGE_TIMEOUT" default:"30s" help:"Timeout for fetching the cause-list page"`
	DownloadTimeout time.Duration `name:"download-timeout" env:"CAUSELIST_DOWNLOAD_TIMEOUT" default:"60s" help:"Timeout for each document download"`
	RenderDelay     time.Duration `name:"render-delay" env:"CAUSELIST_RENDER_DELAY" default:"4s" help:"Time to let scripts run before capturing a rendered page"`
	Concurrency     int           `short:"c" env:"CAUSELIST_CONCURRENCY" default:"4" help:"Concurrent downloads and extractions"`
	RatePerHost     float64       `name:"rate" env:"CAUSELIST_RATE" default:"2" help:"Requests per second per host (0 for unlimited)"`
	Retries         int           `env:"CAUSELIST_RETRIES" default:"2" help:"Retries per failed download"`

	Backend string `enum:"go,pdftotext" env:"CAUSELIST_PDF_BACKEND" default:"go" help:"Text extraction backend (go, pdftotext)"`
	Index   string `env:"CAUSELIST_INDEX" help:"Text index database path (default ~/.causelist/index.db)"`
	NoIndex bool   `name:"no-index" help:"Extract text without caching it"`

	Harvest   HarvestCmd   `cmd:"" help:"Snapshot a cause-list page and collect its PDFs"`
	Search    SearchCmd    `cmd:"" help:"Search a folder of PDFs for a case number or text"`
	Summarize SummarizeCmd `cmd:"" help:"Write a CSV summary of a search results JSON file"`
}

// Config returns the runtime configuration selected by the global flags.
func (c *CLI) Config() causelist.Config {
	return causelist.Config{
		UserAgent:       c.UserAgent,
		PageTimeout:     c.PageTimeout,
		DownloadTimeout: c.DownloadTimeout,
		RenderDelay:     c.RenderDelay,
		Concurrency:     c.Concurrency,
		RatePerHost:     c.RatePerHost,
		Retries:         c.Retries,
	}
}

// HarvestCmd is the "harvest" subcommand.
type HarvestCmd struct {
	URL         string `arg:"" help:"Cause-list page URL"`
	Out         string `short:"o" env:"CAUSELIST_OUT" default:"outputs" help:"Output folder"`
	Date        string `xor:"date" help:"Cause-list date (YYYY-MM-DD)"`
	Today       bool   `xor:"date" help:"Use today's date (default)"`
	Tomorrow    bool   `xor:"date" help:"Use tomorrow's date"`
	Download    bool   `short:"d" help:"Download all discovered PDFs"`
	CNR         string `name:"cnr" help:"CNR or text to search in the page and downloaded PDFs"`
	Render      bool   `xor:"mode" help:"Render the page in a headless browser"`
	Interactive bool   `xor:"mode" help:"Open a visible browser and wait for ENTER (for CAPTCHA)"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Folder   string `arg:"" help:"Folder containing PDF files"`
	Query    string `arg:"" help:"Case number or text to search for"`
	OutJSON  string `name:"out-json" help:"JSON report path (default <folder>/search_results_<query>.json)"`
	OutCSV   string `name:"out-csv" help:"CSV summary path (default <folder>/search_summary_<query>.csv)"`
	Snippets bool   `help:"Add a sample_snippet column to the CSV summary"`
}

// SummarizeCmd is the "summarize" subcommand.
type SummarizeCmd struct {
	JSON string `name:"json" required:"" help:"Search results JSON file"`
	Out  string `name:"out" required:"" help:"CSV summary path"`
}
