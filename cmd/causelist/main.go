package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/causelist"
	"github.com/fwojciec/causelist/fs"
	"github.com/fwojciec/causelist/goquery"
	"github.com/fwojciec/causelist/harvest"
	clhttp "github.com/fwojciec/causelist/http"
	"github.com/fwojciec/causelist/pdf"
	"github.com/fwojciec/causelist/rod"
	clslog "github.com/fwojciec/causelist/slog"
	"github.com/fwojciec/causelist/sqlite"
	"github.com/google/uuid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin is read by the interactive browser wait. Set before calling Run().
	Stdin io.Reader

	// SQLite database backing the text index, if enabled.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Stdin: os.Stdin}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// NewParser creates the Kong parser for cli.
func NewParser(cli *CLI, stdout, stderr io.Writer, opts ...kong.Option) (*kong.Kong, error) {
	opts = append([]kong.Option{
		kong.Name("causelist"),
		kong.Description("Harvest court cause-list PDFs and search them for a case."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{"user_agent": causelist.DefaultUserAgent},
	}, opts...)
	return kong.New(cli, opts...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Now:      time.Now,
		NewRunID: func() string { return uuid.New().String() },
	}

	cli := &CLI{}
	parser, err := NewParser(cli, stdout, stderr, kong.Bind(deps))
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'causelist --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Config = cli.Config()
	deps.Verbose = cli.Verbose

	// Wire command-specific dependencies based on command
	switch kongCtx.Selected().Name {
	case "harvest":
		if err := m.wireHarvest(cli, deps); err != nil {
			return err
		}
		if cli.Harvest.CNR != "" && cli.Harvest.Download {
			if err := m.wireExtractor(cli, deps); err != nil {
				return err
			}
		}
	case "search":
		if err := m.wireExtractor(cli, deps); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireHarvest builds the page renderer, transport and download pipeline.
func (m *Main) wireHarvest(cli *CLI, deps *Dependencies) error {
	client, err := clhttp.NewClient(clhttp.WithConfig(deps.Config))
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}
	transport := clslog.NewLoggingTransport(client, deps.Logger)
	deps.Transport = transport

	var renderer causelist.Renderer = client
	if cli.Harvest.Render || cli.Harvest.Interactive {
		opts := []rod.Option{
			rod.WithHeadless(!cli.Harvest.Interactive),
			rod.WithUserAgent(deps.Config.UserAgent),
			rod.WithRenderDelay(deps.Config.RenderDelay),
		}
		if cli.Harvest.Interactive {
			opts = append(opts, rod.WithWait(WaitForEnter(m.Stdin, deps.Stdout)))
		}
		browser, err := rod.NewRenderer(opts...)
		if err != nil {
			renderer = &causelist.UnavailableRenderer{Reason: err.Error()}
		} else {
			m.closers = append(m.closers, browser)
			renderer = browser
		}
	}
	deps.Renderer = clslog.NewLoggingRenderer(renderer, deps.Logger)

	deps.Links = goquery.NewLinkExtractor()
	deps.Rows = goquery.NewRowFinder()
	deps.RateLimiter = harvest.NewHostLimiter(deps.Config.RatePerHost)
	deps.NewFetcher = func(dir string) causelist.DocumentFetcher {
		return clslog.NewLoggingDocumentFetcher(fs.NewDownloader(dir, transport), deps.Logger)
	}
	return nil
}

// wireExtractor builds the text extractor, optionally behind the text index.
func (m *Main) wireExtractor(cli *CLI, deps *Dependencies) error {
	var extractor causelist.TextExtractor = pdf.NewExtractor()
	if cli.Backend == "pdftotext" {
		extractor = pdf.NewPdftotext()
	}

	if !cli.NoIndex {
		path := cli.Index
		if path == "" {
			path = defaultIndexPath()
		}
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(deps.Stderr, "Hint: Set CAUSELIST_INDEX or pass --no-index\n")
			return fmt.Errorf("failed to open text index at %q: %w", path, err)
		}
		m.closers = append(m.closers, m.DB)
		index := sqlite.NewTextIndex(m.DB, cli.Backend, extractor)
		if cli.Verbose {
			n, err := index.Count(deps.Ctx)
			if err != nil {
				return fmt.Errorf("failed to read text index at %q: %w", path, err)
			}
			fmt.Fprintf(deps.Stdout, "Text index: %s (%d documents from the %s backend)\n", path, n, index.Backend())
		}
		extractor = index
	}

	deps.Extractor = clslog.NewLoggingTextExtractor(extractor, deps.Logger)
	return nil
}

func defaultIndexPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "causelist-index.db"
	}
	dir := filepath.Join(home, ".causelist")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "index.db")
}
