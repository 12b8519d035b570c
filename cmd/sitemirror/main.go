package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitemirror/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitemirror"),
		kong.Description("Mirror a website and its media into a local directory tree"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	cli.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps, err := NewDependencies(ctx, cfg, logger, stdout, stderr)
	if err != nil {
		return err
	}
	defer deps.Close()

	cmd := &MirrorCmd{
		RootURL:  cfg.RootURL,
		MaxDepth: cfg.MaxDepth,
		Dest:     cfg.DestinationDir,
	}
	return cmd.Run(deps)
}

// CLI defines the command-line interface structure for Kong.
// Flags left unset fall back to the configuration file, then to defaults.
type CLI struct {
	URL  string `arg:"" optional:"" help:"Root URL to mirror"`
	Dest string `arg:"" optional:"" help:"Destination directory (default: current directory)"`

	Depth          *int          `short:"d" help:"Maximum number of link hops from the root page (default: 2)"`
	Concurrency    int           `short:"c" help:"Maximum concurrent fetches (default: 10)"`
	Timeout        time.Duration `short:"t" help:"Fetch timeout per request (default: 30s)"`
	UserAgent      string        `help:"User-Agent header sent with every request"`
	Config         string        `help:"Configuration file (default: ./sitemirror.yaml or the XDG config file)"`
	Report         string        `help:"Write a SQLite crawl report to this file"`
	Dedup          string        `help:"Visited set implementation: exact or bloom"`
	DedupResources bool          `help:"Download each media URL once per crawl"`
	Verbose        bool          `short:"v" help:"Enable debug logging"`
}

// apply overrides cfg with every flag the user set.
func (c *CLI) apply(cfg *config.Config) {
	if c.URL != "" {
		cfg.RootURL = c.URL
	}
	if c.Dest != "" {
		cfg.DestinationDir = c.Dest
	}
	if c.Depth != nil {
		cfg.MaxDepth = *c.Depth
	}
	if c.Concurrency != 0 {
		cfg.Concurrency = c.Concurrency
	}
	if c.Timeout != 0 {
		cfg.Timeout = c.Timeout
	}
	if c.UserAgent != "" {
		cfg.UserAgent = c.UserAgent
	}
	if c.Report != "" {
		cfg.ReportPath = c.Report
	}
	if c.Dedup != "" {
		cfg.Dedup = c.Dedup
	}
	if c.DedupResources {
		cfg.DedupResources = true
	}
	if c.Verbose {
		cfg.Verbose = true
	}
}
