package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/mmcdole/cineverse/internal/catalog"
	"github.com/mmcdole/cineverse/internal/config"
	"github.com/mmcdole/cineverse/internal/library"
	"github.com/mmcdole/cineverse/internal/logging"
	"github.com/mmcdole/cineverse/internal/paging"
	"github.com/mmcdole/cineverse/internal/search"
	"github.com/mmcdole/cineverse/internal/store"
	"github.com/mmcdole/cineverse/internal/tui"
	"github.com/mmcdole/cineverse/internal/tui/styles"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	list        bool
	query       string
	favorites   bool
	page        int
	writeConfig bool
}

func main() {
	var (
		showVersion bool
		opts        options
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&opts.list, "list", false, "print one page of movies instead of starting the UI")
	flag.StringVar(&opts.query, "query", "", "filter titles (with -list)")
	flag.BoolVar(&opts.favorites, "favorites", false, "list favorites only (with -list)")
	flag.IntVar(&opts.page, "page", 0, "zero-based page to print (with -list)")
	flag.BoolVar(&opts.writeConfig, "write-config", false, "write the effective configuration to the default config file and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("cineverse %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// CINEVERSE_* overrides may live in a local .env file
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.writeConfig {
		if err := config.SaveConfig(cfg, ""); err != nil {
			return err
		}
		fmt.Println("✓ Configuration saved!")
		return nil
	}

	logger, err := logging.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = logging.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting cineverse", "version", Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := catalog.NewSource(&cfg.Catalog, logger)
	if err != nil {
		return fmt.Errorf("failed to create catalog source: %w", err)
	}
	policy, err := library.ParseDuplicatePolicy(cfg.Catalog.Duplicates)
	if err != nil {
		return err
	}
	matcher, err := search.NewMatcher(cfg.Search.Mode)
	if err != nil {
		return err
	}

	favorites, err := store.Open(&cfg.Favorites, logger)
	if err != nil {
		return fmt.Errorf("failed to open favorites: %w", err)
	}
	defer favorites.Close()

	repo := library.NewRepository(source, favorites, policy, logger)
	defer repo.Close()

	newSearch := func() *search.Controller {
		return search.NewController(matcher, cfg.Search.Debounce, logger)
	}
	pagingCfg := paging.Config{
		PageSize:         cfg.Paging.PageSize,
		PrefetchDistance: cfg.Paging.PrefetchDistance,
	}

	if opts.list || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runList(ctx, os.Stdout, repo, newSearch(), pagingCfg, opts, logger)
	}

	styles.ApplyTheme(cfg.UI.Theme)
	model := tui.NewModel(ctx, tui.Options{
		Repo:        repo,
		NewSearch:   newSearch,
		Paging:      pagingCfg,
		ShowRatings: cfg.UI.ShowRatings,
		AddedAt:     favorites.AddedAt,
		Logger:      logger,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
