package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmcdole/popcorn/internal/catalog"
	"github.com/mmcdole/popcorn/internal/config"
	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/log"
	"github.com/mmcdole/popcorn/internal/store"
	"github.com/mmcdole/popcorn/internal/tmdb"
	"github.com/mmcdole/popcorn/internal/tui"
	"github.com/mmcdole/popcorn/internal/tui/components"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
)

// rootCmd opens the movie browser
var rootCmd = &cobra.Command{
	Use:   "popcorn",
	Short: "Browse popular movies from TMDB in your terminal",
	Long: `popcorn is a terminal movie browser backed by The Movie Database.

Popular movies and details are cached locally so the catalog stays
browsable when the network is unavailable.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
	RunE:              runBrowse,
}

func init() {
	cobra.OnFinalize(closeLog)

	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultConfigPath()+")")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads configuration and sets up logging
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logCloser, err = log.SetupLogger(cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting popcorn", "version", Version, "command", cmd.Name())
	return nil
}

// closeLog runs after every command, including ones that returned an error
func closeLog() {
	if logCloser == nil {
		return
	}
	if err := logCloser.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
	}
	logCloser = nil
}

// openStore opens the bbolt cache under the configured directory
func openStore() (*store.MovieStore, func(), error) {
	st, err := store.Open(cfg.Cache.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache: %w", err)
	}
	closeStore := func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close cache", "error", err)
		}
	}
	return st, closeStore, nil
}

// openCatalog opens the cache and builds the catalog service. The TMDB client
// is only created when withClient is set, so cache maintenance works without
// a token.
func openCatalog(withClient bool) (*catalog.Service, func(), error) {
	st, closeStore, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	var client domain.MovieClient
	if withClient {
		client, err = newClient(cfg.TMDB.Token)
		if err != nil {
			closeStore()
			return nil, nil, err
		}
	}
	return newService(client, st), closeStore, nil
}

func newService(client domain.MovieClient, st domain.MovieStore) *catalog.Service {
	return catalog.NewService(client, st, logger,
		catalog.WithRetentionDays(cfg.Cache.RetentionDays),
		catalog.WithMaxCached(cfg.Cache.MaxMovies),
	)
}

func newClient(token string) (*tmdb.Client, error) {
	client, err := tmdb.NewClient(cfg.TMDB.BaseURL, token, logger,
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithUserAgent("popcorn/"+Version),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create TMDB client: %w", err)
	}
	return client, nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !cfg.IsConfigured() {
		return errors.New("no TMDB access token configured; run `popcorn setup` first")
	}

	svc, closeCatalog, err := openCatalog(true)
	if err != nil {
		return err
	}
	defer closeCatalog()

	// Retention cleanup must not hold up the first screen
	go func() {
		if _, err := svc.EvictStale(context.Background()); err != nil {
			logger.Warn("stale cache eviction failed", "error", err)
		}
	}()

	model := tui.NewModel(svc, tui.Options{
		Images: components.ImageSettings{
			BaseURL:      cfg.Images.BaseURL,
			PosterSize:   cfg.Images.PosterSize,
			BackdropSize: cfg.Images.BackdropSize,
		},
		Debounce: cfg.Browse.SearchDebounce,
		Timeout:  cfg.TMDB.Timeout,
	}, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
