package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/justchokingaround/reel/internal/catalog"
	"github.com/justchokingaround/reel/internal/clipboard"
	"github.com/justchokingaround/reel/internal/config"
	"github.com/justchokingaround/reel/internal/database"
	"github.com/justchokingaround/reel/internal/genre"
	"github.com/justchokingaround/reel/internal/history"
	"github.com/justchokingaround/reel/internal/tui"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	cfgFile   string
	logLevel  string
	noColor   bool
	debugMode bool
	genreFlag string

	// Set up by rootCmd's PersistentPreRunE
	cfg      *config.Config
	cfgViper *viper.Viper
	logger   *slog.Logger
	db       *gorm.DB
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reel",
	Short: "Browse popular movies and discover films by genre from your terminal",
	Long: `reel is a terminal client for The Movie Database. It shows an endlessly
scrolling list of popular movies, lets you narrow it down by genre and
rates every title with a colored user-score badge.

Set tmdb.api_key in the config file (see 'reel config init') or export
REEL_TMDB_API_KEY before running.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipsSetup(cmd) {
			return nil
		}

		if err := config.InitializeDirs(); err != nil {
			return fmt.Errorf("failed to initialize directories: %w", err)
		}

		var err error
		cfg, cfgViper, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if debugMode {
			cfg.Advanced.Debug = true
			if logLevel == "" {
				cfg.Logging.Level = "debug"
			}
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if noColor {
			cfg.Logging.Color = false
		}

		logger, err = config.InitLogger(&cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logger.With("session", uuid.NewString())
		slog.SetDefault(logger)

		if db != nil {
			_ = database.Close(db)
		}
		db, err = database.Open(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}

		watchConfig(cfgViper)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db == nil {
			return
		}
		if err := database.Close(db); err != nil {
			logger.Error("failed to close database", "error", err)
		}
		db = nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RequireCredentials(); err != nil {
			return err
		}
		logger.Info("reel starting", "version", version)

		hist := history.NewService(db)
		initial, err := startingSelection(hist)
		if err != nil {
			return err
		}

		return tui.Start(tui.Options{
			Catalog:   newCatalog(),
			Genres:    genre.NewDirectory(),
			History:   hist,
			Clipboard: clipboard.NewService(cfg.Advanced.ClipboardCommand, logger),
			Config:    cfg,
			Logger:    logger,
			Initial:   initial,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/reel/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug mode (verbose HTTP logging)")
	rootCmd.Flags().StringVar(&genreFlag, "genres", "", "start filtered by these genre ids, e.g. 28,35 (see 'reel genres')")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(popularCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(recentCmd)
}

// skipsSetup reports whether cmd runs without config, logger and database
func skipsSetup(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version":
		return true
	case "init", "path":
		return cmd.Parent() != nil && cmd.Parent().Name() == "config"
	}
	return false
}

// watchConfig applies log level changes from the config file while running
func watchConfig(v *viper.Viper) {
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		var next config.Config
		if err := v.Unmarshal(&next); err != nil {
			logger.Error("failed to reload config", "file", e.Name, "error", err)
			return
		}
		if logLevel == "" && !debugMode {
			config.ApplyLogLevel(next.Logging.Level)
		}
		logger.Info("config file changed", "file", e.Name, "level", next.Logging.Level)
	})
	v.WatchConfig()
}

// newCatalog builds the TMDB client, behind the response cache when enabled
func newCatalog() catalog.Client {
	tmdb := catalog.NewTMDB(cfg.TMDB, cfg.Advanced.Debug, logger)
	if !cfg.Cache.Enabled || cfg.Cache.TTL <= 0 {
		return tmdb
	}
	return catalog.Cached(tmdb, cfg.Cache.TTL)
}

// startingSelection resolves the genres the TUI opens with: --genres first,
// then the remembered selection
func startingSelection(hist *history.Service) (genre.Selection, error) {
	if genreFlag != "" {
		sel, err := genre.ParseSelection(genreFlag)
		if err != nil {
			return genre.Selection{}, fmt.Errorf("invalid --genres: %w", err)
		}
		return sel, nil
	}

	if !cfg.UI.RememberGenres {
		return genre.Selection{}, nil
	}
	sel, err := hist.LastSelection()
	if err != nil {
		logger.Warn("failed to restore genre selection", "error", err)
		return genre.Selection{}, nil
	}
	return sel, nil
}

// versionCmd displays version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "reel version %s\n", version)
		fmt.Fprintf(out, "Commit: %s\n", commit)
		fmt.Fprintf(out, "Built: %s\n", date)
	},
}

func requestTimeout() time.Duration {
	if cfg.TMDB.Timeout > 0 {
		return cfg.TMDB.Timeout
	}
	return 15 * time.Second
}
