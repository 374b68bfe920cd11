// Package cmd provides the CLI commands for linkden.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/linkden/linkden/internal/config"
	"github.com/linkden/linkden/internal/logging"
	"github.com/linkden/linkden/internal/search"
	"github.com/linkden/linkden/internal/store"
	"github.com/linkden/linkden/pkg/version"
)

// dataDir is the --data-dir persistent flag value.
var dataDir string

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates the root command for the linkden CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkden",
		Short: "Personal link collection with ranked full-text search",
		Long: `Linkden collects links you want to keep and makes them searchable.

Submitted links wait as pending drafts until you confirm them; confirmed
links are published into a full-text index with ranked retrieval, facet
filters, highlighted excerpts, typed suggestions, and did-you-mean
fallback for sparse results.`,
		Version:       version.Version,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.SetVersionTemplate("linkden version {{.Version}}\n")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"Data directory (default ~/.linkden)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newConfirmCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newSuggestCmd())
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// env bundles the opened dependencies for one command run.
type env struct {
	cfg    *config.Config
	store  *store.SQLiteStore
	engine *search.Engine
	logger *slog.Logger

	cleanups []func()
}

func (e *env) close() {
	for i := len(e.cleanups) - 1; i >= 0; i-- {
		e.cleanups[i]()
	}
}

// openEnv loads configuration, sets up logging, and opens the store.
func openEnv() (*env, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.WriteToStderr = false
	if cfg.Logging.File {
		logCfg.FilePath = cfg.LogPath()
	}
	logger, logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}

	e := &env{cfg: cfg, logger: logger}
	e.cleanups = append(e.cleanups, logCleanup)

	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		e.close()
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		e.close()
		return nil, err
	}
	e.store = st
	e.cleanups = append(e.cleanups, func() { _ = st.Close() })

	e.engine = search.New(st, engineConfig(cfg), logger)
	return e, nil
}

// engineConfig projects the loaded configuration onto the engine's
// thresholds, keeping engine defaults for knobs the file does not expose.
func engineConfig(cfg *config.Config) search.Config {
	sc := search.DefaultConfig()
	sc.DefaultLimit = cfg.Search.DefaultLimit
	sc.MaxLimit = cfg.Search.MaxLimit
	sc.SparsityThreshold = cfg.Search.SparsityThreshold
	sc.SnippetLength = cfg.Search.SnippetLength
	sc.MaxEditDistance = cfg.Search.MaxEditDistance
	sc.SuggestLimit = cfg.Search.SuggestLimit
	sc.SuggestCacheSize = cfg.Search.SuggestCacheSize
	return sc
}
