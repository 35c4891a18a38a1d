// Package cli wires configuration, storage and the study tree into cobra commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/config"
	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/pgn"
	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/position"
	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/store"
	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/tui"
)

type rootFlags struct {
	configPath string
	fen        string
	tab        string
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:          "study",
		Short:        "Edit annotated chess studies in the terminal",
		Long:         `study keeps a tree of moves and variations per tab, annotates it from engine analysis, and exports PGN.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", defaultConfigPath(), "config file (YAML or JSON)")
	cmd.Flags().StringVar(&flags.fen, "fen", "", "start a new tab from this position")
	cmd.Flags().StringVar(&flags.tab, "tab", "", "reopen a saved tab by id")

	cmd.AddCommand(newAnalyzeCommand(flags), newTabsCommand(flags))
	return cmd
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".study", "config.yaml")
}

// env is what every command needs: loaded config, a logger and a tab registry.
type env struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *store.Registry
	db       *store.Badger
	closeLog func() error
}

func (e *env) Close() error {
	var err error
	if e.db != nil {
		err = e.db.Close()
	}
	if cerr := e.closeLog(); err == nil {
		err = cerr
	}
	return err
}

// setup loads the configuration and opens storage. extra (optional) adds tree
// options on top of the ones derived from the config. logFallback receives logs
// when the config names no log file (nil discards them).
func setup(flags *rootFlags, logFallback io.Writer, extra func(config.Config, *slog.Logger) []domain.Option) (*env, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := newLogger(cfg.Log, logFallback)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	bcfg := store.DefaultBadgerConfig(cfg.Storage.Path)
	if cfg.Storage.InMemory {
		bcfg = store.InMemoryBadgerConfig()
	}
	bcfg.SyncWrites = cfg.Storage.SyncWrites
	bcfg.GCInterval = cfg.Storage.GCInterval
	bcfg.Logger = logger
	db, err := store.OpenBadger(bcfg)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	opts := []domain.Option{
		domain.WithLineRenderer(pgn.RenderLine),
		domain.WithPolicy(cfg.Analysis.Policy()),
		domain.WithSuggestionPlies(cfg.Analysis.SuggestionPlies),
	}
	if extra != nil {
		opts = append(opts, extra(cfg, logger)...)
	}

	return &env{
		cfg:      cfg,
		logger:   logger,
		registry: store.NewRegistry(db, position.New(), logger, opts...),
		db:       db,
		closeLog: closeLog,
	}, nil
}

func newLogger(cfg config.LogConfig, fallback io.Writer) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	w := fallback
	closeFn := noop
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, f.Close
	}
	if w == nil {
		w = io.Discard
	}
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h), closeFn, nil
}

func runTUI(ctx context.Context, flags *rootFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// the terminal belongs to the UI: without a log file, logs are dropped
	e, err := setup(flags, nil, func(cfg config.Config, logger *slog.Logger) []domain.Option {
		opts := []domain.Option{domain.WithClipboard(tui.SystemClipboard())}
		if cfg.UI.Sounds {
			opts = append(opts, domain.WithSounder(tui.NewBellSounder(os.Stderr, logger)))
		}
		return opts
	})
	if err != nil {
		return err
	}
	defer e.Close()

	tab, err := openTab(ctx, e.registry, flags)
	if err != nil {
		return err
	}
	e.logger.Info("study opened", slog.String("tab", tab.ID()))

	return tui.Run(tui.Options{
		Registry:      e.registry,
		Tab:           tab,
		Orientation:   e.cfg.UI.BoardOrientation(),
		ShowHints:     e.cfg.UI.ShowHints,
		FlushInterval: e.cfg.Storage.FlushInterval,
		Logger:        e.logger,
	})
}

func openTab(ctx context.Context, reg *store.Registry, flags *rootFlags) (*domain.Store, error) {
	if flags.tab != "" {
		return reg.Restore(ctx, flags.tab)
	}
	if flags.fen != "" {
		if _, err := position.New().Status(flags.fen); err != nil {
			return nil, err
		}
	}
	return reg.Open(flags.fen), nil
}
