package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/petrijr/gridpath"
)

// rootOptions holds the persistent flags and what PersistentPreRunE derives
// from them.
type rootOptions struct {
	configPath string
	dbPath     string
	verbose    bool

	cfg    gridpath.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "gridpath",
		Short:        "Run and compare grid pathfinding algorithms",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file (defaults apply when omitted)")
	flags.StringVar(&opts.dbPath, "db", "", "SQLite database for run history (in memory when omitted)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every visit and path step")

	cmd.AddCommand(
		newRunCmd(opts),
		newCompareCmd(opts),
		newRandomizeCmd(opts),
		newHistoryCmd(opts),
		newEventsCmd(opts),
		newAlgorithmsCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load(logOut io.Writer) error {
	o.cfg = gridpath.DefaultConfig()
	if o.configPath != "" {
		cfg, err := gridpath.LoadConfig(o.configPath)
		if err != nil {
			return err
		}
		o.cfg = cfg
	}
	o.logger = newLogger(logOut, o.verbose)
	slog.SetDefault(o.logger)
	return nil
}

// newLogger writes human-readable text to terminals and JSON elsewhere.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, handlerOpts))
	}
	return slog.New(slog.NewJSONHandler(w, handlerOpts))
}

// openController returns a controller backed by --db when set. close
// releases the database.
func (o *rootOptions) openController(cfg gridpath.Config, extra ...gridpath.Observer) (ctrl gridpath.Controller, closeFn func() error, err error) {
	obs := gridpath.NewCompositeObserver(append([]gridpath.Observer{gridpath.NewLoggingObserver(o.logger)}, extra...)...)

	if o.dbPath == "" {
		return gridpath.NewInMemoryController(cfg, obs), func() error { return nil }, nil
	}

	db, err := o.openDB()
	if err != nil {
		return nil, nil, err
	}
	ctrl, err = gridpath.NewSQLiteController(db, cfg, obs)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("init run store: %w", err)
	}
	return ctrl, db.Close, nil
}

func (o *rootOptions) openDB() (*sql.DB, error) {
	if o.dbPath == "" {
		return nil, errors.New("--db is required")
	}
	db, err := sql.Open("sqlite", o.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", o.dbPath, err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	return db, nil
}
