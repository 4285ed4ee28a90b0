package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/complexport/internal/config"
	"github.com/roach88/complexport/internal/store"
)

// StoreFlags are the store selection flags shared by the data commands.
type StoreFlags struct {
	Database string
	Fixtures string
}

func (f *StoreFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringVar(&f.Fixtures, "fixtures", "", "YAML fixtures to load before running")
}

// session is the per-run state shared by every command: configuration,
// the run-scoped logger, the output formatter and an open store.
type session struct {
	cfg    *config.Config
	runID  string
	log    *slog.Logger
	out    *OutputFormatter
	store  *store.Store
	tmpDir string
}

// newSession loads configuration and builds the logger. It does not open
// the store.
func newSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})

	runID := opts.runIDs().Generate()
	return &session{
		cfg:   cfg,
		runID: runID,
		log:   slog.New(handler).With("run", runID, "command", cmd.Name()),
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
	}, nil
}

// openStore opens the database named by --db, falling back to the config.
//
// With --fixtures and no explicit database, the fixtures are loaded into
// a scratch database that Close removes. Without fixtures the database
// must already exist unless create is set.
func (s *session) openStore(cmd *cobra.Command, flags *StoreFlags, create bool) error {
	path := s.cfg.Database
	explicit := path != config.Default().Database
	if cmd.Flags().Changed("db") {
		path, explicit = flags.Database, true
	}

	switch {
	case flags.Fixtures != "" && !explicit:
		dir, err := os.MkdirTemp("", "complexport-")
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create scratch database", err)
		}
		s.tmpDir = dir
		path = filepath.Join(dir, "scratch.db")
	case flags.Fixtures == "" && !create:
		if _, err := os.Stat(path); err != nil {
			return WrapExitError(ExitCommandError, "database not found", err)
		}
	}

	s.log.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	s.store = st

	if flags.Fixtures != "" {
		stats, err := st.LoadFixtures(commandContext(cmd), flags.Fixtures)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load fixtures", err)
		}
		s.log.Info("fixtures loaded", "path", flags.Fixtures,
			"interactors", stats.Interactors, "complexes", stats.Complexes, "evidences", stats.Evidences)
	}
	return nil
}

// Close releases the store and removes any scratch database.
func (s *session) Close() {
	var errs []error
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	if s.tmpDir != "" {
		errs = append(errs, os.RemoveAll(s.tmpDir))
	}
	if err := errors.Join(errs...); err != nil {
		s.log.Error("error closing database", "error", err)
	}
}

// failed wraps a run error, keeping an existing exit code.
func failed(message string, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return WrapExitError(ExitFailure, message, err)
}

// requireArgs replaces cobra.ExactArgs so that a missing argument prints
// the usage text to stderr before failing.
func requireArgs(names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == len(names) {
			return nil
		}
		fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
		if len(args) < len(names) {
			return NewExitError(ExitCommandError, fmt.Sprintf("missing argument <%s>", names[len(args)]))
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("expected %d argument(s), got %d", len(names), len(args)))
	}
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
