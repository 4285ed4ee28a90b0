package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/complexport/internal/store"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	Database string
}

// LoadResult is the outcome of a load run.
type LoadResult struct {
	Database string `json:"database"`
	Fixtures string `json:"fixtures"`
	store.LoadStats
}

func (r LoadResult) String() string {
	return fmt.Sprintf("%s: loaded %d interactors, %d complexes, %d evidences",
		r.Database, r.Interactors, r.Complexes, r.Evidences)
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load <fixtures.yaml>",
		Short: "Seed a database from YAML fixtures",
		Long: `Load interactors, complexes and interaction evidences from a YAML
fixtures file into a SQLite database, creating it if needed. Existing
records with the same accession are replaced.

Example:
  complexport load --db portal.db testdata/complexes.yaml`,
		Args:          requireArgs("fixtures.yaml"),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")

	return cmd
}

func runLoad(opts *LoadOptions, fixtures string, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	defer s.Close()
	// Fixtures are the command's argument here, not a pre-load step.
	if err := s.openStore(cmd, &StoreFlags{Database: opts.Database}, true); err != nil {
		return err
	}

	stats, err := s.store.LoadFixtures(commandContext(cmd), fixtures)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load fixtures", err)
	}
	s.log.Info("fixtures loaded", "path", fixtures,
		"interactors", stats.Interactors, "complexes", stats.Complexes, "evidences", stats.Evidences)

	database := s.cfg.Database
	if cmd.Flags().Changed("db") {
		database = opts.Database
	}
	return s.out.Success(s.runID, LoadResult{Database: database, Fixtures: fixtures, LoadStats: stats})
}
