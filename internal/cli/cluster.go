package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/complexport/internal/cluster"
	"github.com/roach88/complexport/internal/export"
)

// ClusterOptions holds flags for the cluster command.
type ClusterOptions struct {
	*RootOptions
	StoreFlags

	Exclude              []string
	ExcludeSelf          bool
	ExcludeSpokeExpanded bool
	Taxa                 []int
	MinEvidence          int
}

// ClusterResult is the outcome of a cluster run.
type ClusterResult struct {
	Input        string        `json:"input"`
	Output       string        `json:"output"`
	Interactions int           `json:"interactions"`
	Skipped      []int         `json:"skipped,omitempty"`
	Stats        cluster.Stats `json:"stats"`
}

func (r ClusterResult) String() string {
	return fmt.Sprintf("%s: %d binary interactions from %d records (%d accepted)",
		r.Output, r.Interactions, r.Stats.Read, r.Stats.Accepted)
}

// NewClusterCommand creates the cluster command.
func NewClusterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClusterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cluster <mitab> <output>",
		Short: "Merge MITAB evidence into unique binary protein pairs",
		Long: `Read a PSI-MI TAB file (plain or gzip), keep binary evidence between
UniProtKB proteins and merge it into one row per unordered protein pair.

Spoke-expanded evidence is recognized through the stored interaction
evidences, so the database (or --fixtures) must carry them.

Example:
  complexport cluster --db portal.db intact.txt clustered.tsv
  complexport cluster --exclude EBI-123 --exclude-self intact.txt.gz out.tsv`,
		Args:          requireArgs("mitab", "output"),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCluster(opts, args[0], args[1], cmd)
		},
	}

	opts.StoreFlags.register(cmd)
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "interaction accessions to leave out")
	cmd.Flags().BoolVar(&opts.ExcludeSelf, "exclude-self", false, "drop self interactions")
	cmd.Flags().BoolVar(&opts.ExcludeSpokeExpanded, "exclude-spoke-expanded", false, "drop spoke-expanded evidence")
	cmd.Flags().IntSliceVar(&opts.Taxa, "taxon", nil, "keep pairs with at least one side in these taxa")
	cmd.Flags().IntVar(&opts.MinEvidence, "min-evidence", 1, "minimum distinct interaction accessions per pair")

	return cmd
}

func runCluster(opts *ClusterOptions, input, output string, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	cfg := &s.cfg.Cluster
	flags := cmd.Flags()
	if flags.Changed("exclude") {
		cfg.Excluded = append(cfg.Excluded, opts.Exclude...)
	}
	if flags.Changed("exclude-self") {
		cfg.ExcludeSelf = opts.ExcludeSelf
	}
	if flags.Changed("exclude-spoke-expanded") {
		cfg.ExcludeSpokeExpanded = opts.ExcludeSpokeExpanded
	}
	if flags.Changed("taxon") {
		cfg.Taxa = opts.Taxa
	}
	if flags.Changed("min-evidence") {
		cfg.MinEvidence = opts.MinEvidence
	}
	if err := s.cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}

	in, err := os.Open(input)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open MITAB input", err)
	}
	defer in.Close()

	reader, err := cluster.NewReader(in)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read MITAB input", err)
	}
	defer reader.Close()

	defer s.Close()
	if err := s.openStore(cmd, &opts.StoreFlags, false); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	filter := cluster.NewFilter(s.store, cluster.Options{
		ExcludeSelf:          cfg.ExcludeSelf,
		ExcludeSpokeExpanded: cfg.ExcludeSpokeExpanded,
		Taxa:                 cfg.Taxa,
		Excluded:             cfg.Excluded,
		MinEvidence:          cfg.MinEvidence,
	}, s.log)

	s.log.Info("cluster starting", "input", input)
	result, err := cluster.Run(ctx, reader, filter)
	if err != nil {
		return failed("cluster failed", err)
	}

	out, err := export.CreateOutput(output)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create output file", err)
	}
	skipped, err := cluster.WriteClusterTSV(out, result)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return failed("write cluster", err)
	}
	for _, id := range skipped {
		s.log.Warn("skipping interaction", "id", id)
	}

	stats := filter.Stats()
	s.log.Info("cluster finished", "read", stats.Read, "accepted", stats.Accepted, "pairs", len(result.Interactions))
	s.out.Summary("cluster", len(result.Interactions)-len(skipped), len(skipped))
	return s.out.Success(s.runID, ClusterResult{
		Input:        input,
		Output:       output,
		Interactions: len(result.Interactions) - len(skipped),
		Skipped:      skipped,
		Stats:        stats,
	})
}
