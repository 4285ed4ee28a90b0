package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/complexport/internal/enrich"
	"github.com/roach88/complexport/internal/export"
	"github.com/roach88/complexport/internal/flatten"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	StoreFlags

	Complexes bool
	Enrich    bool
	ChunkSize int
	MaxDepth  int
	TaxID     int
	Source    string
}

// ExportResult is the outcome of an export run.
type ExportResult struct {
	Prefix string   `json:"prefix"`
	Files  []string `json:"files"`
	export.Stats
}

func (r ExportResult) String() string {
	return fmt.Sprintf("%s: %d complexes exported, %d skipped, %d total",
		r.Prefix, r.Exported, r.Skipped, r.Total)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <prefix>",
		Short: "Write the complex summary, component and PDB tables",
		Long: `Export every stored complex into three tab-separated tables:

  <prefix>_table1.tsv   complex_id, version, names and assembly
  <prefix>_table2.tsv   flattened UniProtKB components with stoichiometry
  <prefix>_table3.tsv   wwPDB identifiers

With --complexes the 18-column <prefix>_complexes.tsv is written as well.
Complexes that cannot be flattened are logged and left out of every table.

Example:
  complexport export --db portal.db out/complexes
  complexport export --fixtures testdata/complexes.yaml --complexes /tmp/cp`,
		Args:          requireArgs("prefix"),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	opts.StoreFlags.register(cmd)
	cmd.Flags().BoolVar(&opts.Complexes, "complexes", false, "also write <prefix>_complexes.tsv")
	cmd.Flags().BoolVar(&opts.Enrich, "enrich", false, "fill missing UniProtKB identities from the interactor table")
	cmd.Flags().IntVar(&opts.ChunkSize, "chunk-size", export.DefaultChunkSize, "complexes fetched per page")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", flatten.DefaultMaxDepth, "deepest allowed complex nesting (0 = unlimited)")
	cmd.Flags().IntVar(&opts.TaxID, "tax-id", 0, "only export complexes of this taxon")
	cmd.Flags().StringVar(&opts.Source, "source", "", "only export complexes from this source")

	return cmd
}

// applyExportFlags overrides config values with flags the user set.
func applyExportFlags(cmd *cobra.Command, opts *ExportOptions, s *session) {
	cfg := &s.cfg.Export
	flags := cmd.Flags()
	if flags.Changed("complexes") {
		cfg.Complexes = opts.Complexes
	}
	if flags.Changed("enrich") {
		cfg.Enrich = opts.Enrich
	}
	if flags.Changed("chunk-size") {
		cfg.ChunkSize = opts.ChunkSize
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = opts.MaxDepth
	}
	if flags.Changed("tax-id") {
		cfg.TaxID = opts.TaxID
	}
	if flags.Changed("source") {
		cfg.Source = opts.Source
	}
}

func runExport(opts *ExportOptions, prefix string, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	applyExportFlags(cmd, opts, s)
	if err := s.cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}
	cfg := s.cfg.Export

	defer s.Close()
	if err := s.openStore(cmd, &opts.StoreFlags, false); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, err := export.OpenTableSink(prefix, cfg.Complexes)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create output files", err)
	}

	var enricher enrich.Enricher = enrich.Noop{}
	if cfg.Enrich {
		enricher = &enrich.StoreEnricher{Lookup: s.store, Logger: s.log}
	}

	exporter := &export.Exporter{
		Source:    s.store,
		Query:     cfg.Query(),
		Enricher:  enricher,
		Assembler: &export.Assembler{Flattener: &flatten.Flattener{MaxDepth: cfg.MaxDepth}},
		ChunkSize: cfg.ChunkSize,
		Logger:    s.log,
	}
	stats, err := exporter.Run(ctx, sink)
	if err != nil {
		return failed("export failed", err)
	}

	summary, components, pdb := export.TablePaths(prefix)
	result := ExportResult{Prefix: prefix, Files: []string{summary, components, pdb}, Stats: stats}
	if cfg.Complexes {
		result.Files = append(result.Files, export.ComplexesPath(prefix))
	}

	s.out.Summary("export", stats.Exported, stats.Skipped)
	return s.out.Success(s.runID, result)
}
