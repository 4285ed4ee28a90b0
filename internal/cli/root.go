package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Clock stamps dated outputs. Nil means the wall clock.
	Clock Clock
	// RunIDs names each run in logs and JSON output. Nil means UUIDv7.
	RunIDs RunIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// RunIDGenerator produces a unique id per command run.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run ids.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string. It panics only if the system
// random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (o *RootOptions) clock() Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return systemClock{}
}

func (o *RootOptions) runIDs() RunIDGenerator {
	if o.RunIDs != nil {
		return o.RunIDs
	}
	return UUIDv7Generator{}
}

// NewRootCommand creates the root command for the complexport CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complexport",
		Short: "Export curated protein complexes to flat files",
		Long: `complexport turns a store of curated macromolecular complexes into
flat, tab-separated files: the three complex tables, the GO annotation
file (GAF 2.1 or 2.2) and the binary-interaction cluster.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (.yaml, .toml or .cue)")

	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewGAFCommand(opts))
	cmd.AddCommand(NewClusterCommand(opts))
	cmd.AddCommand(NewLoadCommand(opts))

	return cmd
}
