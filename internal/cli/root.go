package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/sparqb/internal/config"
	"github.com/roach88/sparqb/internal/querydoc"
)

// RootOptions holds the resolved global settings for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Dialect  string
	Catalog  string
	Prefixes map[string]string

	// Logger receives diagnostics on stderr. Nil discards them.
	Logger *slog.Logger

	// IDs generates "auto" query ids. Nil means random UUIDs.
	IDs querydoc.IDGenerator
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

func (o *RootOptions) compiler() *querydoc.Compiler {
	return &querydoc.Compiler{
		IDs:      o.IDs,
		Dialect:  querydoc.Dialect(o.Dialect),
		Prefixes: o.Prefixes,
	}
}

// newLogger builds the stderr logger: Debug when verbose, Warn otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewRootCommand creates the root command for the sparqb CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sparqb",
		Short: "sparqb - composable SPARQL queries",
		Long: `Build SPARQL SELECT queries from YAML, JSON or CUE query documents.

Queries are rendered deterministically and identified by a structural key,
so equivalent queries can be found, deduplicated and cataloged.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			opts.Verbose = cfg.Verbose
			opts.Format = cfg.Format
			opts.Dialect = cfg.Dialect
			opts.Catalog = cfg.Catalog
			opts.Prefixes = cfg.Prefixes
			opts.Logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.File != "" {
				opts.Logger.Debug("loaded config", "file", cfg.File)
			}
			return nil
		},
	}

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewKeyCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))

	return cmd
}
