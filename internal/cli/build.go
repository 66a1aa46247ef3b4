package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sparqb/internal/catalog"
	"github.com/roach88/sparqb/internal/ir"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Unique bool
	Save   bool
	OutDir string
}

// BuildResult is one rendered query.
type BuildResult struct {
	File        string `json:"file"`
	Name        string `json:"name"`
	Dialect     string `json:"dialect"`
	Key         string `json:"key"`
	QueryID     string `json:"query_id,omitempty"`
	SPARQL      string `json:"sparql"`
	DuplicateOf string `json:"duplicate_of,omitempty"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <file|dir>...",
		Short: "Render query documents as SPARQL",
		Long: `Compile query documents and print the SPARQL text of each query.

A query that is structurally equal to an earlier one is marked as its
duplicate; --unique drops such queries from the output.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Unique, "unique", false, "drop structurally duplicate queries")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "store the queries in the catalog")
	cmd.Flags().StringVarP(&opts.OutDir, "out-dir", "o", "", "also write each query to <dir>/<name>.sparql")

	return cmd
}

func runBuild(opts *BuildOptions, paths []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	log := opts.logger()

	results, err := loadAndCompile(cmd, opts.RootOptions, f, paths)
	if err != nil {
		return err
	}
	if err := requireCompiled(f, results); err != nil {
		return err
	}

	built := buildResults(results)
	if opts.Unique {
		kept := built[:0]
		for _, b := range built {
			if b.DuplicateOf == "" {
				kept = append(kept, b)
			} else {
				log.Debug("dropped duplicate", "document", b.Name, "duplicate_of", b.DuplicateOf)
			}
		}
		built = kept
	}

	if opts.OutDir != "" {
		if err := writeQueries(opts.OutDir, built); err != nil {
			return f.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
	}

	if opts.Save {
		if err := saveQueries(cmd, opts.RootOptions, built); err != nil {
			return f.fail(ExitCommandError, ErrCodeCatalog, err.Error(), nil)
		}
	}

	if f.JSON() {
		return f.Success(built)
	}
	for i, b := range built {
		if i > 0 {
			f.Printf("\n")
		}
		f.Printf("# %s (%s) %s", b.Name, b.File, shortKey(b.Key))
		if b.DuplicateOf != "" {
			f.Printf(" duplicate of %s", b.DuplicateOf)
		}
		f.Printf("\n%s", b.SPARQL)
		if !strings.HasSuffix(b.SPARQL, "\n") {
			f.Printf("\n")
		}
	}
	return nil
}

// buildResults renders compiled results and marks structural duplicates.
func buildResults(results []result) []BuildResult {
	first := map[string]string{}
	built := make([]BuildResult, 0, len(results))
	for _, r := range results {
		key := string(r.Out.Key())
		b := BuildResult{
			File:    r.File,
			Name:    r.Doc.Name,
			Dialect: string(r.Out.Dialect),
			Key:     key,
			QueryID: r.Out.QueryID,
			SPARQL:  r.Out.SPARQL(),
		}
		if prev, ok := first[key]; ok {
			b.DuplicateOf = prev
		} else {
			first[key] = b.Name
		}
		built = append(built, b)
	}
	return built
}

func writeQueries(dir string, built []BuildResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, b := range built {
		path := filepath.Join(dir, fileName(b.Name)+".sparql")
		if err := os.WriteFile(path, []byte(b.SPARQL), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// fileName makes a document name safe to use as a file name.
func fileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '_'
		}
		return r
	}, name)
}

func saveQueries(cmd *cobra.Command, opts *RootOptions, built []BuildResult) error {
	c, err := openCatalog(opts.Catalog)
	if err != nil {
		return err
	}
	defer c.Close()

	log := opts.logger()
	for _, b := range built {
		if b.DuplicateOf != "" {
			continue
		}
		e, created, err := c.Put(cmd.Context(), catalog.Entry{
			Key:     ir.Key(b.Key),
			Name:    b.Name,
			Dialect: b.Dialect,
			QueryID: b.QueryID,
			Text:    b.SPARQL,
		})
		if err != nil {
			return err
		}
		log.Info("saved query", "name", b.Name, "key", shortKey(b.Key), "seq", e.Seq, "created", created)
	}
	return nil
}

// openCatalog opens the catalog, creating its directory if needed.
func openCatalog(path string) (*catalog.Catalog, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}
	return catalog.Open(path)
}
