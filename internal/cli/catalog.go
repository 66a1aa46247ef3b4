package cli

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/sparqb/internal/catalog"
)

// CatalogEntry is the JSON view of a cataloged query.
type CatalogEntry struct {
	Seq     int64  `json:"seq"`
	ID      string `json:"id"`
	Key     string `json:"key"`
	Name    string `json:"name"`
	Dialect string `json:"dialect"`
	QueryID string `json:"query_id,omitempty"`
	SPARQL  string `json:"sparql"`
}

func catalogEntry(e catalog.Entry) CatalogEntry {
	return CatalogEntry{
		Seq:     e.Seq,
		ID:      e.ID,
		Key:     string(e.Key),
		Name:    e.Name,
		Dialect: e.Dialect,
		QueryID: e.QueryID,
		SPARQL:  e.Text,
	}
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect saved queries",
		Long: `Inspect the queries stored with "build --save".

Queries are addressed by their structural key. Any unambiguous key
prefix is accepted.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List saved queries",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(rootOpts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "show <key-prefix>",
		Short:         "Print a saved query",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogShow(rootOpts, args[0], cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "rm <key-prefix>",
		Short:         "Remove a saved query",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogRemove(rootOpts, args[0], cmd)
		},
	})

	return cmd
}

func withCatalog(opts *RootOptions, f *OutputFormatter, fn func(*catalog.Catalog) error) error {
	c, err := openCatalog(opts.Catalog)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeCatalog, err.Error(), nil)
	}
	defer c.Close()
	return fn(c)
}

func runCatalogList(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	return withCatalog(opts, f, func(c *catalog.Catalog) error {
		entries, err := c.List(cmd.Context())
		if err != nil {
			return f.fail(ExitCommandError, ErrCodeCatalog, err.Error(), nil)
		}
		if f.JSON() {
			out := make([]CatalogEntry, len(entries))
			for i, e := range entries {
				out[i] = catalogEntry(e)
			}
			return f.Success(out)
		}
		if len(entries) == 0 {
			f.Printf("(0 queries)\n")
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(f.Writer)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"seq", "key", "name", "dialect", "query id"})
		for _, e := range entries {
			t.AppendRow(table.Row{e.Seq, e.Key.Short(), e.Name, e.Dialect, e.QueryID})
		}
		t.Render()
		return nil
	})
}

func runCatalogShow(opts *RootOptions, prefix string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	return withCatalog(opts, f, func(c *catalog.Catalog) error {
		e, err := c.Resolve(cmd.Context(), prefix)
		if err != nil {
			return resolveFailure(f, prefix, err)
		}
		if f.JSON() {
			return f.Success(catalogEntry(e))
		}
		f.Printf("# %s %s\n%s", e.Name, e.Key.Short(), e.Text)
		return nil
	})
}

func runCatalogRemove(opts *RootOptions, prefix string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	return withCatalog(opts, f, func(c *catalog.Catalog) error {
		e, err := c.Resolve(cmd.Context(), prefix)
		if err != nil {
			return resolveFailure(f, prefix, err)
		}
		if err := c.Delete(cmd.Context(), e.Key); err != nil {
			return f.fail(ExitCommandError, ErrCodeCatalog, err.Error(), nil)
		}
		opts.logger().Info("removed query", "name", e.Name, "key", e.Key.Short())
		if f.JSON() {
			return f.Success(catalogEntry(e))
		}
		f.Printf("removed %s %s\n", e.Key.Short(), e.Name)
		return nil
	})
}

func resolveFailure(f *OutputFormatter, prefix string, err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return f.fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no saved query matches %q", prefix), nil)
	case errors.Is(err, catalog.ErrAmbiguous):
		return f.fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("key prefix %q is ambiguous", prefix), nil)
	}
	return f.fail(ExitCommandError, ErrCodeCatalog, err.Error(), nil)
}
