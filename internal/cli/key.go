package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/sparqb/internal/ir"
)

// KeyOptions holds flags for the key command.
type KeyOptions struct {
	*RootOptions
	Full bool
}

// KeyEntry is the structural key of one document.
type KeyEntry struct {
	File string `json:"file"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

// KeyGroup lists documents that share a structural key.
type KeyGroup struct {
	Key     string   `json:"key"`
	Members []string `json:"members"`
}

// KeyReport is the output of the key command.
type KeyReport struct {
	Queries []KeyEntry `json:"queries"`
	Groups  []KeyGroup `json:"groups"`
}

// NewKeyCommand creates the key command.
func NewKeyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KeyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "key <file|dir>...",
		Short: "Print structural keys and equivalent queries",
		Long: `Print the structural key of every query document.

Documents whose queries differ only in the order of commutative parts
(triples in a group, union branches, filters) share a key and are listed
together as an equivalence group.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKey(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Full, "full", false, "print full keys instead of short ones")

	return cmd
}

func runKey(opts *KeyOptions, paths []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	results, err := loadAndCompile(cmd, opts.RootOptions, f, paths)
	if err != nil {
		return err
	}
	if err := requireCompiled(f, results); err != nil {
		return err
	}

	report := keyReport(results)
	if f.JSON() {
		return f.Success(report)
	}

	show := shortKey
	if opts.Full {
		show = func(k string) string { return k }
	}
	for _, q := range report.Queries {
		f.Printf("%s  %s: %s\n", show(q.Key), q.File, q.Name)
	}
	for _, g := range report.Groups {
		f.Printf("\nequivalent %s\n", show(g.Key))
		for _, m := range g.Members {
			f.Printf("  %s\n", m)
		}
	}
	return nil
}

// keyReport lists keys in input order and groups documents sharing a key.
// Groups are ordered by their first member.
func keyReport(results []result) KeyReport {
	report := KeyReport{Queries: []KeyEntry{}, Groups: []KeyGroup{}}
	members := map[string][]string{}
	var order []string
	for _, r := range results {
		key := string(r.Out.Key())
		report.Queries = append(report.Queries, KeyEntry{File: r.File, Name: r.Doc.Name, Key: key})
		if _, ok := members[key]; !ok {
			order = append(order, key)
		}
		members[key] = append(members[key], r.Label())
	}
	for _, key := range order {
		if len(members[key]) > 1 {
			report.Groups = append(report.Groups, KeyGroup{Key: key, Members: members[key]})
		}
	}
	return report
}

func shortKey(k string) string { return ir.Key(k).Short() }
