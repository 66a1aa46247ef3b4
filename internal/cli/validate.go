package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Strict bool
}

// ValidateReport is the validation outcome for one document.
type ValidateReport struct {
	File     string   `json:"file"`
	Name     string   `json:"name"`
	Valid    bool     `json:"valid"`
	Portable bool     `json:"portable"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <file|dir>...",
		Short: "Check that query documents compile and are portable",
		Long: `Compile every query document and report portability warnings.

A document fails validation if it does not compile. With --strict,
documents using vendor extensions or suspicious constructs fail too.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "treat portability warnings as failures")

	return cmd
}

func runValidate(opts *ValidateOptions, paths []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	log := opts.logger()

	results, err := loadAndCompile(cmd, opts.RootOptions, f, paths)
	if err != nil {
		return err
	}

	reports := make([]ValidateReport, 0, len(results))
	var broken, nonPortable []string
	for _, r := range results {
		rep := ValidateReport{File: r.File, Name: r.Doc.Name}
		if r.Err != nil {
			rep.Error = r.Err.Error()
			broken = append(broken, r.Label()+": "+rep.Error)
		} else {
			v := r.Out.Validate()
			rep.Valid = true
			rep.Portable = v.IsPortable
			rep.Warnings = v.Warnings
			if !v.IsPortable {
				nonPortable = append(nonPortable, r.Label())
				log.Debug("not portable", "file", r.File, "document", r.Doc.Name, "warnings", len(v.Warnings))
			}
		}
		reports = append(reports, rep)
	}

	if !f.JSON() {
		for _, rep := range reports {
			label := rep.File + ": " + rep.Name
			switch {
			case !rep.Valid:
				f.Printf("FAIL %s\n  %s\n", label, rep.Error)
			case !rep.Portable:
				f.Printf("WARN %s\n", label)
				for _, w := range rep.Warnings {
					f.Printf("  %s\n", w)
				}
			default:
				f.Printf("ok   %s\n", label)
			}
		}
	}

	details := any(broken)
	if f.JSON() {
		details = reports
	}
	if len(broken) > 0 {
		return f.fail(ExitFailure, ErrCodeCompileFailed, fmt.Sprintf("%d document(s) failed to compile", len(broken)), details)
	}
	if opts.Strict && len(nonPortable) > 0 {
		if !f.JSON() {
			details = nonPortable
		}
		return f.fail(ExitFailure, ErrCodeNotPortable, fmt.Sprintf("%d document(s) are not portable", len(nonPortable)), details)
	}
	if f.JSON() {
		return f.Success(reports)
	}
	f.Printf("%d document(s) valid\n", len(reports))
	return nil
}
