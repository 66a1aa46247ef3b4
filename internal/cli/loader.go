package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/sparqb/internal/querydoc"
)

// LoadError is a load failure with its CLI error code.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string { return e.Message }

// source is one document and the file it came from.
type source struct {
	File string
	Doc  *querydoc.Document
}

// loadSources reads every document named by paths. Directories are searched
// for known document extensions.
func loadSources(paths []string) ([]source, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s: %v", path, err)}
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := querydoc.FindFiles(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: "no query documents found"}
	}

	var sources []source
	for _, file := range files {
		docs, err := querydoc.LoadFile(file)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}
		}
		for _, doc := range docs {
			sources = append(sources, source{File: file, Doc: doc})
		}
	}
	return sources, nil
}

// result is the outcome of compiling one source.
type result struct {
	source
	Out *querydoc.Compiled
	Err error
}

// Label names the document in messages: "file: name".
func (r result) Label() string { return r.File + ": " + r.Doc.Name }

// compileAll compiles sources concurrently. Results keep source order.
func compileAll(ctx context.Context, c *querydoc.Compiler, sources []source) ([]result, error) {
	results := make([]result, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := c.Compile(src.Doc)
			results[i] = result{source: src, Out: out, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// failures lists the compile errors of results.
func failures(results []result) []string {
	var lines []string
	for _, r := range results {
		if r.Err != nil {
			lines = append(lines, r.Label()+": "+r.Err.Error())
		}
	}
	return lines
}

// loadAndCompile runs loadSources and compileAll, reporting load errors
// through f.
func loadAndCompile(cmd *cobra.Command, opts *RootOptions, f *OutputFormatter, paths []string) ([]result, error) {
	sources, err := loadSources(paths)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, f.fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
		}
		return nil, f.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	opts.logger().Debug("loaded documents", "files", len(paths), "documents", len(sources))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := compileAll(ctx, opts.compiler(), sources)
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	for _, r := range results {
		if r.Err != nil {
			opts.logger().Debug("compile failed", "file", r.File, "document", r.Doc.Name, "err", r.Err)
		}
	}
	return results, nil
}

// requireCompiled fails with E006 if any result has an error.
func requireCompiled(f *OutputFormatter, results []result) error {
	lines := failures(results)
	if len(lines) == 0 {
		return nil
	}
	return f.fail(ExitFailure, ErrCodeCompileFailed, fmt.Sprintf("%d document(s) failed to compile", len(lines)), lines)
}
