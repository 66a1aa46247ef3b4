package querydoc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// LoadError reports a file that could not be read or decoded.
type LoadError struct {
	File    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Extensions lists the file extensions LoadFile understands.
var Extensions = []string{".yaml", ".yml", ".json", ".cue"}

// LoadFile reads every document in path. The format follows the file
// extension. Documents without a name are named after the file (with an
// index suffix when the file holds several).
func LoadFile(path string) ([]*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: err.Error()}
	}

	var docs []*Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		docs, err = Decode(bytes.NewReader(data))
		if err != nil {
			return nil, &LoadError{File: path, Message: err.Error()}
		}
	case ".cue":
		docs, err = DecodeCUE(path, data)
		if err != nil {
			return nil, err
		}
	default:
		return nil, &LoadError{File: path, Message: fmt.Sprintf("unsupported file extension %q", ext)}
	}

	if len(docs) == 0 {
		return nil, &LoadError{File: path, Message: "no query documents found"}
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i, doc := range docs {
		if doc.Name != "" {
			continue
		}
		if len(docs) == 1 {
			doc.Name = base
		} else {
			doc.Name = fmt.Sprintf("%s-%d", base, i+1)
		}
	}
	return docs, nil
}

// DecodeCUE evaluates a CUE source and decodes the resulting concrete value.
// The value is exported as JSON, so CUE definitions, constraints and
// comprehensions may be used freely as long as the result is concrete.
func DecodeCUE(filename string, src []byte) ([]*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, cueLoadError(filename, err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(filename, err)
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return nil, cueLoadError(filename, err)
	}
	docs, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &LoadError{File: filename, Message: err.Error()}
	}
	return docs, nil
}

// cueLoadError extracts position info from CUE errors.
func cueLoadError(filename string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{File: filename, Message: err.Error()}
	}

	// Report the first error with position info
	first := errs[0]
	loadErr := &LoadError{File: filename, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}

// FindFiles walks dir and returns every file with a known extension, in
// lexical order.
func FindFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, known := range Extensions {
			if ext == known {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	return files, err
}
