package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testdataPath returns the absolute path of a file under testdata.
func testdataPath(t *testing.T, parts ...string) string {
	t.Helper()
	p, err := filepath.Abs(filepath.Join(append([]string{"testdata"}, parts...)...))
	require.NoError(t, err)
	return p
}

func buildJSON(t *testing.T, opts *RootOptions, args ...string) []BuildResult {
	t.Helper()
	out, err := execute(t, NewBuildCommand(opts), args...)
	require.NoError(t, err)
	var built []BuildResult
	decodeData(t, out, &built)
	return built
}

func TestBuildText(t *testing.T) {
	path := filepath.Join("testdata", "queries", "samples.yaml")
	out, err := execute(t, NewBuildCommand(testOptions("text")), path)
	require.NoError(t, err)

	lines := strings.SplitN(out, "\n", 2)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "# samples ("+path+") "))
	assert.Contains(t, lines[1], "PREFIX tcga: <https://example.org/tcga#>")
	assert.Contains(t, lines[1], "?s a tcga:Sample")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestBuildMarksDuplicates(t *testing.T) {
	built := buildJSON(t, testOptions("json"), filepath.Join("testdata", "queries"))
	require.Len(t, built, 3)

	byName := map[string]BuildResult{}
	for _, b := range built {
		byName[b.Name] = b
	}
	assert.Equal(t, byName["cases"].Key, byName["reordered"].Key)
	assert.NotEqual(t, byName["cases"].SPARQL, byName["reordered"].SPARQL)
	assert.Empty(t, byName["cases"].DuplicateOf)
	assert.Equal(t, "cases", byName["reordered"].DuplicateOf)
	assert.NotEqual(t, byName["cases"].Key, byName["samples"].Key)
	assert.Equal(t, "sparql", byName["samples"].Dialect)
}

func TestBuildUnique(t *testing.T) {
	built := buildJSON(t, testOptions("json"), "--unique", filepath.Join("testdata", "queries"))
	names := make([]string, len(built))
	for i, b := range built {
		names[i] = b.Name
	}
	assert.Equal(t, []string{"cases", "samples"}, names)
}

func TestBuildQueryID(t *testing.T) {
	built := buildJSON(t, testOptions("json"), filepath.Join("testdata", "vendor"))
	require.Len(t, built, 1)
	assert.Equal(t, "blazegraph", built[0].Dialect)
	assert.Equal(t, "test-query-0001", built[0].QueryID)
	assert.Contains(t, built[0].SPARQL, "test-query-0001")
}

func TestBuildOutDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	_, err := execute(t, NewBuildCommand(testOptions("text")), "-o", dir, filepath.Join("testdata", "queries"))
	require.NoError(t, err)

	for _, name := range []string{"cases", "reordered", "samples"} {
		data, err := os.ReadFile(filepath.Join(dir, name+".sparql"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "select ")
	}
}

func TestBuildCompileFailure(t *testing.T) {
	out, err := execute(t, NewBuildCommand(testOptions("text")), filepath.Join("testdata", "broken"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeCompileFailed)
	assert.Contains(t, out, "bad.yaml: bad")
	assert.Contains(t, out, "unknown pattern")
}

func TestBuildMissingPath(t *testing.T) {
	_, err := execute(t, NewBuildCommand(testOptions("text")), "/nonexistent/query.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}

func TestBuildEmptyDirectory(t *testing.T) {
	_, err := execute(t, NewBuildCommand(testOptions("text")), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}

func TestBuildLoadFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("select: [s\n"), 0o644))

	_, err := execute(t, NewBuildCommand(testOptions("text")), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeLoadFailed)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "cases", fileName("cases"))
	assert.Equal(t, "batch_samples_x", fileName("batch/samples x"))
}
