package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyGroupsEquivalentQueries(t *testing.T) {
	dir := filepath.Join("testdata", "queries")
	out, err := execute(t, NewKeyCommand(testOptions("json")), dir)
	require.NoError(t, err)

	var report KeyReport
	decodeData(t, out, &report)
	require.Len(t, report.Queries, 3)
	require.Len(t, report.Groups, 1)
	assert.Equal(t, []string{
		filepath.Join(dir, "cases.yaml") + ": cases",
		filepath.Join(dir, "reordered.yaml") + ": reordered",
	}, report.Groups[0].Members)
	assert.Equal(t, report.Queries[0].Key, report.Groups[0].Key)
	assert.Len(t, report.Groups[0].Key, 64)
}

func TestKeyMatchesBuild(t *testing.T) {
	path := filepath.Join("testdata", "queries", "samples.yaml")
	built := buildJSON(t, testOptions("json"), path)

	out, err := execute(t, NewKeyCommand(testOptions("json")), path)
	require.NoError(t, err)
	var report KeyReport
	decodeData(t, out, &report)

	require.Len(t, report.Queries, 1)
	assert.Equal(t, built[0].Key, report.Queries[0].Key)
	assert.Empty(t, report.Groups)
}

func TestKeyText(t *testing.T) {
	out, err := execute(t, NewKeyCommand(testOptions("text")), filepath.Join("testdata", "queries"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 7)
	short := strings.Fields(lines[0])[0]
	assert.Len(t, short, 12)
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "equivalent "+short, lines[4])
	assert.True(t, strings.HasSuffix(lines[5], "cases.yaml: cases"))
	assert.True(t, strings.HasSuffix(lines[6], "reordered.yaml: reordered"))
}

func TestKeyTextFull(t *testing.T) {
	out, err := execute(t, NewKeyCommand(testOptions("text")), "--full", filepath.Join("testdata", "queries", "samples.yaml"))
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out)[0], 64)
}

func TestKeyCompileFailure(t *testing.T) {
	_, err := execute(t, NewKeyCommand(testOptions("text")), filepath.Join("testdata", "broken"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
