package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparqb/internal/testutil"
)

// execute runs cmd with args and returns its stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeData unmarshals the data of an ok JSON response into v.
func decodeData(t *testing.T, out string, v any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func testOptions(format string) *RootOptions {
	return &RootOptions{Format: format, IDs: testutil.NewSequentialIDs()}
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "sparqb", cmd.Use)
	assert.Contains(t, cmd.Long, "structural key")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"build"},
		{"key"},
		{"validate"},
		{"catalog"},
		{"catalog", "list"},
		{"catalog", "show"},
		{"catalog", "rm"},
	}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dialectFlag := cmd.PersistentFlags().Lookup("dialect")
	require.NotNil(t, dialectFlag)
	assert.Equal(t, "sparql", dialectFlag.DefValue)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("catalog"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestBuildCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	buildCmd, _, err := cmd.Find([]string{"build"})
	require.NoError(t, err)

	outFlag := buildCmd.Flags().Lookup("out-dir")
	require.NotNil(t, outFlag)
	assert.Equal(t, "o", outFlag.Shorthand)
	assert.NotNil(t, buildCmd.Flags().Lookup("unique"))
	assert.NotNil(t, buildCmd.Flags().Lookup("save"))
}

func TestValidateCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	validateCmd, _, err := cmd.Find([]string{"validate"})
	require.NoError(t, err)

	strictFlag := validateCmd.Flags().Lookup("strict")
	require.NotNil(t, strictFlag)
	assert.Equal(t, "false", strictFlag.DefValue)
}

func TestRootAppliesGlobalFlags(t *testing.T) {
	path := testdataPath(t, "queries", "samples.yaml")
	t.Chdir(t.TempDir())
	cmd := NewRootCommand()

	out, err := execute(t, cmd, "--format", "json", "key", path)
	require.NoError(t, err)

	var report KeyReport
	decodeData(t, out, &report)
	require.Len(t, report.Queries, 1)
	assert.Equal(t, "samples", report.Queries[0].Name)
}

func TestRootRejectsInvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	cmd := NewRootCommand()

	_, err := execute(t, cmd, "--format", "xml", "key", "x.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid configuration")
}
