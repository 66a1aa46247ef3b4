package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sparqb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.Equal(t, DefaultCatalog, cfg.Catalog)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.File)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
format: json
dialect: blazegraph
catalog: queries.db
prefixes:
  tcga: https://example.org/tcga#
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "blazegraph", cfg.Dialect)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "queries.db"), cfg.Catalog)
	assert.Equal(t, map[string]string{"tcga": "https://example.org/tcga#"}, cfg.Prefixes)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_FindsFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sparqb.yml"), []byte("format: json\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "sparqb.yml", cfg.File)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "format: json\ncatalog: from-file.db\n")
	t.Setenv("SPARQB_FORMAT", "text")
	t.Setenv("SPARQB_CATALOG", "/tmp/from-env.db")
	t.Setenv("SPARQB_PREFIXES_RDFS", "http://www.w3.org/2000/01/rdf-schema#")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "/tmp/from-env.db", cfg.Catalog)
	assert.Equal(t, "http://www.w3.org/2000/01/rdf-schema#", cfg.Prefixes["rdfs"])
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	path := writeConfig(t, "format: json\ndialect: blazegraph\n")
	t.Setenv("SPARQB_DIALECT", "blazegraph")

	cfg, err := Load(path, parseFlags(t, "--dialect", "sparql", "-v", "--catalog", "flag.db"))
	require.NoError(t, err)
	assert.Equal(t, "sparql", cfg.Dialect)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "flag.db", cfg.Catalog)
	assert.Equal(t, "json", cfg.Format, "unset flags keep lower-precedence values")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"format", "format: xml\n", `invalid format "xml"`},
		{"dialect", "dialect: virtuoso\n", `unknown dialect "virtuoso"`},
		{"prefix", "prefixes:\n  tcga: \"\"\n", `prefix "tcga"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), nil)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.ErrorContains(t, err, "error reading config file")
}
