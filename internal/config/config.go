// Package config loads sparqb settings.
//
// Precedence (highest to lowest): flags > SPARQB_* environment > config
// file > defaults. The config file is the one named by --config, or
// sparqb.yaml / sparqb.yml in the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/roach88/sparqb/internal/querydoc"
)

const (
	DefaultFormat  = "text"
	DefaultDialect = string(querydoc.DialectSPARQL)
	DefaultCatalog = ".sparqb/catalog.db"

	envPrefix = "SPARQB_"
)

// FileNames are the config files looked up when --config is not given.
var FileNames = []string{"sparqb.yaml", "sparqb.yml"}

// Config holds all CLI configuration options.
type Config struct {
	Format   string            `koanf:"format"`
	Verbose  bool              `koanf:"verbose"`
	Dialect  string            `koanf:"dialect"`
	Catalog  string            `koanf:"catalog"`
	Prefixes map[string]string `koanf:"prefixes"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// BindFlags declares the flags Load reads on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default sparqb.yaml)")
	fs.String("format", DefaultFormat, "output format: text or json")
	fs.BoolP("verbose", "v", false, "enable debug logging")
	fs.String("dialect", DefaultDialect, "dialect for documents that do not name one: sparql or blazegraph")
	fs.String("catalog", DefaultCatalog, "path to the query catalog database")
}

// findConfigFile finds the config file to use.
// Priority: explicit path > sparqb.yaml > sparqb.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range FileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads configuration from defaults, the config file, the environment
// and flags. flags may be nil; only flags that were explicitly set
// override the other sources.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"format":  DefaultFormat,
		"verbose": false,
		"dialect": DefaultDialect,
		"catalog": DefaultCatalog,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment. SPARQB_CATALOG -> catalog, SPARQB_PREFIXES_TCGA -> prefixes.tcga
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	// A catalog path from the config file is relative to the file.
	if used != "" && !catalogOverridden(flags) && os.Getenv(envPrefix+"CATALOG") == "" {
		cfg.Catalog = resolvePathRelativeTo(cfg.Catalog, filepath.Dir(used))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if token, ok := strings.CutPrefix(key, "prefixes_"); ok {
		return "prefixes." + token
	}
	return key
}

func catalogOverridden(flags *pflag.FlagSet) bool {
	return flags != nil && flags.Changed("catalog")
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Validate checks option values.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (want text or json)", c.Format)
	}
	if _, err := querydoc.ParseDialect(c.Dialect); err != nil {
		return err
	}
	if strings.TrimSpace(c.Catalog) == "" {
		return fmt.Errorf("catalog path is required")
	}
	for token, ns := range c.Prefixes {
		if strings.TrimSpace(token) == "" || strings.TrimSpace(ns) == "" {
			return fmt.Errorf("prefix %q: token and namespace are required", token)
		}
	}
	return nil
}
