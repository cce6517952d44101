package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	censuserrors "thoreinstein.com/census/pkg/errors"
	"thoreinstein.com/census/pkg/project"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "CENSUS"

// EnvKeyReplacer maps config keys onto environment variable names,
// e.g. scan.max_depth becomes CENSUS_SCAN_MAX_DEPTH.
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// Config represents the application configuration
type Config struct {
	Scan ScanConfig `mapstructure:"scan" toml:"scan"`
	Log  LogConfig  `mapstructure:"log" toml:"log"`
}

// ScanConfig holds directory scan configuration
type ScanConfig struct {
	Root          string         `mapstructure:"root" toml:"root"`                     // Scanned when no path argument is given
	MaxDepth      int            `mapstructure:"max_depth" toml:"max_depth"`           // Max depth to scan (default: 3)
	Format        string         `mapstructure:"format" toml:"format"`                 // "text", "yaml" or "json"
	Exclude       []string       `mapstructure:"exclude" toml:"exclude"`               // Directory names never descended into
	StrictMarkers bool           `mapstructure:"strict_markers" toml:"strict_markers"` // Marker check failures become faults
	ExtraMarkers  []MarkerConfig `mapstructure:"extra_markers" toml:"extra_markers"`   // Appended after the built-in table
}

// MarkerConfig is one configured marker rule
type MarkerConfig struct {
	File string `mapstructure:"file" toml:"file"`
	Type string `mapstructure:"type" toml:"type"`
}

// LogConfig holds diagnostic logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" toml:"level"`   // logrus level name
	Format string `mapstructure:"format" toml:"format"` // "text" or "json"
}

// ValidFormats is the list of supported report formats.
var ValidFormats = []string{"text", "yaml", "json"}

// ValidLogFormats is the list of supported log formats.
var ValidLogFormats = []string{"text", "json"}

// DefaultExclude is the default scan.exclude list.
var DefaultExclude = []string{".git", "node_modules", "vendor", ".terraform", ".idea", ".vscode"}

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	config := &Config{}

	setDefaults()

	if err := viper.Unmarshal(config); err != nil {
		return nil, censuserrors.NewConfigErrorWithCause("", "failed to unmarshal config", err)
	}

	if err := expandPaths(config); err != nil {
		return nil, errors.Wrap(err, "failed to expand paths")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return config, nil
}

// Default returns the configuration with every default applied.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Root:     ".",
			MaxDepth: 3,
			Format:   "text",
			Exclude:  append([]string(nil), DefaultExclude...),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

func oneOf(value string, valid []string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}

// Validate validates the configuration and returns any validation errors.
func (c *Config) Validate() error {
	if c.Scan.MaxDepth < 0 {
		return censuserrors.NewConfigError("scan.max_depth", "must not be negative")
	}
	if !oneOf(c.Scan.Format, ValidFormats) {
		return censuserrors.NewConfigError("scan.format",
			fmt.Sprintf("invalid format %q: must be one of: %s", c.Scan.Format, strings.Join(ValidFormats, ", ")))
	}
	for _, name := range c.Scan.Exclude {
		if name == "" || strings.ContainsRune(name, filepath.Separator) {
			return censuserrors.NewConfigError("scan.exclude", fmt.Sprintf("entries must be plain directory names, got %q", name))
		}
	}
	if _, err := c.Scan.Rules(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return censuserrors.NewConfigErrorWithCause("log.level", fmt.Sprintf("unknown level %q", c.Log.Level), err)
	}
	if !oneOf(c.Log.Format, ValidLogFormats) {
		return censuserrors.NewConfigError("log.format", "must be one of: "+strings.Join(ValidLogFormats, ", "))
	}
	return nil
}

// Rules converts the configured extra markers into detector rules.
func (s ScanConfig) Rules() ([]project.MarkerRule, error) {
	rules := make([]project.MarkerRule, 0, len(s.ExtraMarkers))
	for i, m := range s.ExtraMarkers {
		typ, err := project.ParseType(m.Type)
		if err != nil {
			return nil, censuserrors.NewConfigErrorWithCause(extraMarkerField(i, "type"), fmt.Sprintf("unknown project type %q", m.Type), err)
		}
		rule := project.MarkerRule{Marker: m.File, Type: typ}
		if err := project.ValidateRule(rule); err != nil {
			return nil, censuserrors.NewConfigErrorWithCause(extraMarkerField(i, "file"), fmt.Sprintf("invalid marker %q", m.File), err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// ExclusionSet returns the exclude list as a lookup set.
func (s ScanConfig) ExclusionSet() map[string]bool {
	set := make(map[string]bool, len(s.Exclude))
	for _, name := range s.Exclude {
		set[name] = true
	}
	return set
}

func extraMarkerField(i int, key string) string {
	return fmt.Sprintf("scan.extra_markers[%d].%s", i, key)
}

// setDefaults sets default configuration values
func setDefaults() {
	d := Default()

	// Scan defaults
	viper.SetDefault("scan.root", d.Scan.Root)
	viper.SetDefault("scan.max_depth", d.Scan.MaxDepth)
	viper.SetDefault("scan.format", d.Scan.Format)
	viper.SetDefault("scan.exclude", d.Scan.Exclude)
	viper.SetDefault("scan.strict_markers", false)
	viper.SetDefault("scan.extra_markers", []MarkerConfig{})

	// Log defaults
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)
}

// expandPaths expands ~ and environment variables in paths
func expandPaths(config *Config) error {
	var err error

	config.Scan.Root, err = expandPath(os.ExpandEnv(config.Scan.Root))
	if err != nil {
		return err
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, path[1:]), nil
}
