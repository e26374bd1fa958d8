// Package config loads sorter settings with the precedence command line >
// configuration file > built-in default. A missing or unreadable config file
// is not fatal, execution continues with the remaining sources.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file consulted when no --config flag is given.
const DefaultPath = "config.yaml"

type Config struct {
	InputFile         string
	OutputFile        string
	TmpFilesDirectory string
	Order             string
	WordWrap          int
	MaxTempFiles      int
	CompressRuns      bool
	VerifyRuns        bool
}

// fileConfig mirrors Config with pointer fields so a key that is absent from
// the file can be told apart from an explicit zero value ("wordWrap: 0"
// wraps after every word, it is not the default of 100).
type fileConfig struct {
	InputFile         *string `yaml:"inputFile"`
	OutputFile        *string `yaml:"outputFile"`
	TmpFilesDirectory *string `yaml:"tmpFilesDirectory"`
	Order             *string `yaml:"order"`
	WordWrap          *int    `yaml:"wordWrap"`
	MaxTempFiles      *int    `yaml:"maxTempFiles"`
	CompressRuns      *bool   `yaml:"compressRuns"`
	VerifyRuns        *bool   `yaml:"verifyRuns"`
}

func Default() *Config {
	return &Config{
		TmpFilesDirectory: ".",
		Order:             "asc",
		WordWrap:          100,
		MaxTempFiles:      1024,
	}
}

// Load reads the config file at path over the built-in defaults. Keys absent
// from the file keep their defaults; keys present in the file are honored
// even when set to a zero value. When the file does not exist the defaults
// are returned with a nil error. Any other failure returns the defaults
// together with the error so the caller can log a warning and continue.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Default(), fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Default(), fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.InputFile != nil {
		cfg.InputFile = *fc.InputFile
	}
	if fc.OutputFile != nil {
		cfg.OutputFile = *fc.OutputFile
	}
	if fc.TmpFilesDirectory != nil {
		cfg.TmpFilesDirectory = *fc.TmpFilesDirectory
	}
	if fc.Order != nil {
		cfg.Order = *fc.Order
	}
	if fc.WordWrap != nil {
		cfg.WordWrap = *fc.WordWrap
	}
	if fc.MaxTempFiles != nil {
		cfg.MaxTempFiles = *fc.MaxTempFiles
	}
	if fc.CompressRuns != nil {
		cfg.CompressRuns = *fc.CompressRuns
	}
	if fc.VerifyRuns != nil {
		cfg.VerifyRuns = *fc.VerifyRuns
	}

	return cfg, nil
}

// Validate reports missing required settings before any I/O begins.
func (c *Config) Validate() error {
	var missing []string
	if c.InputFile == "" {
		missing = append(missing, "Input file")
	}
	if c.OutputFile == "" {
		missing = append(missing, "Output file")
	}
	if len(missing) > 0 {
		return fmt.Errorf("The following parameters are required: %s", strings.Join(missing, ", "))
	}
	return nil
}
