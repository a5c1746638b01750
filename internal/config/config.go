// Package config loads the generator configuration from a YAML file
package config

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/redhat/swagdoc-mcp-golang/internal/openapi"
)

// Config is the top-level generator configuration
type Config struct {
	Source   Source           `yaml:"source"`
	Output   Output           `yaml:"output"`
	Info     *openapi.Info    `yaml:"info,omitempty"`
	Servers  []openapi.Server `yaml:"servers,omitempty"`
	Tags     []openapi.Tag    `yaml:"tags,omitempty"`
	LogLevel string           `yaml:"log_level"`
}

// Source describes which files are scanned for annotations
type Source struct {
	Dir       string   `yaml:"dir"`
	Include   []string `yaml:"include"`
	Exclude   []string `yaml:"exclude"`
	Recursive bool     `yaml:"recursive"`
	Workers   int      `yaml:"workers"`
}

// Output describes where and how the document is written
type Output struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
	Verify bool   `yaml:"verify"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Source: Source{
			Dir:     "src",
			Include: []string{"*.go"},
			Workers: 4,
		},
		Output: Output{
			Path:   "openapi.yaml",
			Format: openapi.FormatYAML,
		},
		LogLevel: zerolog.LevelInfoValue,
	}
}

// Load reads the configuration at path on fs, filling unset values from
// Default. An empty path returns the defaults
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later in the pipeline
func (c *Config) Validate() error {
	var errs []error

	if c.Source.Dir == "" {
		errs = append(errs, errors.New("source.dir is required"))
	}
	if c.Source.Workers < 1 {
		errs = append(errs, fmt.Errorf("source.workers must be at least 1, got %d", c.Source.Workers))
	}
	if len(c.Source.Include) == 0 {
		errs = append(errs, errors.New("source.include must list at least one pattern"))
	}
	for _, pattern := range append(append([]string{}, c.Source.Include...), c.Source.Exclude...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("invalid pattern %q: %w", pattern, err))
		}
	}

	switch c.Output.Format {
	case openapi.FormatYAML, openapi.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unsupported output.format %q", c.Output.Format))
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log_level: %w", err))
	}

	return errors.Join(errs...)
}

// Metadata merges the configured overrides into the default document skeleton
func (c *Config) Metadata() openapi.Metadata {
	meta := openapi.DefaultMetadata()
	if c.Info != nil {
		if c.Info.Title != "" {
			meta.Info.Title = c.Info.Title
		}
		if c.Info.Description != "" {
			meta.Info.Description = c.Info.Description
		}
		if c.Info.Version != "" {
			meta.Info.Version = c.Info.Version
		}
		if c.Info.Contact.Name != "" {
			meta.Info.Contact.Name = c.Info.Contact.Name
		}
	}
	if len(c.Servers) > 0 {
		meta.Servers = c.Servers
	}
	if len(c.Tags) > 0 {
		meta.Tags = c.Tags
	}
	return meta
}
