package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with YAML tags. Durations are strings so the
// file can say "5s" instead of nanosecond counts.
type fileConfig struct {
	DSN              string `yaml:"dsn"`
	Service          string `yaml:"service"`
	Environment      string `yaml:"environment"`
	Release          string `yaml:"release"`
	Timeout          string `yaml:"timeout"`
	ExceptionsOnly   bool   `yaml:"exceptions_only"`
	PropertiesAsTags bool   `yaml:"properties_as_tags"`
	Sink             struct {
		Kind       string `yaml:"kind"`
		SpoolPath  string `yaml:"spool_path"`
		BufferSize *int   `yaml:"buffer_size"`
	} `yaml:"sink"`
	Source struct {
		Kind string `yaml:"kind"`
		Path string `yaml:"path"`
	} `yaml:"source"`
	Diag struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
	} `yaml:"diag"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// LoadFile reads configuration from a YAML file. Fields left out of the file
// keep the same defaults Load applies; the environment is not consulted.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return parseFile(data)
}

func parseFile(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("config: parse config file: %w", err)
	}

	cfg := Config{
		DSN:              fc.DSN,
		Service:          fc.Service,
		Environment:      fc.Environment,
		Release:          fc.Release,
		ExceptionsOnly:   fc.ExceptionsOnly,
		PropertiesAsTags: fc.PropertiesAsTags,
		Sink: SinkConfig{
			Kind:       fallback(fc.Sink.Kind, defaultSink),
			SpoolPath:  fc.Sink.SpoolPath,
			BufferSize: defaultBufferSize,
		},
		Source: SourceConfig{
			Kind: fallback(fc.Source.Kind, defaultSource),
			Path: fc.Source.Path,
		},
		Diag: DiagConfig{
			Level: fallback(fc.Diag.Level, defaultDiagLevel),
			JSON:  fc.Diag.JSON,
		},
	}
	if fc.Sink.BufferSize != nil {
		cfg.Sink.BufferSize = *fc.Sink.BufferSize
	}

	var err error
	if cfg.Timeout, err = parseFileDuration("timeout", fc.Timeout, 0); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = parseFileDuration("shutdown_timeout", fc.ShutdownTimeout, defaultShutdownTimeout); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseFileDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s: %w", field, err)
	}
	return d, nil
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
