package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is the flare release identifier, reported by the CLI and stamped
// into outgoing requests as the client version.
const Version = "0.1.0"

const (
	defaultSink            = "store"
	defaultSource          = "stdin"
	defaultBufferSize      = 1024
	defaultDiagLevel       = "info"
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds all flare configuration.
type Config struct {
	DSN         string // endpoint descriptor, required for the store sink
	Service     string // value of the service tag attached to every event
	Environment string // environment tag; the client defaults it when empty
	Release     string // release tag, optional

	// Timeout bounds a single submit. Zero means the client default.
	Timeout time.Duration

	ExceptionsOnly   bool // drop records that carry no error
	PropertiesAsTags bool // withhold record fields from event extras

	Sink   SinkConfig
	Source SourceConfig
	Diag   DiagConfig

	ShutdownTimeout time.Duration
}

// SinkConfig holds sender destination settings.
type SinkConfig struct {
	Kind       string // "store", "stdout", "spool"
	SpoolPath  string // spool file location; also enables mirroring for the store sink
	BufferSize int    // async queue depth; 0 submits synchronously
}

// SourceConfig holds record source settings for the shipper.
type SourceConfig struct {
	Kind string // "stdin", "file"
	Path string
}

// DiagConfig holds diagnostic log settings.
type DiagConfig struct {
	Level string // "debug", "info", "warn", "error"
	JSON  bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		DSN:              os.Getenv("FLARE_DSN"),
		Service:          os.Getenv("FLARE_SERVICE"),
		Environment:      os.Getenv("FLARE_ENVIRONMENT"),
		Release:          os.Getenv("FLARE_RELEASE"),
		Timeout:          getenvDuration("FLARE_TIMEOUT", 0),
		ExceptionsOnly:   getenvBool("FLARE_EXCEPTIONS_ONLY", false),
		PropertiesAsTags: getenvBool("FLARE_PROPERTIES_AS_TAGS", false),
		Sink: SinkConfig{
			Kind:       getenv("FLARE_SINK", defaultSink),
			SpoolPath:  os.Getenv("FLARE_SPOOL_PATH"),
			BufferSize: getenvInt("FLARE_BUFFER_SIZE", defaultBufferSize),
		},
		Source: SourceConfig{
			Kind: getenv("FLARE_SOURCE", defaultSource),
			Path: os.Getenv("FLARE_SOURCE_PATH"),
		},
		Diag: DiagConfig{
			Level: getenv("FLARE_DIAG_LEVEL", defaultDiagLevel),
			JSON:  getenvBool("FLARE_DIAG_JSON", false),
		},
		ShutdownTimeout: getenvDuration("FLARE_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}
}

// Validate reports every configuration problem at once so a misconfigured
// shipper fails on startup with the full list instead of one error per run.
func (c Config) Validate() error {
	var problems []string

	switch c.Sink.Kind {
	case "store":
		if c.DSN == "" {
			problems = append(problems, "FLARE_DSN is required for the store sink")
		} else if _, err := ParseDSN(c.DSN); err != nil {
			problems = append(problems, err.Error())
		}
	case "stdout":
	case "spool":
		if c.Sink.SpoolPath == "" {
			problems = append(problems, "FLARE_SPOOL_PATH is required for the spool sink")
		}
	default:
		problems = append(problems, "sink must be one of: store, stdout, spool")
	}

	switch c.Source.Kind {
	case "stdin":
	case "file":
		if c.Source.Path == "" {
			problems = append(problems, "FLARE_SOURCE_PATH is required for the file source")
		}
	default:
		problems = append(problems, "source must be one of: stdin, file")
	}

	if c.Timeout < 0 {
		problems = append(problems, "timeout must not be negative")
	}
	if c.Sink.BufferSize < 0 {
		problems = append(problems, "buffer size must not be negative")
	}
	if c.ShutdownTimeout < 0 {
		problems = append(problems, "shutdown timeout must not be negative")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
