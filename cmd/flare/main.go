package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crimson-sun/flare/internal/client"
	"github.com/crimson-sun/flare/internal/config"
	"github.com/crimson-sun/flare/internal/diag"
	"github.com/crimson-sun/flare/internal/forward"
	"github.com/crimson-sun/flare/internal/sender"
	"github.com/crimson-sun/flare/internal/sender/async"
	"github.com/crimson-sun/flare/internal/sender/multi"
	"github.com/crimson-sun/flare/internal/source"
	"github.com/crimson-sun/flare/internal/translate"

	// Register sender implementations.
	_ "github.com/crimson-sun/flare/internal/sender/spool"
	_ "github.com/crimson-sun/flare/internal/sender/stdout"
	_ "github.com/crimson-sun/flare/internal/sender/store"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (replaces environment variables)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("flare " + config.Version)
		return
	}

	var cfg config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	} else {
		cfg = config.Load()
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	diag.Init(cfg.Diag.JSON, diag.ParseLevel(cfg.Diag.Level))

	snd, err := buildSender(cfg)
	if err != nil {
		log.Fatalf("failed to build sender: %v", err)
	}

	tr := translate.New(cfg.Service,
		translate.WithExceptionsOnly(cfg.ExceptionsOnly),
		translate.WithPropertiesAsTags(cfg.PropertiesAsTags),
	)

	var mopts []client.Option
	if cfg.Timeout > 0 {
		mopts = append(mopts, client.WithTimeout(cfg.Timeout))
	}
	if cfg.Environment != "" {
		mopts = append(mopts, client.WithEnvironment(cfg.Environment))
	}
	if cfg.Release != "" {
		mopts = append(mopts, client.WithRelease(cfg.Release))
	}
	mgr := client.NewManager(func(time.Duration) (sender.Sender, error) { return snd, nil }, mopts...)

	fwd := forward.New(tr, mgr)

	// Resolve source.
	ctor, err := source.Get(cfg.Source.Kind)
	if err != nil {
		log.Fatalf("failed to get source: %v", err)
	}

	// Set up graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, shutting down...\n", sig)
		cancel()
	}()

	records, err := ctor().Stream(ctx, cfg.Source)
	if err != nil {
		log.Fatalf("failed to open source: %v", err)
	}

	fmt.Fprintf(os.Stderr, "flare: shipping from %s to %s\n", cfg.Source.Kind, cfg.Sink.Kind)
	if err := fwd.Stream(ctx, records); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("stream error: %v", err)
	}

	shutdown(fwd, cfg.ShutdownTimeout)
}

// buildSender assembles the sink: the configured kind, mirrored to the
// spool when a path is set alongside the store, wrapped async when
// buffering is on.
func buildSender(cfg config.Config) (sender.Sender, error) {
	settings := sender.Settings{
		Timeout:   cfg.Timeout,
		SpoolPath: cfg.Sink.SpoolPath,
	}
	if cfg.Sink.Kind == "store" {
		dsn, err := config.ParseDSN(cfg.DSN)
		if err != nil {
			return nil, err
		}
		settings.DSN = dsn
	}

	ctor, err := sender.Get(cfg.Sink.Kind)
	if err != nil {
		return nil, err
	}
	snd, err := ctor(settings)
	if err != nil {
		return nil, err
	}

	if cfg.Sink.Kind == "store" && cfg.Sink.SpoolPath != "" {
		spoolCtor, err := sender.Get("spool")
		if err != nil {
			return nil, err
		}
		sp, err := spoolCtor(settings)
		if err != nil {
			return nil, err
		}
		snd = multi.New(snd, sp)
	}

	if cfg.Sink.BufferSize > 0 {
		snd = async.New(snd, async.WithBufferSize(cfg.Sink.BufferSize))
	}
	return snd, nil
}

// shutdown closes the forwarder, bounding the final flush so a dead ingest
// endpoint cannot hold the process open past the configured timeout.
func shutdown(fwd *forward.Forwarder, timeout time.Duration) {
	done := make(chan error, 1)
	go func() { done <- fwd.Close() }()
	select {
	case err := <-done:
		if err != nil {
			fmt.Fprintf(os.Stderr, "flare: shutdown error: %v\n", err)
		}
	case <-time.After(timeout):
		fmt.Fprintf(os.Stderr, "flare: shutdown timed out after %s\n", timeout)
	}
}
