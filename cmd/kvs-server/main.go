// Package main provides the entry point for kvs-server, an optional
// process that keeps a database open for its lifetime without speaking
// any wire protocol. With the badger backend, Badger's periodic GC
// runs while it is open; the core engine compacts only inside
// Set/Remove calls, which kvs-server itself never makes.
// Operators drive it with cmd/kvs against the same data directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chux0519/kvs-go/internal/infra/buildinfo"
	"github.com/chux0519/kvs-go/internal/infra/confloader"
	"github.com/chux0519/kvs-go/internal/infra/shutdown"
	"github.com/chux0519/kvs-go/internal/kvsserver"
	"github.com/chux0519/kvs-go/internal/telemetry/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "path to configuration file")
		showVersion = flag.Bool("version", false, "show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting kvs-server",
		"version", buildinfo.Version,
		"backend", cfg.Engine.Backend,
		"data_dir", cfg.Storage.DataDir)

	registry := prometheus.NewRegistry()
	store, err := kvsserver.Open(cfg, registry, slog.Default())
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(10 * time.Second)
	shutdownHandler.OnShutdown(func(context.Context) error {
		log.Info("closing engine")
		return store.Close()
	})

	log.Info("kvs-server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("kvs-server stopped gracefully")
	return nil
}

func loadConfig(configFile string) (*kvsserver.Config, error) {
	cfg := kvsserver.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := kvsserver.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func initLogger(cfg *kvsserver.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}
