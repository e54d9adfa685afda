// Package main implements ringdemo, a command that drives a ring buffer
// through pushes, searches, positional edits and a resize while printing its
// raw layout, optionally exposing the buffer's Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/c360/ringbuf/config"
	"github.com/c360/ringbuf/health"
	"github.com/c360/ringbuf/metric"
	"github.com/c360/ringbuf/pkg/buffer"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "ringdemo"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cliCfg, shouldExit, err := initializeCLI(args, stdout, stderr)
	if shouldExit || err != nil {
		return err
	}

	cfg, err := initializeConfiguration(cliCfg)
	if err != nil {
		return err
	}

	logger := setupLogger(stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	logger.Info("Starting ringdemo",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath,
		"capacity", cfg.Buffer.Capacity,
		"shrink_policy", string(cfg.Buffer.ShrinkPolicy),
		"count", cliCfg.Count)

	var registry *metric.MetricsRegistry
	if cfg.Metrics.Enabled {
		registry = metric.NewMetricsRegistry()
	}

	rb, err := newBuffer(cfg, registry, logger)
	if err != nil {
		return err
	}
	defer rb.Close()

	if err := runDemo(stdout, rb, cliCfg.Count); err != nil {
		return fmt.Errorf("demo: %w", err)
	}

	summary := rb.Stats().Summary()
	logger.Info("Ring buffer statistics",
		"pushes_back", summary.PushesBack,
		"pushes_front", summary.PushesFront,
		"pops", summary.PopsBack+summary.PopsFront,
		"evictions", summary.Evictions,
		"inserts", summary.Inserts,
		"erases", summary.Erases,
		"resizes", summary.Resizes,
		"resize_drops", summary.ResizeDrops,
		"max_size", summary.MaxSize,
		"eviction_rate", summary.EvictionRate)

	monitor := health.NewMonitor()
	monitor.Register(cfg.Metrics.Prefix, func() health.Status {
		return rb.Health(cfg.Metrics.Prefix, cfg.Health)
	})
	status := monitor.Check(appName)
	logger.Info("Ring buffer health",
		"status", string(status.State),
		"message", status.Message)

	if !cliCfg.Serve {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serveMetrics(ctx, cfg.Metrics, registry, monitor, cliCfg.ShutdownTimeout, logger)
}

// initializeCLI parses and validates flags. shouldExit is set for -version and -help.
func initializeCLI(args []string, stdout, stderr io.Writer) (*CLIConfig, bool, error) {
	cliCfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("parse flags: %w", err)
	}

	if err := validateFlags(cliCfg); err != nil {
		return nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		_, _ = fmt.Fprintf(stdout, "%s version %s\n", appName, Version)
		return nil, true, nil
	}

	if cliCfg.ShowHelp {
		return nil, true, nil
	}

	return cliCfg, false, nil
}

// initializeConfiguration loads the config layers, applies flag overrides and
// validates the result.
func initializeConfiguration(cliCfg *CLIConfig) (*config.Config, error) {
	loader := config.NewLoader()
	if cliCfg.ConfigPath != "" {
		loader.AddLayer(cliCfg.ConfigPath)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	applyFlagOverrides(cfg, cliCfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
// -serve implies metrics.
func applyFlagOverrides(cfg *config.Config, cliCfg *CLIConfig) {
	if cliCfg.LogLevel != "" {
		cfg.Log.Level = cliCfg.LogLevel
	}
	if cliCfg.LogFormat != "" {
		cfg.Log.Format = cliCfg.LogFormat
	}
	if cliCfg.Capacity > 0 {
		cfg.Buffer.Capacity = cliCfg.Capacity
		if cfg.Buffer.MaxCapacity > 0 && cfg.Buffer.MaxCapacity < cliCfg.Capacity {
			cfg.Buffer.MaxCapacity = cliCfg.Capacity
		}
	}
	if cliCfg.MetricsPort >= 0 {
		cfg.Metrics.Port = cliCfg.MetricsPort
	}
	if cliCfg.Serve {
		cfg.Metrics.Enabled = true
	}
}

// newBuffer builds the demo buffer; evictions and resize drops are logged at debug.
func newBuffer(cfg *config.Config, registry *metric.MetricsRegistry, logger *slog.Logger) (*buffer.RingBuffer[int], error) {
	options := []buffer.Option[int]{
		buffer.WithLogger[int](logger),
		buffer.WithDropCallback[int](func(item int) {
			logger.Debug("Element dropped", "value", item)
		}),
	}
	if registry != nil {
		options = append(options, buffer.WithMetrics[int](registry, cfg.Metrics.Prefix))
	}

	rb, err := buffer.NewFromConfig[int](cfg.Buffer, options...)
	if err != nil {
		return nil, fmt.Errorf("create buffer: %w", err)
	}
	return rb, nil
}

// serveMetrics runs the metrics server until ctx is cancelled. /health reports
// the monitor's aggregate when one is given.
func serveMetrics(
	ctx context.Context,
	cfg config.MetricsConfig,
	registry *metric.MetricsRegistry,
	monitor *health.Monitor,
	shutdownTimeout time.Duration,
	logger *slog.Logger,
) error {
	server := metric.NewServer(cfg.Port, cfg.Path, registry)
	if monitor != nil {
		server.SetHealthFunc(func() health.Status {
			return monitor.Check(appName)
		})
	}
	if err := server.Start(); err != nil {
		return fmt.Errorf("start metrics server: %w", err)
	}

	logger.Info("Serving metrics, press Ctrl+C to stop",
		"address", server.Address(),
		"path", cfg.Path)

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	done := make(chan error, 1)
	go func() {
		done <- server.Stop()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("stop metrics server: %w", err)
		}
		logger.Info("Metrics server stopped")
		return nil
	case <-time.After(shutdownTimeout):
		return fmt.Errorf("metrics server did not stop within %s", shutdownTimeout)
	}
}
