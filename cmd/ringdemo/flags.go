package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath      string
	LogLevel        string
	LogFormat       string
	Capacity        int
	Count           int
	MetricsPort     int
	Serve           bool
	ShutdownTimeout time.Duration
	ShowVersion     bool
	ShowHelp        bool
}

// parseFlags parses args with environment variable fallback for every
// option. Zero or empty values leave the corresponding config field alone.
func parseFlags(args []string, output io.Writer) (*CLIConfig, error) {
	cfg := &CLIConfig{}
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.ConfigPath, "config",
		getEnv("RINGDEMO_CONFIG", ""),
		"Path to YAML or JSON configuration file (env: RINGDEMO_CONFIG)")

	fs.StringVar(&cfg.ConfigPath, "c",
		getEnv("RINGDEMO_CONFIG", ""),
		"Path to configuration file (env: RINGDEMO_CONFIG)")

	fs.StringVar(&cfg.LogLevel, "log-level",
		getEnv("RINGDEMO_LOG_LEVEL", ""),
		"Log level: debug, info, warn, error (env: RINGDEMO_LOG_LEVEL)")

	fs.StringVar(&cfg.LogFormat, "log-format",
		getEnv("RINGDEMO_LOG_FORMAT", ""),
		"Log format: json, text (env: RINGDEMO_LOG_FORMAT)")

	fs.IntVar(&cfg.Capacity, "capacity",
		getEnvInt("RINGDEMO_CAPACITY", 0),
		"Buffer capacity, 0 to use the configured value (env: RINGDEMO_CAPACITY)")

	fs.IntVar(&cfg.Count, "count",
		getEnvInt("RINGDEMO_COUNT", 10),
		"Number of values to push (env: RINGDEMO_COUNT)")

	fs.IntVar(&cfg.MetricsPort, "metrics-port",
		getEnvInt("RINGDEMO_METRICS_PORT", -1),
		"Metrics server port, -1 to use the configured value (env: RINGDEMO_METRICS_PORT)")

	fs.BoolVar(&cfg.Serve, "serve",
		getEnvBool("RINGDEMO_SERVE", false),
		"Keep serving metrics after the demo until interrupted (env: RINGDEMO_SERVE)")

	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("RINGDEMO_SHUTDOWN_TIMEOUT", 5*time.Second),
		"Metrics server shutdown timeout (env: RINGDEMO_SHUTDOWN_TIMEOUT)")

	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	fs.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	fs.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	fs.Usage = func() {
		printDetailedHelp(output, fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.ShowHelp {
		fs.Usage()
	}

	return cfg, nil
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err != nil {
			return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
		}
	}

	if cfg.LogLevel != "" && !slices.Contains([]string{"debug", "info", "warn", "error"}, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	if cfg.LogFormat != "" && !slices.Contains([]string{"json", "text"}, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.Capacity < 0 {
		return fmt.Errorf("invalid capacity: %d", cfg.Capacity)
	}

	if cfg.Count < 0 {
		return fmt.Errorf("invalid count: %d", cfg.Count)
	}

	if cfg.MetricsPort < -1 || cfg.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", cfg.MetricsPort)
	}

	return nil
}

func printDetailedHelp(w io.Writer, fs *flag.FlagSet) {
	_, _ = fmt.Fprintf(w, `%s - ring buffer demonstration

Pushes 0..count-1 into a ring buffer, printing the raw slots and a search for
every value once the buffer is full, then exercises insert, erase and resize.

Usage: %s [options]

Options:
`, appName, appName)
	fs.PrintDefaults()
	_, _ = fmt.Fprintf(w, `
Examples:
  # Eight slots, ten values
  %s --capacity=8 --count=10

  # Debug logging shows every eviction
  %s --log-level=debug --log-format=text

  # Expose Prometheus metrics until interrupted
  %s --serve --metrics-port=9090

  # Buffer settings from a file, overridden per field by RINGBUF_* variables
  export RINGBUF_BUFFER_SHRINK_POLICY=keep_newest
  %s --config=ringbuf.yaml

Version: %s
Build: %s
`, appName, appName, appName, appName, Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
