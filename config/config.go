package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360/ringbuf/errors"
	"github.com/c360/ringbuf/health"
	"github.com/c360/ringbuf/pkg/buffer"
)

// DefaultEnvPrefix prefixes every environment override, e.g. RINGBUF_BUFFER_CAPACITY.
const DefaultEnvPrefix = "RINGBUF"

// Config represents the complete application configuration
type Config struct {
	Buffer  buffer.Config     `json:"buffer" yaml:"buffer"`
	Log     LogConfig         `json:"log" yaml:"log"`
	Metrics MetricsConfig     `json:"metrics" yaml:"metrics"`
	Health  health.Thresholds `json:"health" yaml:"health"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json, text
}

// MetricsConfig controls Prometheus exposition.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Port    int    `json:"port" yaml:"port"`     // 0 picks a free port
	Path    string `json:"path" yaml:"path"`     // HTTP path for the scrape endpoint
	Prefix  string `json:"prefix" yaml:"prefix"` // component label on buffer metrics
}

// Default returns the configuration used when no layer overrides a field.
func Default() *Config {
	return &Config{
		Buffer: buffer.DefaultConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
			Prefix:  "ringdemo",
		},
		Health: health.DefaultThresholds(),
	}
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if err := c.Buffer.Validate(); err != nil {
		return errors.WrapInvalid(err, "Config", "Validate", "buffer section")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("log.level %q must be one of debug, info, warn, error", c.Log.Level))
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("log.format %q must be json or text", c.Log.Format))
	}

	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("metrics.port %d out of range", c.Metrics.Port))
	}

	if c.Metrics.Enabled {
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
				fmt.Sprintf("metrics.path %q must start with /", c.Metrics.Path))
		}
		if c.Metrics.Prefix == "" {
			return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate",
				"metrics.prefix is required when metrics are enabled")
		}
	}

	rates := []struct {
		name string
		rate float64
	}{
		{"health.degraded_eviction_rate", c.Health.DegradedEvictionRate},
		{"health.unhealthy_eviction_rate", c.Health.UnhealthyEvictionRate},
	}
	for _, r := range rates {
		if r.rate < 0 || r.rate > 1 {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
				fmt.Sprintf("%s %g must be between 0 and 1", r.name, r.rate))
		}
	}
	if c.Health.DegradedEvictionRate > 0 && c.Health.UnhealthyEvictionRate > 0 &&
		c.Health.DegradedEvictionRate > c.Health.UnhealthyEvictionRate {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"health.degraded_eviction_rate must not exceed health.unhealthy_eviction_rate")
	}

	return nil
}

// SaveToFile saves the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.WrapInvalid(err, "Config", "SaveToFile", "marshal config")
	}
	return safeWriteFile(path, data)
}

// String returns a YAML representation of the config
func (c *Config) String() string {
	data, _ := yaml.Marshal(c)
	return string(data)
}

// Loader handles configuration loading with layers and overrides
type Loader struct {
	layers     []string
	validation bool
	envPrefix  string
	lookupEnv  func(string) (string, bool)
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		envPrefix: DefaultEnvPrefix,
		lookupEnv: os.LookupEnv,
	}
}

// AddLayer adds a configuration file layer. Later layers override earlier ones.
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// EnableValidation enables or disables semantic validation of the merged result.
// Schema validation of each layer always runs.
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// SetEnvPrefix changes the environment override prefix.
func (l *Loader) SetEnvPrefix(prefix string) {
	l.envPrefix = prefix
}

// LoadFile loads configuration from a single file
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.layers = []string{path}
	return l.Load()
}

// Load loads and merges all configuration layers
func (l *Loader) Load() (*Config, error) {
	merged, err := toMap(Default())
	if err != nil {
		return nil, err
	}

	for _, path := range l.layers {
		layer, err := l.loadLayer(path)
		if err != nil {
			return nil, errors.Wrap(err, "Loader", "Load", fmt.Sprintf("load %s", path))
		}
		merged = deepMergeMaps(merged, layer)
	}

	cfg, err := fromMap(merged)
	if err != nil {
		return nil, err
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if l.validation {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// loadLayer reads one file as a generic document and checks it against the
// schema. JSON files parse as YAML.
func (l *Loader) loadLayer(path string) (map[string]any, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return nil, err
	}

	var layer map[string]any
	if err := yaml.Unmarshal(data, &layer); err != nil {
		return nil, errors.WrapInvalid(errors.ErrParsingFailed, "Loader", "loadLayer", err.Error())
	}
	if layer == nil {
		return map[string]any{}, nil
	}

	if err := validateDepth(layer, 0); err != nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "Loader", "loadLayer", err.Error())
	}

	if err := validateSchema(path, layer); err != nil {
		return nil, err
	}

	return layer, nil
}

// toMap round-trips a Config through YAML into a generic document.
func toMap(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.WrapFatal(err, "Loader", "toMap", "marshal config")
	}
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, errors.WrapFatal(err, "Loader", "toMap", "unmarshal config")
	}
	return out, nil
}

// fromMap decodes a merged generic document into a Config.
func fromMap(document map[string]any) (*Config, error) {
	data, err := yaml.Marshal(document)
	if err != nil {
		return nil, errors.WrapInvalid(errors.ErrParsingFailed, "Loader", "fromMap", err.Error())
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapInvalid(errors.ErrParsingFailed, "Loader", "fromMap", err.Error())
	}
	return &cfg, nil
}

// deepMergeMaps recursively merges two maps, with override taking precedence
func deepMergeMaps(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base)+len(override))

	for k, v := range base {
		result[k] = v
	}

	for k, v := range override {
		if v == nil {
			continue
		}

		if baseMap, ok := base[k].(map[string]any); ok {
			if overrideMap, ok := v.(map[string]any); ok {
				result[k] = deepMergeMaps(baseMap, overrideMap)
				continue
			}
		}

		result[k] = v
	}

	return result
}

// applyEnvOverrides applies PREFIX_SECTION_FIELD environment variables.
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	strs := []struct {
		key    string
		target *string
	}{
		{"LOG_LEVEL", &cfg.Log.Level},
		{"LOG_FORMAT", &cfg.Log.Format},
		{"METRICS_PATH", &cfg.Metrics.Path},
		{"METRICS_PREFIX", &cfg.Metrics.Prefix},
	}
	for _, s := range strs {
		val, ok, err := l.env(s.key)
		if err != nil {
			return err
		}
		if ok {
			*s.target = val
		}
	}

	ints := []struct {
		key    string
		target *int
	}{
		{"BUFFER_CAPACITY", &cfg.Buffer.Capacity},
		{"BUFFER_MAX_CAPACITY", &cfg.Buffer.MaxCapacity},
		{"METRICS_PORT", &cfg.Metrics.Port},
	}
	for _, i := range ints {
		val, ok, err := l.env(i.key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Loader", "applyEnvOverrides",
				fmt.Sprintf("%s_%s: %q is not an integer", l.envPrefix, i.key, val))
		}
		*i.target = n
	}

	floats := []struct {
		key    string
		target *float64
	}{
		{"HEALTH_DEGRADED_EVICTION_RATE", &cfg.Health.DegradedEvictionRate},
		{"HEALTH_UNHEALTHY_EVICTION_RATE", &cfg.Health.UnhealthyEvictionRate},
	}
	for _, f := range floats {
		val, ok, err := l.env(f.key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		rate, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Loader", "applyEnvOverrides",
				fmt.Sprintf("%s_%s: %q is not a number", l.envPrefix, f.key, val))
		}
		*f.target = rate
	}

	if val, ok, err := l.env("BUFFER_SHRINK_POLICY"); err != nil {
		return err
	} else if ok {
		cfg.Buffer.ShrinkPolicy = buffer.ShrinkPolicy(val)
	}

	if val, ok, err := l.env("METRICS_ENABLED"); err != nil {
		return err
	} else if ok {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Loader", "applyEnvOverrides",
				fmt.Sprintf("%s_METRICS_ENABLED: %q is not a boolean", l.envPrefix, val))
		}
		cfg.Metrics.Enabled = enabled
	}

	return nil
}

// env looks up PREFIX_key; empty values count as unset.
func (l *Loader) env(key string) (string, bool, error) {
	name := l.envPrefix + "_" + key
	val, ok := l.lookupEnv(name)
	if !ok || val == "" {
		return "", false, nil
	}
	if err := validateEnvVar(name, val); err != nil {
		return "", false, errors.WrapInvalid(errors.ErrInvalidConfig, "Loader", "applyEnvOverrides", err.Error())
	}
	return val, true, nil
}
