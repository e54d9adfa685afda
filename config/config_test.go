package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/c360/ringbuf/errors"
	"github.com/c360/ringbuf/pkg/buffer"
)

func writeLayer(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// noEnv isolates a loader from the process environment.
func noEnv(l *Loader) *Loader {
	l.lookupEnv = func(string) (string, bool) { return "", false }
	return l
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8, cfg.Buffer.Capacity)
	assert.Equal(t, buffer.KeepOldest, cfg.Buffer.ShrinkPolicy)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	require.NoError(t, cfg.Validate())
}

func TestLoader_NoLayers(t *testing.T) {
	cfg, err := noEnv(NewLoader()).Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoader_LoadYAML(t *testing.T) {
	path := writeLayer(t, "ring.yaml", `
buffer:
  capacity: 64
  shrink_policy: keep_newest
log:
  level: debug
metrics:
  enabled: true
  port: 9191
`)

	loader := noEnv(NewLoader())
	loader.EnableValidation(true)
	cfg, err := loader.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Buffer.Capacity)
	assert.Equal(t, buffer.KeepNewest, cfg.Buffer.ShrinkPolicy)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset fields keep their defaults")
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9191, cfg.Metrics.Port)
	assert.Equal(t, "ringdemo", cfg.Metrics.Prefix)
}

func TestLoader_LoadJSON(t *testing.T) {
	path := writeLayer(t, "ring.json", `{
		"buffer": {"capacity": 16, "max_capacity": 32},
		"log": {"format": "json"}
	}`)

	cfg, err := noEnv(NewLoader()).LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Buffer.Capacity)
	assert.Equal(t, 32, cfg.Buffer.MaxCapacity)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoader_Layers(t *testing.T) {
	base := writeLayer(t, "base.yaml", `
buffer:
  capacity: 10
  max_capacity: 100
metrics:
  prefix: base
`)
	override := writeLayer(t, "override.yaml", `
buffer:
  capacity: 20
`)

	loader := noEnv(NewLoader())
	loader.AddLayer(base)
	loader.AddLayer(override)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Buffer.Capacity)
	assert.Equal(t, 100, cfg.Buffer.MaxCapacity, "deep merge keeps sibling fields")
	assert.Equal(t, "base", cfg.Metrics.Prefix)
}

func TestLoader_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"unknown section", "cache:\n  size: 1\n", "cache"},
		{"unknown field", "buffer:\n  size: 1\n", "size"},
		{"wrong type", "buffer:\n  capacity: lots\n", "buffer.capacity"},
		{"zero capacity", "buffer:\n  capacity: 0\n", "buffer.capacity"},
		{"unknown policy", "buffer:\n  shrink_policy: keep_middle\n", "buffer.shrink_policy"},
		{"bad log level", "log:\n  level: loud\n", "log.level"},
		{"port out of range", "metrics:\n  port: 70000\n", "metrics.port"},
		{"relative metrics path", "metrics:\n  path: metrics\n", "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLayer(t, "bad.yaml", tt.content)

			_, err := noEnv(NewLoader()).LoadFile(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, cerrors.ErrInvalidConfig)
			assert.True(t, cerrors.IsInvalid(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoader_FileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := noEnv(NewLoader()).LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, cerrors.ErrConfigNotFound)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeLayer(t, "ring.toml", "capacity = 1\n")
		_, err := noEnv(NewLoader()).LoadFile(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, cerrors.ErrInvalidConfig)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeLayer(t, "broken.yaml", "buffer: [1, 2\n")
		_, err := noEnv(NewLoader()).LoadFile(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, cerrors.ErrParsingFailed)
	})

	t.Run("directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "dir.yaml")
		require.NoError(t, os.Mkdir(dir, 0700))
		_, err := noEnv(NewLoader()).LoadFile(dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, cerrors.ErrInvalidConfig)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeLayer(t, "empty.yaml", "")
		cfg, err := noEnv(NewLoader()).LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})
}

func TestLoader_EnvOverrides(t *testing.T) {
	env := map[string]string{
		"RINGBUF_BUFFER_CAPACITY":      "128",
		"RINGBUF_BUFFER_SHRINK_POLICY": "keep_newest",
		"RINGBUF_LOG_LEVEL":            "warn",
		"RINGBUF_METRICS_ENABLED":      "true",
		"RINGBUF_METRICS_PORT":         "0",
		"RINGBUF_METRICS_PREFIX":       "",
	}

	loader := NewLoader()
	loader.lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	loader.EnableValidation(true)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 128, cfg.Buffer.Capacity)
	assert.Equal(t, buffer.KeepNewest, cfg.Buffer.ShrinkPolicy)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 0, cfg.Metrics.Port)
	assert.Equal(t, "ringdemo", cfg.Metrics.Prefix, "empty value counts as unset")
}

func TestLoader_EnvOverridesFromProcess(t *testing.T) {
	t.Setenv("RINGTEST_BUFFER_CAPACITY", "3")

	loader := NewLoader()
	loader.SetEnvPrefix("RINGTEST")

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Buffer.Capacity)
}

func TestLoader_EnvOverrideErrors(t *testing.T) {
	tests := map[string]string{
		"RINGBUF_BUFFER_CAPACITY": "many",
		"RINGBUF_METRICS_ENABLED": "perhaps",
		"RINGBUF_LOG_LEVEL":       "de\x00bug",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			loader := NewLoader()
			loader.lookupEnv = func(k string) (string, bool) {
				if k == key {
					return value, true
				}
				return "", false
			}

			_, err := loader.Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, cerrors.ErrInvalidConfig)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"bad capacity", func(c *Config) { c.Buffer.Capacity = 0 }, cerrors.ErrInvalidCapacity},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, cerrors.ErrInvalidConfig},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, cerrors.ErrInvalidConfig},
		{"bad port", func(c *Config) { c.Metrics.Port = -1 }, cerrors.ErrInvalidConfig},
		{"disabled metrics skip path check", func(c *Config) { c.Metrics.Path = "" }, nil},
		{"enabled metrics need path", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Path = "metrics"
		}, cerrors.ErrInvalidConfig},
		{"enabled metrics need prefix", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Prefix = ""
		}, cerrors.ErrMissingConfig},
		{"eviction rate above one", func(c *Config) {
			c.Health.UnhealthyEvictionRate = 1.5
		}, cerrors.ErrInvalidConfig},
		{"negative eviction rate", func(c *Config) {
			c.Health.DegradedEvictionRate = -0.1
		}, cerrors.ErrInvalidConfig},
		{"degraded above unhealthy", func(c *Config) {
			c.Health.DegradedEvictionRate = 0.9
			c.Health.UnhealthyEvictionRate = 0.5
		}, cerrors.ErrInvalidConfig},
		{"disabled unhealthy check", func(c *Config) {
			c.Health.DegradedEvictionRate = 0.9
			c.Health.UnhealthyEvictionRate = 0
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoader_ValidationToggle(t *testing.T) {
	path := writeLayer(t, "metrics.yaml", "metrics:\n  enabled: true\n  prefix: x\n")

	t.Setenv("RINGVAL_METRICS_PATH", "nope")

	loader := NewLoader()
	loader.SetEnvPrefix("RINGVAL")
	loader.AddLayer(path)

	cfg, err := loader.Load()
	require.NoError(t, err, "semantic validation is off by default")
	assert.Equal(t, "nope", cfg.Metrics.Path)

	loader.EnableValidation(true)
	_, err = loader.Load()
	assert.ErrorIs(t, err, cerrors.ErrInvalidConfig)
}

func TestConfig_SaveAndReload(t *testing.T) {
	cfg := Default()
	cfg.Buffer.Capacity = 42
	cfg.Buffer.ShrinkPolicy = buffer.KeepNewest
	cfg.Metrics.Enabled = true

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, cfg.SaveToFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := noEnv(NewLoader()).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Contains(t, cfg.String(), "capacity: 42")
}

func TestSchema_IsCopy(t *testing.T) {
	s := Schema()
	require.NotEmpty(t, s)
	s[0] = 'x'
	assert.Equal(t, byte('{'), Schema()[0])
}

func TestValidateDepth(t *testing.T) {
	var doc any = "leaf"
	for i := 0; i < maxNestDepth+2; i++ {
		doc = map[string]any{"n": doc}
	}
	assert.Error(t, validateDepth(doc, 0))
	assert.NoError(t, validateDepth(map[string]any{"a": []any{1, 2}}, 0))
}

func TestLoader_HealthThresholds(t *testing.T) {
	path := writeLayer(t, "health.yaml", "health:\n  degraded_eviction_rate: 0.25\n")

	t.Setenv("RINGHEALTH_HEALTH_UNHEALTHY_EVICTION_RATE", "0.75")
	loader := NewLoader()
	loader.SetEnvPrefix("RINGHEALTH")
	loader.AddLayer(path)
	loader.EnableValidation(true)

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Health.DegradedEvictionRate)
	assert.Equal(t, 0.75, cfg.Health.UnhealthyEvictionRate)

	t.Setenv("RINGHEALTH_HEALTH_UNHEALTHY_EVICTION_RATE", "most")
	_, err = loader.Load()
	assert.ErrorIs(t, err, cerrors.ErrInvalidConfig)

	bad := writeLayer(t, "bad_health.yaml", "health:\n  degraded_eviction_rate: 2\n")
	_, err = noEnv(NewLoader()).LoadFile(bad)
	assert.ErrorIs(t, err, cerrors.ErrInvalidConfig)
}
