package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360/ringbuf/errors"
)

const (
	// Limits for configuration input
	maxConfigSize = 1 << 20 // 1MB max config file size
	maxNestDepth  = 16      // Maximum nesting depth of a decoded document
	maxEnvVarLen  = 1024    // Maximum environment variable value length
	maxPathLen    = 4096    // Maximum file path length
)

// configExtensions lists the file types a layer may use.
var configExtensions = []string{".yaml", ".yml", ".json"}

// validateConfigPath does basic path validation
func validateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("empty config path")
	}

	if len(path) > maxPathLen {
		return fmt.Errorf("path too long: %d > %d", len(path), maxPathLen)
	}

	// Relative paths must stay inside the working directory once resolved
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("cannot resolve absolute path: %w", err)
		}
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("cannot get working directory: %w", err)
		}
		relPath, err := filepath.Rel(cwd, absPath)
		if err != nil || strings.HasPrefix(relPath, "..") {
			return fmt.Errorf("path traversal not allowed: %s resolves outside working directory", path)
		}
	} else if strings.Contains(filepath.ToSlash(path), "/../") {
		return fmt.Errorf("path traversal not allowed: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range configExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("unsupported config file type %q (want one of %s)", ext, strings.Join(configExtensions, ", "))
}

// safeReadFile reads a config file after path and size checks.
func safeReadFile(path string) ([]byte, error) {
	if err := validateConfigPath(path); err != nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "Loader", "safeReadFile", err.Error())
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapInvalid(errors.ErrConfigNotFound, "Loader", "safeReadFile", path)
		}
		return nil, errors.WrapTransient(err, "Loader", "safeReadFile", "stat config file")
	}

	if !info.Mode().IsRegular() {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "Loader", "safeReadFile",
			fmt.Sprintf("not a regular file: %s", path))
	}

	if info.Size() > maxConfigSize {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "Loader", "safeReadFile",
			fmt.Sprintf("config file too large: %d bytes > %d", info.Size(), maxConfigSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapTransient(err, "Loader", "safeReadFile", "read config file")
	}

	return data, nil
}

// safeWriteFile writes a config file with owner-only permissions.
func safeWriteFile(path string, data []byte) error {
	if err := validateConfigPath(path); err != nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "SaveToFile", err.Error())
	}

	if len(data) > maxConfigSize {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "SaveToFile",
			fmt.Sprintf("config data too large: %d bytes > %d", len(data), maxConfigSize))
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.WrapTransient(err, "Config", "SaveToFile", "write config file")
	}
	return nil
}

// validateEnvVar does basic environment variable validation
func validateEnvVar(key, value string) error {
	if len(value) > maxEnvVarLen {
		return fmt.Errorf("environment variable %s too long: %d > %d", key, len(value), maxEnvVarLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("null byte in environment variable %s", key)
	}

	return nil
}

// validateDepth rejects decoded documents nested deeper than maxNestDepth.
func validateDepth(value any, depth int) error {
	if depth > maxNestDepth {
		return fmt.Errorf("config nesting too deep: %d > %d", depth, maxNestDepth)
	}

	switch v := value.(type) {
	case map[string]any:
		for _, child := range v {
			if err := validateDepth(child, depth+1); err != nil {
				return err
			}
		}
	case []any:
		for _, child := range v {
			if err := validateDepth(child, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
