package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-reportpdf/internal/config"
)

// ErrInvalidEnv is returned for a REPORTPDF_* variable that cannot be parsed.
var ErrInvalidEnv = errors.New("invalid environment variable")

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigName string        // REPORTPDF_CONFIG: config file name or path
	OutputDir  string        // REPORTPDF_OUTPUT: output directory
	ImagesDir  string        // REPORTPDF_IMAGES: figure directory
	Timeout    time.Duration // REPORTPDF_TIMEOUT: per-report PDF timeout
	Workers    int           // REPORTPDF_WORKERS: parallel browsers
	Locale     string        // REPORTPDF_LOCALE: date locale
}

// knownEnvVars lists valid REPORTPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"REPORTPDF_CONFIG":   true,
	"REPORTPDF_OUTPUT":   true,
	"REPORTPDF_IMAGES":   true,
	"REPORTPDF_TIMEOUT":  true,
	"REPORTPDF_WORKERS":  true,
	"REPORTPDF_LOCALE":   true,
	"REPORTPDF_NO_COLOR": true,
}

// loadEnvConfig reads the REPORTPDF_* variables through getenv.
func loadEnvConfig(getenv func(string) string) (*envConfig, error) {
	cfg := &envConfig{
		ConfigName: getenv("REPORTPDF_CONFIG"),
		OutputDir:  getenv("REPORTPDF_OUTPUT"),
		ImagesDir:  getenv("REPORTPDF_IMAGES"),
		Locale:     getenv("REPORTPDF_LOCALE"),
	}

	if v := getenv("REPORTPDF_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: REPORTPDF_TIMEOUT=%q is not a positive duration", ErrInvalidEnv, v)
		}
		cfg.Timeout = d
	}

	if v := getenv("REPORTPDF_WORKERS"); v != "" {
		w, err := strconv.Atoi(v)
		if err != nil || w < 0 || w > config.MaxWorkers {
			return nil, fmt.Errorf("%w: REPORTPDF_WORKERS=%q (must be 0-%d)", ErrInvalidEnv, v, config.MaxWorkers)
		}
		cfg.Workers = w
	}

	return cfg, nil
}

// warnUnknownEnvVars prints a warning for unrecognized REPORTPDF_* variables.
// Helps catch typos like REPORTPDF_IMAGE instead of REPORTPDF_IMAGES.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, "REPORTPDF_") {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overwrites config values with the variables that are set.
// Flags are applied afterwards, giving: flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.ImagesDir != "" {
		cfg.Images.Dir = env.ImagesDir
	}
	if env.Locale != "" {
		cfg.Locale = env.Locale
	}
	if env.Timeout > 0 {
		cfg.Generate.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 {
		cfg.Generate.Workers = env.Workers
	}
}
