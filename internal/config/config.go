// Package config holds process configuration, read once from the
// environment at startup and injected from the composition root. No
// package in the core reads environment variables itself.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds everything the server needs to run.
type Config struct {
	// DataDir is where the SQLite record store lives.
	DataDir string
	// GeminiAPIKey authorizes generation calls. Empty disables the
	// analysis tool (capture tools keep working).
	GeminiAPIKey string
	// GeminiModel is the generative model name.
	GeminiModel string
	// Timezone is the fixed local zone used to interpret naive
	// timestamps from the timer and sport capture paths.
	Timezone string
	// GenerateTimeout bounds each generation call.
	GenerateTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:         filepath.Join(home, ".healthai"),
		GeminiModel:     "gemini-1.5-flash-latest",
		Timezone:        "Europe/Moscow",
		GenerateTimeout: 2 * time.Minute,
	}
}

// FromEnv returns Default overridden by environment variables:
// HEALTHAI_DATA_DIR, GEMINI_API_KEY, HEALTHAI_MODEL, HEALTHAI_TZ and
// HEALTHAI_GENERATE_TIMEOUT (a Go duration, e.g. "90s").
func FromEnv() Config {
	cfg := Default()
	if v := os.Getenv("HEALTHAI_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("HEALTHAI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("HEALTHAI_TZ"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("HEALTHAI_GENERATE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.GenerateTimeout = d
		}
	}
	return cfg
}
