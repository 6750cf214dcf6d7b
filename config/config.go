package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds defaults for the command line, read from environment
// variables. Flags override them.
type Config struct {
	LogLevel  string
	LogFormat string
	// Output format for the report: text or table.
	Format   string
	Humanize bool
	// Print full precision values in table output.
	FullValues bool
}

// Load reads configuration from the environment. A .env file next to the
// binary or in the working directory is loaded first if present; variables
// already set take precedence over it.
func Load() (Config, error) {
	loadDotEnv()

	cfg := Config{
		LogLevel:  getString("CGTCALC_LOG_LEVEL", "warn"),
		LogFormat: getString("CGTCALC_LOG_FORMAT", "text"),
		Format:    getString("CGTCALC_FORMAT", "text"),
	}

	var err error
	if cfg.Humanize, err = getBool("CGTCALC_HUMANIZE", false); err != nil {
		return Config{}, err
	}
	if cfg.FullValues, err = getBool("CGTCALC_FULL_VALUES", false); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv() {
	candidates := []string{".env"}
	if exePath, err := os.Executable(); err == nil {
		candidates = append([]string{filepath.Join(filepath.Dir(exePath), ".env")}, candidates...)
	}

	for _, path := range candidates {
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return b, nil
}
