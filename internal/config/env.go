// Package config provides centralized configuration management: environment
// variables in one place plus optional YAML settings files.
package config

import (
	"os"
	"path/filepath"
	"sync"
)

// TuneEnv holds all l5ktune environment variables.
type TuneEnv struct {
	// SettingsFile overrides the settings file path (L5KTUNE_SETTINGS)
	SettingsFile string

	// LogFile is where structured log events go (L5KTUNE_LOG_FILE)
	LogFile string

	// LogLevel is the minimum log level (L5KTUNE_LOG_LEVEL)
	LogLevel string

	// NoColor disables colored terminal output (L5KTUNE_NO_COLOR or NO_COLOR)
	NoColor bool

	// Indent overrides the export indent unit (L5KTUNE_INDENT)
	Indent string
}

var (
	env     *TuneEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *TuneEnv {
	envOnce.Do(func() {
		env = &TuneEnv{
			SettingsFile: os.Getenv("L5KTUNE_SETTINGS"),
			LogFile:      os.Getenv("L5KTUNE_LOG_FILE"),
			LogLevel:     getEnvDefault("L5KTUNE_LOG_LEVEL", "info"),
			NoColor:      os.Getenv("L5KTUNE_NO_COLOR") == "1" || os.Getenv("NO_COLOR") != "",
			Indent:       os.Getenv("L5KTUNE_INDENT"),
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DefaultSettingsPath is where settings are looked up when L5KTUNE_SETTINGS
// is unset: ~/.l5ktune/settings.yaml.
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".l5ktune", "settings.yaml")
}
