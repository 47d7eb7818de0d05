package server

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Config holds process-level settings. Gameplay constants live in package
// game and are not configurable.
type Config struct {
	Addr      string
	LogFile   string
	LogLevel  string
	StaticDir string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Addr:      ":8080",
		LogFile:   "app.log",
		LogLevel:  "debug",
		StaticDir: "",
	}
}

// LoadConfig reads envFile (if it exists) into the environment and then
// overlays DUELARENA_* variables on top of DefaultConfig.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg := DefaultConfig()
	overlay(&cfg.Addr, "DUELARENA_ADDR")
	overlay(&cfg.LogFile, "DUELARENA_LOG_FILE")
	overlay(&cfg.LogLevel, "DUELARENA_LOG_LEVEL")
	overlay(&cfg.StaticDir, "DUELARENA_STATIC_DIR")
	return cfg, nil
}

func overlay(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
