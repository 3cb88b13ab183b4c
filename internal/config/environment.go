package config

import (
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

// LoadEnv loads a .env file into the process environment if one exists.
// Missing files are fine: production deployments set real environment
// variables instead.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
}
