// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDatabasePath returns the default SQLite database location.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tariff.db"
	}
	return filepath.Join(home, ".local", "share", "tariff", "tariff.db")
}

// DefaultTokenPath returns the default OAuth token location.
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sheets-token.json"
	}
	return filepath.Join(home, ".config", "tariff", "sheets-token.json")
}
