// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Defaults applied when neither a config file, environment variable, nor
// flag provides a value.
const (
	DefaultCurrency = "CAD"
	DefaultUserID   = "local"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
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

// DatabasePath returns the configured SQLite database path, falling back
// to the standard location under the user's data directory.
func DatabasePath() (string, error) {
	if path := viper.GetString("database.path"); path != "" {
		return ExpandPath(path), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "maple", "maple.db"), nil
}

// Currency returns the default currency code stamped onto imported
// transactions whose export names none.
func Currency() string {
	if c := viper.GetString("import.currency"); c != "" {
		return strings.ToUpper(c)
	}
	return DefaultCurrency
}

// StrictImport reports whether CSV imports should reject a whole file when
// any row fails validation, unless overridden per invocation.
func StrictImport() bool {
	return viper.GetBool("import.strict")
}

// UserID returns the owning-user identifier for imported transactions.
func UserID() string {
	if id := viper.GetString("import.user"); id != "" {
		return id
	}
	return DefaultUserID
}
