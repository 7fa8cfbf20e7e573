// Package config handles persistence of application settings. Settings are
// grouped into typed sections (app, ui, db, llm, analysis, security,
// export, update), each seeded with defaults, and stored together in one
// JSON file under the data directory.
package config

import (
	"os"
	"path/filepath"
)

const (
	// SettingsFileName is the settings file name under the data directory.
	SettingsFileName = "settings.json"
	// DataDirName is the directory name under the user home.
	DataDirName = ".personahub"
	// EnvDataDir overrides the data directory (highest priority).
	EnvDataDir = "PERSONAHUB_DATA"
)

// GetDataDir returns the data directory path.
// Priority order:
//  1. PERSONAHUB_DATA environment variable
//  2. Current directory (if settings.json exists there)
//  3. User home directory under .personahub
func GetDataDir() string {
	if envDir := os.Getenv(EnvDataDir); envDir != "" {
		if err := os.MkdirAll(envDir, 0755); err == nil {
			return envDir
		}
	}

	if _, err := os.Stat(SettingsFileName); err == nil {
		if cwd, err := os.Getwd(); err == nil {
			return cwd
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		dataDir := filepath.Join(homeDir, DataDirName)
		_ = os.MkdirAll(dataDir, 0755)
		return dataDir
	}

	return "."
}

// SettingsPath returns the settings file path inside the data directory.
func SettingsPath() string {
	return filepath.Join(GetDataDir(), SettingsFileName)
}
