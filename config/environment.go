package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Environment names accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

var envShorthands = map[string]string{
	"dev":  EnvDevelopment,
	"prod": EnvProduction,
	"stag": EnvStaging,
}

// AppEnvironment is APP_ENV lower-cased with shorthands expanded, or
// development when unset.
func AppEnvironment() string {
	env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	if env == "" {
		return EnvDevelopment
	}
	if full, ok := envShorthands[env]; ok {
		return full
	}
	return env
}

// ResolvePath returns the file LoadConfig should read. When path is empty or
// the default, a config.<env>.yml sibling for the current environment wins if
// it exists. Any other path is returned as given.
func ResolvePath(path, defaultPath string) string {
	if path == "" {
		path = defaultPath
	}
	if path != defaultPath {
		return path
	}

	ext := filepath.Ext(defaultPath)
	candidate := strings.TrimSuffix(defaultPath, ext) + "." + AppEnvironment() + ext
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}
