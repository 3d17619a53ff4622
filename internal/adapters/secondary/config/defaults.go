package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

// Environment variables recognised on top of the config files
const (
	EnvHost            = "INKPOST_HOST"
	EnvPort            = "INKPOST_PORT"
	EnvEnvironment     = "INKPOST_ENV"
	EnvCORSOrigins     = "INKPOST_CORS_ORIGINS"
	EnvTrustedProxies  = "INKPOST_TRUSTED_PROXIES"
	EnvDatabasePath    = "INKPOST_DB"
	EnvSessionSecret   = "INKPOST_SESSION_SECRET"
	EnvAdminEmail      = "INKPOST_ADMIN_EMAIL"
	EnvSessionTTLHours = "INKPOST_SESSION_TTL_HOURS"
	EnvCookieSecure    = "INKPOST_COOKIE_SECURE"
	EnvSiteTitle       = "INKPOST_SITE_TITLE"
	EnvLogLevel        = "INKPOST_LOG_LEVEL"
	EnvLogVerbose      = "INKPOST_LOG_VERBOSE"
	EnvLogFile         = "INKPOST_LOG_FILE"
)

// GetDefaultConfig returns the built-in configuration with environment overrides
func GetDefaultConfig() *entities.Config {
	return &entities.Config{
		Server: entities.ServerConfig{
			Host:            getEnvOrDefault(EnvHost, "localhost"),
			Port:            getEnvIntOrDefault(EnvPort, 3000),
			ReadTimeout:     15,
			WriteTimeout:    15,
			ShutdownTimeout: 5,
			Environment:     getEnvOrDefault(EnvEnvironment, "development"),
			CORSOrigins: getEnvSliceOrDefault(EnvCORSOrigins, []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			}),
		},
		Database: entities.DatabaseConfig{
			Path:         getEnvOrDefault(EnvDatabasePath, "inkpost.db"),
			MaxOpenConns: 4,
		},
		Auth: entities.AuthConfig{
			SessionSecret:   getEnvOrDefault(EnvSessionSecret, ""),
			AdminEmail:      getEnvOrDefault(EnvAdminEmail, ""),
			SessionTTLHours: getEnvIntOrDefault(EnvSessionTTLHours, 24*7),
			CookieName:      "__session",
			CookieSecure:    getEnvBoolOrDefault(EnvCookieSecure, false),
		},
		Site: entities.SiteConfig{
			Title: getEnvOrDefault(EnvSiteTitle, "inkpost"),
		},
		Logging: entities.LoggingConfig{
			Level:   getEnvOrDefault(EnvLogLevel, "info"),
			Verbose: getEnvBoolOrDefault(EnvLogVerbose, false),
			File:    getEnvOrDefault(EnvLogFile, ""),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSliceOrDefault splits a comma separated variable, dropping blanks
func getEnvSliceOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
