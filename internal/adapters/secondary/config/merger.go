package config

import (
	"os"
	"strconv"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// ConfigMerger layers configurations on top of each other
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges configurations with later ones taking precedence.
// Zero values in a later config never override an earlier value.
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	result := deepCopy(configs[0])
	if result == nil {
		result = &entities.Config{}
	}

	for _, cfg := range configs[1:] {
		if cfg != nil {
			m.mergeInto(result, cfg)
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides. Recognised keys are port, host and db.
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if port, ok := flags["port"].(int); ok && port > 0 {
		result.Server.Port = port
	}

	if host, ok := flags["host"].(string); ok && host != "" {
		result.Server.Host = host
	}

	if db, ok := flags["db"].(string); ok && db != "" {
		result.Database.Path = db
	}

	if level, ok := flags["log-level"].(string); ok && level != "" {
		result.Logging.Level = level
	}

	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		result.Logging.Verbose = true
	}

	return result
}

// ApplyEnvVars applies INKPOST_* environment overrides
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	strings := map[string]*string{
		EnvHost:          &result.Server.Host,
		EnvEnvironment:   &result.Server.Environment,
		EnvDatabasePath:  &result.Database.Path,
		EnvSessionSecret: &result.Auth.SessionSecret,
		EnvAdminEmail:    &result.Auth.AdminEmail,
		EnvSiteTitle:     &result.Site.Title,
		EnvLogLevel:      &result.Logging.Level,
		EnvLogFile:       &result.Logging.File,
	}
	for key, dst := range strings {
		if value := os.Getenv(key); value != "" {
			*dst = value
		}
	}

	if port, err := strconv.Atoi(os.Getenv(EnvPort)); err == nil && port > 0 {
		result.Server.Port = port
	}
	if ttl, err := strconv.Atoi(os.Getenv(EnvSessionTTLHours)); err == nil && ttl > 0 {
		result.Auth.SessionTTLHours = ttl
	}
	if secure, err := strconv.ParseBool(os.Getenv(EnvCookieSecure)); err == nil {
		result.Auth.CookieSecure = secure
	}
	if verbose, err := strconv.ParseBool(os.Getenv(EnvLogVerbose)); err == nil {
		result.Logging.Verbose = verbose
	}
	if origins := getEnvSliceOrDefault(EnvCORSOrigins, nil); len(origins) > 0 {
		result.Server.CORSOrigins = origins
	}
	if proxies := getEnvSliceOrDefault(EnvTrustedProxies, nil); len(proxies) > 0 {
		result.Server.TrustedProxies = proxies
	}

	return result
}

// mergeInto copies every non-zero field of source onto target.
// TOML cannot tell false from unset, so booleans only ever switch on.
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	mergeString(&target.Server.Host, source.Server.Host)
	mergeInt(&target.Server.Port, source.Server.Port)
	mergeInt(&target.Server.ReadTimeout, source.Server.ReadTimeout)
	mergeInt(&target.Server.WriteTimeout, source.Server.WriteTimeout)
	mergeInt(&target.Server.ShutdownTimeout, source.Server.ShutdownTimeout)
	mergeString(&target.Server.Environment, source.Server.Environment)
	if len(source.Server.CORSOrigins) > 0 {
		target.Server.CORSOrigins = append([]string(nil), source.Server.CORSOrigins...)
	}
	if len(source.Server.TrustedProxies) > 0 {
		target.Server.TrustedProxies = append([]string(nil), source.Server.TrustedProxies...)
	}

	mergeString(&target.Database.Path, source.Database.Path)
	mergeInt(&target.Database.MaxOpenConns, source.Database.MaxOpenConns)

	mergeString(&target.Auth.SessionSecret, source.Auth.SessionSecret)
	mergeString(&target.Auth.AdminEmail, source.Auth.AdminEmail)
	mergeInt(&target.Auth.SessionTTLHours, source.Auth.SessionTTLHours)
	mergeString(&target.Auth.CookieName, source.Auth.CookieName)
	target.Auth.CookieSecure = target.Auth.CookieSecure || source.Auth.CookieSecure

	mergeString(&target.Site.Title, source.Site.Title)

	mergeString(&target.Logging.Level, source.Logging.Level)
	mergeString(&target.Logging.File, source.Logging.File)
	target.Logging.Verbose = target.Logging.Verbose || source.Logging.Verbose
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergeInt(dst *int, src int) {
	if src != 0 {
		*dst = src
	}
}

// deepCopy copies a configuration; slices are the only shared references
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	dst := *src
	if src.Server.CORSOrigins != nil {
		dst.Server.CORSOrigins = append([]string(nil), src.Server.CORSOrigins...)
	}
	if src.Server.TrustedProxies != nil {
		dst.Server.TrustedProxies = append([]string(nil), src.Server.TrustedProxies...)
	}
	return &dst
}

// Ensure ConfigMerger implements ports.ConfigMerger
var _ ports.ConfigMerger = (*ConfigMerger)(nil)
