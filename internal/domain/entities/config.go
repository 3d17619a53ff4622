package entities

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Site     SiteConfig     `toml:"site"`
	Logging  LoggingConfig  `toml:"logging"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	Environment     string   `toml:"environment"`
	CORSOrigins     []string `toml:"cors_origins"`
	// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-For and
	// X-Real-IP headers are believed
	TrustedProxies []string `toml:"trusted_proxies"`
}

// Validate validates server configuration
func (s ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}

	if s.Host != "" {
		if ip := net.ParseIP(s.Host); ip == nil {
			if _, err := net.LookupHost(s.Host); err != nil {
				return fmt.Errorf("invalid host: %w", err)
			}
		}
	}

	if s.ReadTimeout < 0 {
		return errors.New("read timeout must be non-negative")
	}

	if s.WriteTimeout < 0 {
		return errors.New("write timeout must be non-negative")
	}

	if s.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout must be non-negative")
	}

	// Validate CORS origins
	for _, origin := range s.CORSOrigins {
		if origin == "" {
			return errors.New("CORS origin cannot be empty")
		}
		// Allow wildcard origin for development
		if origin == "*" {
			continue
		}
		// Basic URL validation
		if len(origin) < 7 || (!strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://")) {
			return fmt.Errorf("invalid CORS origin format: %s (must start with http:// or https://)", origin)
		}
	}

	if _, err := s.TrustedProxyNets(); err != nil {
		return err
	}

	return nil
}

// TrustedProxyNets parses TrustedProxies; a bare IP becomes a single-host network
func (s ServerConfig) TrustedProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(s.TrustedProxies))
	for _, entry := range s.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy: %q", entry)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy: %w", err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

// GetReadTimeout returns the read timeout as a duration
func (s ServerConfig) GetReadTimeout() time.Duration {
	if s.ReadTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.ReadTimeout) * time.Second
}

// GetWriteTimeout returns the write timeout as a duration
func (s ServerConfig) GetWriteTimeout() time.Duration {
	if s.WriteTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.WriteTimeout) * time.Second
}

// GetShutdownTimeout returns the shutdown timeout as a duration
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// GetCORSOrigins returns CORS origins with defaults if empty
func (s ServerConfig) GetCORSOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		// Default to secure localhost origins for development
		return []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:8080",
			"http://127.0.0.1:8080",
		}
	}
	return s.CORSOrigins
}

// IsDevelopment returns true if the server is running in development mode
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development" || s.Environment == ""
}

// DatabaseConfig contains storage configuration
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
}

// Validate validates database configuration
func (d DatabaseConfig) Validate() error {
	if d.Path == "" {
		return errors.New("database path cannot be empty")
	}

	if d.MaxOpenConns < 0 {
		return errors.New("max open connections must be non-negative")
	}

	return nil
}

// GetMaxOpenConns returns the connection pool size with default
func (d DatabaseConfig) GetMaxOpenConns() int {
	if d.MaxOpenConns <= 0 {
		return 4
	}
	return d.MaxOpenConns
}

// AuthConfig contains session and admin configuration
type AuthConfig struct {
	SessionSecret   string `toml:"session_secret"`
	AdminEmail      string `toml:"admin_email"`
	SessionTTLHours int    `toml:"session_ttl_hours"`
	CookieName      string `toml:"cookie_name"`
	CookieSecure    bool   `toml:"cookie_secure"`
}

// Validate validates auth configuration
func (a AuthConfig) Validate() error {
	if a.SessionSecret != "" && len(a.SessionSecret) < 32 {
		return errors.New("session secret must be at least 32 characters")
	}

	if a.AdminEmail != "" && !strings.Contains(a.AdminEmail, "@") {
		return fmt.Errorf("invalid admin email: %s", a.AdminEmail)
	}

	if a.SessionTTLHours < 0 {
		return errors.New("session ttl must be non-negative")
	}

	return nil
}

// GetSessionTTL returns the session lifetime as a duration
func (a AuthConfig) GetSessionTTL() time.Duration {
	if a.SessionTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(a.SessionTTLHours) * time.Hour
}

// GetCookieName returns the session cookie name with default
func (a AuthConfig) GetCookieName() string {
	if a.CookieName == "" {
		return "__session"
	}
	return a.CookieName
}

// SiteConfig contains presentation defaults for rendered pages
type SiteConfig struct {
	Title string `toml:"title"`
}

// GetTitle returns the site title with default
func (s SiteConfig) GetTitle() string {
	if s.Title == "" {
		return "inkpost"
	}
	return s.Title
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `toml:"level"`   // debug, info, warn, error
	Verbose bool   `toml:"verbose"` // Enable verbose logging
	File    string `toml:"file"`    // Append logs to file (optional)
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	case "":
		// Empty is okay, will use default
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
	}

	if l.File != "" {
		if !filepath.IsAbs(l.File) {
			return errors.New("log file path must be absolute")
		}

		dir := filepath.Dir(l.File)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("log file directory does not exist: %s", dir)
		}
	}

	return nil
}

// GetLevel returns the log level with default
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Level == "" {
		return LogLevelInfo
	}
	return LogLevel(l.Level)
}
