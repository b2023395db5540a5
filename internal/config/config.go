package config

import "time"

// Config holds server configuration values.
type Config struct {
	// Addr is the TCP address the chat listener binds to.
	Addr string `mapstructure:"addr" yaml:"addr"`
	// AdminAddr is the HTTP address for health, presence and metrics endpoints.
	AdminAddr string `mapstructure:"admin_addr" yaml:"admin_addr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// DatabaseDriver selects the credential store backend: sqlite or postgres.
	DatabaseDriver string `mapstructure:"database_driver" yaml:"database_driver"`
	// DatabasePath is the sqlite database file (sqlite driver only).
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`
	// DatabaseURL is the postgres connection URL (postgres driver only).
	DatabaseURL string `mapstructure:"database_url" yaml:"database_url"`
	// ShutdownTimeout bounds graceful shutdown of the admin server and sessions.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:            ":6969",
		AdminAddr:       ":8080",
		LogLevel:        "info",
		DatabaseDriver:  "sqlite",
		DatabasePath:    "netchat.db",
		ShutdownTimeout: 5 * time.Second,
	}
}
