// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New() to build a Config with defaults and Load(ctx) to layer
//     an optional file and environment variables on top.
//   - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreBackend selects the store implementation: redis or memory.
	// The in-process memory backend is for development setups.
	StoreBackend string `koanf:"store_backend"`

	// StoreHost and StorePort locate the cache backend.
	StoreHost string `koanf:"store_host"`
	StorePort int    `koanf:"store_port"`

	// StoreDB selects the backend database index.
	StoreDB int `koanf:"store_db"`

	// StoreConnectTimeoutMS bounds each connection dial.
	StoreConnectTimeoutMS int `koanf:"store_connect_timeout_ms"`

	// StoreRetryAttempts is the total attempt count per store operation,
	// including the first try.
	StoreRetryAttempts int `koanf:"store_retry_attempts"`

	// StoreRetryDelayMS is the fixed sleep between attempts.
	StoreRetryDelayMS int `koanf:"store_retry_delay_ms"`

	// ScoreCacheTTLMin is how long computed scores stay cached, in minutes.
	ScoreCacheTTLMin int `koanf:"score_cache_ttl_min"`

	// Salt and AdminSalt are the token derivation secrets.
	Salt      string `koanf:"salt"`
	AdminSalt string `koanf:"admin_salt"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8080",
		StoreBackend:          "redis",
		StoreHost:             "localhost",
		StorePort:             6379,
		StoreDB:               0,
		StoreConnectTimeoutMS: 5000,
		StoreRetryAttempts:    3,
		StoreRetryDelayMS:     100,
		ScoreCacheTTLMin:      60,
		Salt:                  "Otus",
		AdminSalt:             "42",
	}
}
