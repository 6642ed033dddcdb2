package pagebind

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config contains all configuration options for the rendering engine
type Config struct {
	// RowHeight is the rendered height of one table body row, in pixels.
	RowHeight float64
	// HeaderAllowance is the extra height of a table header, in pixels.
	HeaderAllowance float64
	// CurrencyKey is the key path of the currency id in the data record.
	CurrencyKey string
	// CacheMaxSize is the maximum number of parsed templates to cache. 0 disables caching.
	CacheMaxSize int
	// CacheTTL is the time-to-live for cached templates. 0 means no expiration.
	CacheTTL time.Duration
	// LogLevel controls the verbosity of logging (debug, info, warn, error)
	LogLevel string
	// StrictMode turns references to unknown formatters into validation issues
	StrictMode bool
}

const (
	DefaultRowHeight       = 34
	DefaultHeaderAllowance = 40
	DefaultCurrencyKey     = "currencyId"
)

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		RowHeight:       DefaultRowHeight,
		HeaderAllowance: DefaultHeaderAllowance,
		CurrencyKey:     DefaultCurrencyKey,
		CacheMaxSize:    100,
		CacheTTL:        0,
		LogLevel:        "info",
		StrictMode:      false,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// PAGEBIND_ROW_HEIGHT
	if val := os.Getenv("PAGEBIND_ROW_HEIGHT"); val != "" {
		if h, err := strconv.ParseFloat(val, 64); err == nil {
			config.RowHeight = h
		}
	}

	// PAGEBIND_HEADER_ALLOWANCE
	if val := os.Getenv("PAGEBIND_HEADER_ALLOWANCE"); val != "" {
		if h, err := strconv.ParseFloat(val, 64); err == nil {
			config.HeaderAllowance = h
		}
	}

	// PAGEBIND_CURRENCY_KEY
	if val := os.Getenv("PAGEBIND_CURRENCY_KEY"); val != "" {
		config.CurrencyKey = val
	}

	// PAGEBIND_CACHE_MAX_SIZE
	if val := os.Getenv("PAGEBIND_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	// PAGEBIND_CACHE_TTL
	if val := os.Getenv("PAGEBIND_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	// PAGEBIND_LOG_LEVEL
	if val := os.Getenv("PAGEBIND_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// PAGEBIND_STRICT_MODE
	if val := os.Getenv("PAGEBIND_STRICT_MODE"); val != "" {
		config.StrictMode = parseBool(val)
	}

	return config
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.RowHeight == 0 {
		config.RowHeight = defaults.RowHeight
	}

	if config.CurrencyKey == "" {
		config.CurrencyKey = defaults.CurrencyKey
	}

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	return &config
}

// Metrics returns the reflow metrics described by the configuration.
func (c *Config) Metrics() Metrics {
	return Metrics{RowHeight: c.RowHeight, HeaderAllowance: c.HeaderAllowance}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.RowHeight <= 0 {
		return errors.New("row height must be positive")
	}

	if c.HeaderAllowance < 0 {
		return errors.New("header allowance cannot be negative")
	}

	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}

	if c.CacheTTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	return nil
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// outside the lock: the logger reads the config back
	UpdateLoggerFromConfig()
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
