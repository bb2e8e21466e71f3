package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultPath is where Load looks for the optional JSON config file.
const DefaultPath = "config/config.json"

// AppConfig holds file and environment driven configuration values.
type AppConfig struct {
	AppPort string `mapstructure:"AppPort"`
	// Gin framework configuration
	GinMode string `mapstructure:"GinMode"`
	GinPath string `mapstructure:"GinPath"`
	// Store
	DBDriver       string `mapstructure:"DBDriver"`
	DatabaseURI    string `mapstructure:"DatabaseURI"`
	DBHost         string `mapstructure:"DBHost"`
	DBPort         string `mapstructure:"DBPort"`
	DBUser         string `mapstructure:"DBUser"`
	DBPassword     string `mapstructure:"DBPassword"`
	DBName         string `mapstructure:"DBName"`
	DBPath         string `mapstructure:"DBPath"`
	DBMaxIdleConns int    `mapstructure:"DBMaxIdleConns"`
	DBMaxOpenConns int    `mapstructure:"DBMaxOpenConns"`
	// Logging configuration
	LogLevel      string `mapstructure:"LogLevel"`
	LogPath       string `mapstructure:"LogPath"`
	LogMaxSizeMB  int    `mapstructure:"LogMaxSizeMB"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogMaxAgeDays int    `mapstructure:"LogMaxAgeDays"`
	LogCompress   bool   `mapstructure:"LogCompress"`
	// HTTP surface
	AllowedOrigins     []string `mapstructure:"AllowedOrigins"`
	RateLimitPerMinute int      `mapstructure:"RateLimitPerMinute"`
	SanitizeHTML       bool     `mapstructure:"SanitizeHTML"`
	ShutdownTimeoutSec int      `mapstructure:"ShutdownTimeoutSec"`
	MetricsEnabled     bool     `mapstructure:"MetricsEnabled"`
}

// envKeys maps config keys onto the environment variables that override them.
var envKeys = map[string]string{
	"AppPort":            "APP_PORT",
	"GinMode":            "GIN_MODE",
	"GinPath":            "GIN_PATH",
	"DBDriver":           "DB_DRIVER",
	"DatabaseURI":        "DATABASE_URI",
	"DBHost":             "DB_HOST",
	"DBPort":             "DB_PORT",
	"DBUser":             "DB_USER",
	"DBPassword":         "DB_PASSWORD",
	"DBName":             "DB_NAME",
	"DBPath":             "DB_PATH",
	"DBMaxIdleConns":     "DB_MAX_IDLE_CONNS",
	"DBMaxOpenConns":     "DB_MAX_OPEN_CONNS",
	"LogLevel":           "LOG_LEVEL",
	"LogPath":            "LOG_PATH",
	"LogMaxSizeMB":       "LOG_MAX_SIZE_MB",
	"LogMaxBackups":      "LOG_MAX_BACKUPS",
	"LogMaxAgeDays":      "LOG_MAX_AGE_DAYS",
	"LogCompress":        "LOG_COMPRESS",
	"AllowedOrigins":     "ALLOWED_ORIGINS",
	"RateLimitPerMinute": "RATE_LIMIT_PER_MINUTE",
	"SanitizeHTML":       "SANITIZE_HTML",
	"ShutdownTimeoutSec": "SHUTDOWN_TIMEOUT_SEC",
	"MetricsEnabled":     "METRICS_ENABLED",
}

// Load reads configuration. Precedence, lowest first: defaults, the JSON file at path
// (silently skipped when missing), environment variables.
func Load(path string) (AppConfig, error) {
	v := viper.New()
	applyDefaults(v)

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return AppConfig{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.AllowedOrigins = splitAndTrim(cfg.AllowedOrigins)
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// applyDefaults sets sane defaults for every key.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("AppPort", "8000")
	v.SetDefault("GinMode", "release")
	v.SetDefault("GinPath", "logs/go_gin.log")
	v.SetDefault("DBDriver", DriverSQLite)
	v.SetDefault("DBHost", "127.0.0.1")
	v.SetDefault("DBPort", "")
	v.SetDefault("DBUser", "root")
	v.SetDefault("DBName", "blog")
	v.SetDefault("DBPath", "blog.db")
	v.SetDefault("DBMaxIdleConns", 5)
	v.SetDefault("DBMaxOpenConns", 20)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogPath", "logs/app.log")
	v.SetDefault("LogMaxSizeMB", 100)
	v.SetDefault("LogMaxBackups", 3)
	v.SetDefault("LogMaxAgeDays", 7)
	v.SetDefault("AllowedOrigins", []string{"*"})
	v.SetDefault("RateLimitPerMinute", 120)
	v.SetDefault("ShutdownTimeoutSec", 30)
	v.SetDefault("MetricsEnabled", true)
}

func (c AppConfig) validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimitPerMinute)
	}
	return nil
}

// splitAndTrim flattens comma separated entries (as they arrive from the
// environment) and drops blanks.
func splitAndTrim(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		for _, part := range strings.Split(raw, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
