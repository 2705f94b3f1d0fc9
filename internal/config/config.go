// Package config loads settings from defaults, an optional config.yaml,
// a .env file and RECEIPTSPLIT_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "RECEIPTSPLIT"

// Config is the complete application configuration.
type Config struct {
	Server struct {
		Addr        string `mapstructure:"addr"`
		MaxUploadMB int    `mapstructure:"max_upload_mb"`
	} `mapstructure:"server"`

	Storage struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"storage"`

	Preferences struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"preferences"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Gemini struct {
		APIKey         string `mapstructure:"api_key"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"gemini"`

	Sanitizer struct {
		RoundOffThreshold float64 `mapstructure:"round_off_threshold"`
		Epsilon           float64 `mapstructure:"epsilon"`
	} `mapstructure:"sanitizer"`

	Auth struct {
		Secret        string `mapstructure:"secret"`
		TokenTTLHours int    `mapstructure:"token_ttl_hours"`
	} `mapstructure:"auth"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
}

// GeminiTimeout is the per-call model timeout.
func (c *Config) GeminiTimeout() time.Duration {
	return time.Duration(c.Gemini.TimeoutSeconds) * time.Second
}

// TokenTTL is the lifetime of issued API tokens. Zero means no expiry.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

// MaxUploadBytes is the upload limit for receipt images.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// LoadEnv loads a .env file from the working directory or its parent if
// one exists. Variables already set in the environment win.
func LoadEnv() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

// Load builds the configuration. configFile may be empty, in which case
// config.yaml is looked up in ./, ./.receiptsplit and $HOME/.receiptsplit.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(".receiptsplit")
		v.AddConfigPath("$HOME/.receiptsplit")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// The Gemini key keeps its conventional unprefixed name.
	if err := v.BindEnv("gemini.api_key", envPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 10)

	v.SetDefault("storage.path", "./data/receiptsplit.db")
	v.SetDefault("preferences.path", "./data/preferences.yaml")

	v.SetDefault("log.level", "info")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.timeout_seconds", 60)

	v.SetDefault("sanitizer.round_off_threshold", 1.0)
	v.SetDefault("sanitizer.epsilon", 0.001)

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl_hours", 0)

	v.SetDefault("metrics.enabled", true)
}

func validate(cfg *Config) error {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if cfg.Server.MaxUploadMB < 1 || cfg.Server.MaxUploadMB > 100 {
		return fmt.Errorf("server.max_upload_mb must be between 1 and 100, got: %d", cfg.Server.MaxUploadMB)
	}
	if cfg.Storage.Path == "" {
		return errors.New("storage.path must not be empty")
	}
	if cfg.Gemini.TimeoutSeconds < 1 || cfg.Gemini.TimeoutSeconds > 300 {
		return fmt.Errorf("gemini.timeout_seconds must be between 1 and 300, got: %d", cfg.Gemini.TimeoutSeconds)
	}
	if cfg.Sanitizer.RoundOffThreshold <= 0 {
		return fmt.Errorf("sanitizer.round_off_threshold must be positive, got: %g", cfg.Sanitizer.RoundOffThreshold)
	}
	if cfg.Sanitizer.Epsilon <= 0 || cfg.Sanitizer.Epsilon >= cfg.Sanitizer.RoundOffThreshold {
		return fmt.Errorf("sanitizer.epsilon must be positive and below the round-off threshold, got: %g", cfg.Sanitizer.Epsilon)
	}
	if cfg.Auth.TokenTTLHours < 0 {
		return fmt.Errorf("auth.token_ttl_hours must not be negative, got: %d", cfg.Auth.TokenTTLHours)
	}
	return nil
}
