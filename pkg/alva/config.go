package alva

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Endpoint    string           `mapstructure:"endpoint"`
	AutoConnect bool             `mapstructure:"auto_connect"`
	Greeting    string           `mapstructure:"greeting"`
	Environment string           `mapstructure:"environment"`
	LogLevel    string           `mapstructure:"log_level"`
	LogFormat   string           `mapstructure:"log_format"`
	Transports  TransportsConfig `mapstructure:"transports"`
	Audio       AudioConfig      `mapstructure:"audio"`
	Privacy     PrivacyConfig    `mapstructure:"privacy"`
	Reconnect   ReconnectConfig  `mapstructure:"reconnect"`
}

type TransportsConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type AudioConfig struct {
	DeviceIndex *int `mapstructure:"device_index"`
	StartMuted  bool `mapstructure:"start_muted"`
}

type PrivacyConfig struct {
	RedactPII bool `mapstructure:"redact_pii"`
}

// ReconnectConfig shapes the caller-layered retry policy used by
// ConnectWithRetry. The transport itself never retries.
type ReconnectConfig struct {
	MaxRetries int `mapstructure:"max_retries"`
	BackoffMS  int `mapstructure:"backoff_ms"`
}

func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("auto_connect", true)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("transports.provider", "socket")
	v.SetDefault("audio.start_muted", false)
	v.SetDefault("privacy.redact_pii", true)
	v.SetDefault("reconnect.max_retries", 0)
	v.SetDefault("reconnect.backoff_ms", 500)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}

	expandEnvStrings(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Transports.Provider) == "" {
		return fmt.Errorf("transports.provider is required")
	}
	if c.Transports.Provider == "socket" && strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("endpoint is required for the socket transport")
	}
	return nil
}

func expandEnvStrings(cfg *Config) {
	cfg.Endpoint = os.ExpandEnv(cfg.Endpoint)
	cfg.Greeting = os.ExpandEnv(cfg.Greeting)
	cfg.Transports.Settings = expandSettings(cfg.Transports.Settings)
}

func expandSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	for k, v := range settings {
		settings[k] = expandAny(v)
	}
	return settings
}

func expandAny(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []any:
		for i := range val {
			val[i] = expandAny(val[i])
		}
		return val
	case map[string]any:
		for k, v := range val {
			val[k] = expandAny(v)
		}
		return val
	default:
		return v
	}
}
