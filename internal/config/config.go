// Package config loads runtime settings from the environment and an optional
// YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"canvas-agent/internal/logger"
)

const envPrefix = "canvas_agent"

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// InputLengthLimit is the largest accepted max_input_length. Operators may
// tighten the bound but never raise it.
const InputLengthLimit = 500

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type Config struct {
	Provider       string          `mapstructure:"provider"`
	Model          string          `mapstructure:"model"`
	ModelTimeout   time.Duration   `mapstructure:"model_timeout"`
	MaxInputLength int             `mapstructure:"max_input_length"`
	ParamPrefix    string          `mapstructure:"param_prefix"`
	OpenAIBaseURL  string          `mapstructure:"openai_base_url"`
	OpenAIAPIKey   string          `mapstructure:"openai_api_key"`
	GeminiAPIKey   string          `mapstructure:"gemini_api_key"`
	TemplateTable  string          `mapstructure:"template_table"`
	HTTPAddr       string          `mapstructure:"http_addr"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
	Log            logger.Config   `mapstructure:"log"`
}

// Load reads CANVAS_AGENT_* environment variables on top of the defaults.
func Load() (Config, error) {
	return load(newViper())
}

// LoadFile is Load with a YAML file merged between the defaults and the
// environment. An empty path behaves like Load.
func LoadFile(path string) (Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Load()
	}
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return load(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("provider", ProviderOpenAI)
	v.SetDefault("model", "")
	v.SetDefault("model_timeout", 25*time.Second)
	v.SetDefault("max_input_length", InputLengthLimit)
	v.SetDefault("param_prefix", "/canvas-agent")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("template_table", "")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("rate_limit.rps", 5.0)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.name", "canvas-agent.log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 5)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.compress", true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.ParamPrefix = strings.TrimRight(strings.TrimSpace(cfg.ParamPrefix), "/")
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("config: unsupported provider %q", c.Provider)
	}
	if c.ModelTimeout <= 0 {
		return errors.New("config: model_timeout must be positive")
	}
	if c.MaxInputLength <= 0 || c.MaxInputLength > InputLengthLimit {
		return fmt.Errorf("config: max_input_length must be between 1 and %d", InputLengthLimit)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("config: rate_limit values must not be negative")
	}
	return nil
}
