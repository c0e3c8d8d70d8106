package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"mcp-cocktail-recipes/internal/llm"
)

const (
	ProviderGateway = "gateway"
	ProviderGemini  = "gemini"
)

// Config holds the application configuration
type Config struct {
	Host     string    `mapstructure:"host"`
	Port     int       `mapstructure:"port"`
	DBPath   string    `mapstructure:"db_path"`
	LogLevel string    `mapstructure:"log_level"`
	LLM      LLMConfig `mapstructure:"llm"`
}

type LLMConfig struct {
	Provider   string            `mapstructure:"provider"`
	GatewayURL string            `mapstructure:"gateway_url"`
	APIKey     string            `mapstructure:"api_key"`
	Timeout    time.Duration     `mapstructure:"timeout"`
	Models     map[string]string `mapstructure:"models"`
}

// Options control where Load looks.
type Options struct {
	// ConfigFile overrides the config search path when set.
	ConfigFile string
	// EnvFile is loaded into the process environment before reading.
	EnvFile string
}

// Load reads defaults, then the YAML config file, then COCKTAIL_* environment
// variables. A missing config file is not an error; a malformed one is.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8011)
	v.SetDefault("db_path", "/data/cocktail-recipes.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("llm.provider", ProviderGateway)
	v.SetDefault("llm.gateway_url", "http://mcp-compose-http-proxy:9876")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.models.generate", "anthropic/claude-3.5-sonnet")
	v.SetDefault("llm.models.parse", "anthropic/claude-3.5-haiku")

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("cocktail-recipes")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "cocktail-recipes"))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("COCKTAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.LLM.Provider {
	case ProviderGateway, ProviderGemini, "":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}

// ModelSet maps the configured model ids onto completion tasks.
func (c LLMConfig) ModelSet() llm.Models {
	models := make(llm.Models, len(c.Models))
	for task, model := range c.Models {
		models[llm.Task(strings.ToLower(task))] = model
	}
	return models
}
