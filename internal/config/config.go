package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/finadvisor/internal/llm"
	"github.com/jask/finadvisor/internal/secrets"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	LLM      LLMConfig
	Server   ServerConfig
	Advisory AdvisoryConfig
	UI       UIConfig
}

// DatabaseConfig selects the store. Driver is "sqlite3" or "postgres".
type DatabaseConfig struct {
	Driver     string
	Path       string
	URL        string
	Migrations string
}

// LLMConfig holds provider settings.
type LLMConfig struct {
	Provider  string
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"api_key"`
	Model     string
	BaseURL   string `mapstructure:"base_url"`
	Timeout   time.Duration
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr        string
	JWTSecret   string        `mapstructure:"jwt_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	CORSOrigins string        `mapstructure:"cors_origins"`
	RateLimit   int           `mapstructure:"rate_limit"`
}

// AdvisoryConfig controls the generated-advice cache. A zero CacheTTL disables it.
type AdvisoryConfig struct {
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	CacheSize int64         `mapstructure:"cache_size"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
	Timezone       string
}

// Load reads configuration from file and env. Env var overrides use prefix FINADVISOR_.
// DATABASE_URL, JWT_SECRET and PORT are honoured as well.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "finadvisor", "finadvisor.db"))
	v.SetDefault("database.url", "")
	v.SetDefault("database.migrations", "")
	v.SetDefault("llm.provider", llm.ProviderGroq)
	v.SetDefault("llm.api_key_env", "GROQ_API_KEY")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "0s")
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.token_ttl", "168h")
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("server.rate_limit", 60)
	v.SetDefault("advisory.cache_ttl", "0s")
	v.SetDefault("advisory.cache_size", 8<<20)
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.timezone", "Local")

	v.SetConfigType("toml")
	if p := os.Getenv("FINADVISOR_CONFIG"); p != "" {
		v.SetConfigFile(p)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "finadvisor"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FINADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.url", "FINADVISOR_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("server.jwt_secret", "FINADVISOR_SERVER_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("server.addr", "FINADVISOR_SERVER_ADDR", "PORT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	return c, nil
}

func (c *Config) normalize() {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "postgresql" {
		c.Database.Driver = "postgres"
	}
	if c.Database.Driver == "sqlite" {
		c.Database.Driver = "sqlite3"
	}
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Model == "" {
		c.LLM.Model = llm.DefaultModel(c.LLM.Provider)
	}
	if c.Server.Addr != "" && !strings.Contains(c.Server.Addr, ":") {
		c.Server.Addr = ":" + c.Server.Addr
	}
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3":
		if c.Database.Path == "" {
			return errors.New("config: database.path is required for sqlite3")
		}
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("config: database.url (or DATABASE_URL) is required for postgres")
		}
	default:
		return fmt.Errorf("config: unknown database.driver %q", c.Database.Driver)
	}
	switch c.LLM.Provider {
	case llm.ProviderGroq, llm.ProviderOpenAI, llm.ProviderAnthropic:
	default:
		return fmt.Errorf("config: unknown llm.provider %q", c.LLM.Provider)
	}
	return nil
}

// ResolveAPIKey returns the provider key from the env var named by
// llm.api_key_env, then the local key store, then llm.api_key.
// An empty result means generation is not configured.
func (c Config) ResolveAPIKey() string {
	if c.LLM.APIKeyEnv != "" {
		if k := strings.TrimSpace(os.Getenv(c.LLM.APIKeyEnv)); llm.Configured(k) {
			return k
		}
	}
	if k, err := secrets.GetKey(c.LLM.Provider); err == nil && llm.Configured(k) {
		return k
	}
	if k := strings.TrimSpace(c.LLM.APIKey); llm.Configured(k) {
		return k
	}
	return ""
}

// Path returns the config file location Save writes to.
func Path() string {
	if p := os.Getenv("FINADVISOR_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "finadvisor", "config.toml")
}

// Save writes non-secret settings to disk, creating the config directory if needed.
// The JWT secret and API key are never written; keep them in env or the key store.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.driver", cfg.Database.Driver)
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.migrations", cfg.Database.Migrations)
	v.Set("llm.provider", cfg.LLM.Provider)
	v.Set("llm.api_key_env", cfg.LLM.APIKeyEnv)
	v.Set("llm.model", cfg.LLM.Model)
	v.Set("llm.base_url", cfg.LLM.BaseURL)
	v.Set("llm.timeout", cfg.LLM.Timeout.String())
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.token_ttl", cfg.Server.TokenTTL.String())
	v.Set("server.cors_origins", cfg.Server.CORSOrigins)
	v.Set("server.rate_limit", cfg.Server.RateLimit)
	v.Set("advisory.cache_ttl", cfg.Advisory.CacheTTL.String())
	v.Set("advisory.cache_size", cfg.Advisory.CacheSize)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.timezone", cfg.UI.Timezone)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
