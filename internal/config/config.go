package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the top-level application configuration.
type Config struct {
	Server    ServerConfig              `yaml:"server"`
	Database  DatabaseConfig            `yaml:"database"`
	Engine    EngineConfig              `yaml:"engine"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	Scheduler SchedulerConfig           `yaml:"scheduler"`
	Search    SearchConfig              `yaml:"search"`
	SMTP      SMTPConfig                `yaml:"smtp"`
	Slack     SlackConfig               `yaml:"slack"`
	Vector    map[string]VectorConfig   `yaml:"vector"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds database connection settings. An empty URL
// means in-memory storage only.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// EngineConfig holds execution settings.
type EngineConfig struct {
	// Timeout bounds one workflow run end to end. Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`
}

// ProviderConfig holds AI provider settings.
type ProviderConfig struct {
	Type   string `yaml:"type"`    // "openai" or "anthropic"
	URL    string `yaml:"url"`     // base URL
	APIKey string `yaml:"api_key"` // API key
}

// SchedulerConfig holds settings for the workflow scheduler.
type SchedulerConfig struct {
	GlobalMax   int `yaml:"global_max"`   // max concurrent scheduled runs system-wide (default: 10)
	PerWorkflow int `yaml:"per_workflow"` // max concurrent runs per workflow (default: 3)
}

// SearchConfig points the web-search tool at a SearXNG instance.
type SearchConfig struct {
	URL string `yaml:"url"`
}

// SMTPConfig holds outbound email settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// SlackConfig holds the incoming-webhook URL for Slack delivery.
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

// VectorConfig holds vector store connection settings, keyed by store
// kind ("pinecone", "weaviate").
type VectorConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Engine: EngineConfig{
			Timeout: 5 * time.Minute,
		},
		Providers: map[string]ProviderConfig{},
		Scheduler: SchedulerConfig{
			GlobalMax:   10,
			PerWorkflow: 3,
		},
		SMTP:   SMTPConfig{Port: 587},
		Vector: map[string]VectorConfig{},
	}
}

// Load reads a YAML configuration file at path and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Ensure maps are never nil even if YAML has "providers: {}" or omits them.
	if cfg.Providers == nil {
		cfg.Providers = map[string]ProviderConfig{}
	}
	if cfg.Vector == nil {
		cfg.Vector = map[string]VectorConfig{}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadDefault tries to load "config.yaml" from the current directory.
// If the file does not exist, it returns defaults with environment
// overrides applied. Any other error (permission denied, malformed
// YAML) is returned.
func LoadDefault() (*Config, error) {
	// Load .env if present; variables already set win.
	_ = godotenv.Load()

	cfg, err := Load("config.yaml")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = defaults()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays secrets from the environment so keys can stay out
// of config files. DATABASE_URL, OPENAI_API_KEY, ANTHROPIC_API_KEY,
// PINECONE_API_KEY, WEAVIATE_API_KEY and SLACK_WEBHOOK_URL are
// recognized.
func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		c.Slack.WebhookURL = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}

	for _, name := range []string{"openai", "anthropic"} {
		key := os.Getenv(strings.ToUpper(name) + "_API_KEY")
		if key == "" {
			continue
		}
		p := c.Providers[name]
		if p.Type == "" {
			p.Type = name
		}
		p.APIKey = key
		c.Providers[name] = p
	}

	for _, name := range []string{"pinecone", "weaviate"} {
		key := os.Getenv(strings.ToUpper(name) + "_API_KEY")
		if key == "" {
			continue
		}
		v := c.Vector[name]
		v.APIKey = key
		c.Vector[name] = v
	}
}
