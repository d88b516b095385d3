package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/chatalign/logger"
)

// Config is the root configuration for chatalign.
type Config struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment" validate:"omitempty,oneof=development staging production"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
	Database    Database      `yaml:"database" mapstructure:"database"`
	Engines     Engines       `yaml:"engines" mapstructure:"engines"`
}

// Database configures the sqlite record store.
type Database struct {
	Path string `yaml:"path" mapstructure:"path" validate:"required"`
	// LogQueries enables gorm query logging at debug level.
	LogQueries bool `yaml:"log_queries" mapstructure:"log_queries"`
}

// Engines groups the external engine endpoints and credentials.
type Engines struct {
	Rev       Engine `yaml:"rev" mapstructure:"rev"`
	Pyannote  Engine `yaml:"pyannote" mapstructure:"pyannote"`
	Embedding Engine `yaml:"embedding" mapstructure:"embedding"`
	Whisper   Engine `yaml:"whisper" mapstructure:"whisper"`
	Wav2Vec   Engine `yaml:"wav2vec" mapstructure:"wav2vec"`
}

// Engine configures one external engine sidecar.
type Engine struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Map converts an Engine into the generic config map a provider
// factory consumes.
func (e Engine) Map() map[string]any {
	return map[string]any{
		"base_url": e.BaseURL,
		"api_key":  e.APIKey,
		"timeout":  e.Timeout,
	}
}

// ApplyDefaults applies default values.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "chatalign"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Database.Path == "" {
		c.Database.Path = "chatalign.db"
	}
	c.Logging.ApplyDefaults()
}

var validate = validator.New()

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
