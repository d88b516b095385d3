package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderOption configures Load.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	configFile string
	envFile    string
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.envFile = path }
}

// Load reads configuration from config.yml, .env, and the environment,
// applies defaults, and validates the result.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc loaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	if lc.configFile == "" {
		lc.configFile = findFirst("./config.yml", "./config/config.yml", "../config.yml")
	}
	if lc.envFile == "" {
		lc.envFile = findFirst("./.env", "../.env")
	}

	v := viper.New()

	if lc.configFile != "" {
		v.SetConfigFile(lc.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", lc.configFile, err)
		}
	}

	if lc.envFile != "" {
		if err := godotenv.Load(lc.envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", lc.envFile, err)
		}
	}

	v.SetEnvPrefix("CHATALIGN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnvKeys registers the nested keys so AutomaticEnv resolves them.
// Viper only checks the environment for keys it has seen.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"name",
		"environment",
		"logging.level",
		"logging.format",
		"logging.output",
		"database.path",
		"database.log_queries",
		"engines.rev.base_url",
		"engines.rev.api_key",
		"engines.rev.timeout",
		"engines.pyannote.base_url",
		"engines.pyannote.timeout",
		"engines.embedding.base_url",
		"engines.embedding.api_key",
		"engines.embedding.timeout",
		"engines.whisper.base_url",
		"engines.whisper.timeout",
		"engines.wav2vec.base_url",
		"engines.wav2vec.timeout",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

func findFirst(paths ...string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
