// Package config resolves StudyGenius settings from the environment and the
// on-disk credential store.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const appDir = "studygenius"

type Config struct {
	// Credentials. API_KEY wins over GEMINI_API_KEY, which wins over the store.
	APIKeyOverride string `env:"API_KEY"`
	GeminiAPIKey   string `env:"GEMINI_API_KEY"`

	// Gateway
	Model        string        `env:"STUDYGENIUS_MODEL" envDefault:"gemini-2.5-flash"`
	Endpoint     string        `env:"STUDYGENIUS_ENDPOINT" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	Temperature  float64       `env:"STUDYGENIUS_TEMPERATURE" envDefault:"0.3"`
	StrictSchema bool          `env:"STUDYGENIUS_STRICT_SCHEMA" envDefault:"true"`
	HTTPTimeout  time.Duration `env:"STUDYGENIUS_HTTP_TIMEOUT" envDefault:"5m"`

	// Paths
	ConfigDir string `env:"STUDYGENIUS_CONFIG_DIR"`
	LogFile   string `env:"STUDYGENIUS_LOG_FILE"`
	InboxDir  string `env:"STUDYGENIUS_INBOX"`
}

// Load reads an optional .env file from the working directory, then parses
// the process environment. Variables already set are not overridden by .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.fillPaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillPaths() error {
	if c.ConfigDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		c.ConfigDir = filepath.Join(base, appDir)
	}
	if c.LogFile == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("resolve cache dir: %w", err)
		}
		c.LogFile = filepath.Join(base, appDir, "studygenius.log")
	}
	return nil
}

// CredentialsPath is where the stored API key lives.
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.ConfigDir, credentialsFile)
}

// KeySource names where a resolved API key came from.
type KeySource string

const (
	SourceNone       KeySource = ""
	SourceAPIKeyEnv  KeySource = "API_KEY"
	SourceGeminiEnv  KeySource = "GEMINI_API_KEY"
	SourceStoredFile KeySource = "credentials file"
)

// ResolveAPIKey returns the first non-empty key from the environment, then
// the store. An empty key with SourceNone means the user must enter one.
func (c *Config) ResolveAPIKey(store *CredentialStore) (string, KeySource, error) {
	if key := strings.TrimSpace(c.APIKeyOverride); key != "" {
		return key, SourceAPIKeyEnv, nil
	}
	if key := strings.TrimSpace(c.GeminiAPIKey); key != "" {
		return key, SourceGeminiEnv, nil
	}
	if store == nil {
		return "", SourceNone, nil
	}
	key, err := store.APIKey()
	if err != nil {
		return "", SourceNone, err
	}
	if key == "" {
		return "", SourceNone, nil
	}
	return key, SourceStoredFile, nil
}
