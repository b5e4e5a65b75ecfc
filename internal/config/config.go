package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/taskdeck/taskdeck-mcp/internal/auth"
)

// Config carries every tunable the binary needs. Page-size limits live here
// and are handed to the query layer as plain values; nothing below the
// handler layer reads configuration on its own.
type Config struct {
	APIBaseURL      string
	APIToken        string
	RequestTimeout  time.Duration
	DefaultPageSize int
	MaxPageSize     int
	PreviewLimit    int
}

// Dir returns the per-user config directory (~/.taskdeck).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskdeck"), nil
}

// Load reads configuration from ~/.taskdeck/config.yaml and TASKDECK_*
// environment variables, falling back to the keyring for the API token.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix("taskdeck")
	v.AutomaticEnv()

	v.SetDefault("api_base_url", "https://api.taskdeck.io/v1")
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("default_page_size", 50)
	v.SetDefault("max_page_size", 200)
	v.SetDefault("preview_limit", 10)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// No config file is fine; env and defaults cover everything
	}

	cfg := &Config{
		APIBaseURL:      v.GetString("api_base_url"),
		APIToken:        v.GetString("api_token"),
		RequestTimeout:  v.GetDuration("request_timeout"),
		DefaultPageSize: v.GetInt("default_page_size"),
		MaxPageSize:     v.GetInt("max_page_size"),
		PreviewLimit:    v.GetInt("preview_limit"),
	}

	if cfg.APIToken == "" {
		cfg.APIToken = auth.RetrieveToken()
	}

	return cfg, nil
}
