package commands

// Helper functions shared across commands

import (
	"errors"

	"github.com/taskdeck/taskdeck-mcp/internal/api"
	"github.com/taskdeck/taskdeck-mcp/internal/config"
)

// newAPIClient loads configuration and builds an authenticated client.
func newAPIClient() (*api.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.APIToken == "" {
		return nil, nil, errors.New("no API token configured, run 'taskdeck setup' first")
	}
	return api.NewClient(cfg.APIBaseURL, cfg.APIToken, cfg.RequestTimeout), cfg, nil
}

// truncateString shortens s to at most maxLen runes, never splitting a
// multi-byte rune.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
