package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// botConfig is the bot2h config file schema.
type botConfig struct {
	FeedURL    string `json:"feedUrl"`
	PostURL    string `json:"postUrl"`
	Transport  string `json:"transport,omitempty"`  // "http" (default) or "websocket"
	MaxWorkers int    `json:"maxWorkers,omitempty"` // <= 0 means unbounded
	RedisURL   string `json:"redisUrl,omitempty"`   // enables the !seen command
	Debug      bool   `json:"debug,omitempty"`
}

func defaultConfig() botConfig {
	return botConfig{
		Transport:  "http",
		MaxWorkers: 1,
	}
}

// loadConfig reads the config file, filling unset fields with defaults.
func loadConfig(path string) (botConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return botConfig{}, err
	}
	cfg := defaultConfig() // start with defaults so zero-value fields get filled
	if err := json.Unmarshal(data, &cfg); err != nil {
		return botConfig{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.FeedURL == "" {
		return botConfig{}, fmt.Errorf("%s: feedUrl is required", path)
	}
	if cfg.PostURL == "" {
		return botConfig{}, fmt.Errorf("%s: postUrl is required", path)
	}
	switch cfg.Transport {
	case "http", "websocket":
	default:
		return botConfig{}, fmt.Errorf("%s: unknown transport %q", path, cfg.Transport)
	}
	return cfg, nil
}
