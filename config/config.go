package config

import (
	"fmt"
	"os"
)

const (
	defaultPort  = "8080"
	defaultModel = "gemini-1.5-flash"
)

type Config struct {
	GeminiAPIKey    string
	GeminiModel     string
	GitHubToken     string
	GitHubOwner     string
	SlackBotToken   string
	Port            string
	PromptsFile     string
	APIAllowedCIDRs string
}

func Load() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		GitHubOwner:     os.Getenv("GITHUB_OWNER"),
		SlackBotToken:   os.Getenv("SLACK_BOT_TOKEN"),
		Port:            os.Getenv("PORT"),
		PromptsFile:     os.Getenv("PROMPTS_FILE"),
		APIAllowedCIDRs: os.Getenv("API_ALLOWED_CIDRS"),
	}

	// The model key is the one fatal requirement: without it neither the
	// classifier nor the conversational node can run.
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	if cfg.GeminiModel == "" {
		cfg.GeminiModel = defaultModel
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	return cfg, nil
}
