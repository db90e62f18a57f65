package main

import (
	"context"
	"log"
	"net/http"

	"github.com/devcascade/devcascade/config"
	"github.com/devcascade/devcascade/gemini"
	"github.com/devcascade/devcascade/github"
	"github.com/devcascade/devcascade/prompts"
	dcslack "github.com/devcascade/devcascade/slack"
	"github.com/devcascade/devcascade/store"
	"github.com/devcascade/devcascade/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if err := prompts.Load(cfg.PromptsFile); err != nil {
		log.Fatalf("failed to load prompts: %v", err)
	}

	model, err := gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("failed to create Gemini client: %v", err)
	}

	ghClient := github.NewClient(cfg.GitHubToken)
	slackClient := dcslack.NewClient(cfg.SlackBotToken)

	processor, err := workflow.NewProcessor(model, ghClient, slackClient, cfg.GitHubOwner)
	if err != nil {
		log.Fatalf("failed to build workflow processor: %v", err)
	}

	allow, err := parseAllowlist(cfg.APIAllowedCIDRs)
	if err != nil {
		log.Fatalf("invalid API_ALLOWED_CIDRS: %v", err)
	}

	srv := newServer(processor, store.NewMemoryStore())

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/api/", allow.wrap(srv))

	log.Printf("devcascade server starting on :%s (model: %s)", cfg.Port, cfg.GeminiModel)
	if err := http.ListenAndServe(":"+cfg.Port, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
