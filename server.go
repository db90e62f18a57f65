package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/devcascade/devcascade/service"
	"github.com/devcascade/devcascade/store"
	"github.com/devcascade/devcascade/workflow"
)

// queryTimeout bounds one classify-and-dispatch run, covering the model call
// plus at most two upstream API calls.
const queryTimeout = 30 * time.Second

type server struct {
	processor *workflow.Processor
	store     store.Store
	mux       *http.ServeMux
}

func newServer(processor *workflow.Processor, st store.Store) *server {
	s := &server{processor: processor, store: st, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /api/chat", s.handleChat)
	s.mux.HandleFunc("POST /api/integrations/connect", s.handleConnect)
	s.mux.HandleFunc("GET /api/integrations", s.handleListIntegrations)
	s.mux.HandleFunc("GET /api/workflows", s.handleListWorkflows)
	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// userInfo reads the caller identity headers, with the same defaults for
// anonymous callers the frontend has always relied on.
func userInfo(r *http.Request) (name, email string) {
	name = r.Header.Get("X-User-Name")
	if name == "" {
		name = "Anonymous User"
	}
	email = r.Header.Get("X-User-Email")
	if email == "" {
		email = "user@example.com"
	}
	return name, email
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	userName, userEmail := userInfo(r)
	result := s.processor.ProcessQuery(ctx, req.Message)

	rec := s.store.SaveWorkflow(store.WorkflowRecord{
		UserName:  userName,
		UserEmail: userEmail,
		Query:     req.Message,
		Action:    string(result.Action),
		Response:  result.Response,
		Status:    store.StatusCompleted,
	})

	writeJSON(w, http.StatusOK, map[string]string{
		"response":    result.Response,
		"workflow_id": rec.ID,
	})
}

func (s *server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ServiceType string `json:"service_type"`
		ServiceURL  string `json:"service_url"`
		APIToken    string `json:"api_token"`
		Username    string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	svcType, err := service.ParseType(req.ServiceType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	validator, err := service.ValidatorFor(svcType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	profile, err := validator.Validate(ctx, req.ServiceURL, req.APIToken, req.Username)
	if err != nil {
		log.Printf("[server] %s validation failed: %v", svcType, err)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	userName, userEmail := userInfo(r)
	username := req.Username
	if username == "" {
		username = profile.Username
	}

	in := s.store.SaveIntegration(store.Integration{
		UserName:    userName,
		UserEmail:   userEmail,
		ServiceType: svcType,
		ServiceURL:  req.ServiceURL,
		Username:    username,
		Token:       req.APIToken,
		Status:      "active",
		ServiceInfo: profile.ServiceInfo,
		ValidatedAt: time.Now().UTC(),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message":        string(svcType) + " connected successfully",
		"integration_id": in.ID,
		"service_type":   svcType,
		"username":       username,
		"validated_at":   in.ValidatedAt,
	})
}

func (s *server) handleListIntegrations(w http.ResponseWriter, r *http.Request) {
	_, userEmail := userInfo(r)

	type integrationView struct {
		ID          string         `json:"id"`
		ServiceType service.Type   `json:"service_type"`
		ServiceURL  string         `json:"service_url"`
		Username    string         `json:"username"`
		Status      string         `json:"status"`
		CreatedAt   time.Time      `json:"created_at"`
		ValidatedAt time.Time      `json:"validated_at"`
		ServiceInfo map[string]any `json:"service_info"`
	}

	// Tokens never leave the store through this endpoint.
	views := make([]integrationView, 0)
	for _, in := range s.store.ListIntegrations(userEmail) {
		views = append(views, integrationView{
			ID:          in.ID,
			ServiceType: in.ServiceType,
			ServiceURL:  in.ServiceURL,
			Username:    in.Username,
			Status:      in.Status,
			CreatedAt:   in.CreatedAt,
			ValidatedAt: in.ValidatedAt,
			ServiceInfo: in.ServiceInfo,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *server) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	_, userEmail := userInfo(r)

	type workflowView struct {
		ID        string       `json:"id"`
		Query     string       `json:"query"`
		Action    string       `json:"action"`
		Response  string       `json:"response"`
		Status    store.Status `json:"status"`
		CreatedAt time.Time    `json:"created_at"`
	}

	views := make([]workflowView, 0)
	for _, rec := range s.store.ListWorkflows(userEmail) {
		views = append(views, workflowView{
			ID:        rec.ID,
			Query:     rec.Query,
			Action:    rec.Action,
			Response:  rec.Response,
			Status:    rec.Status,
			CreatedAt: rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}
