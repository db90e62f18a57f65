package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devcascade/devcascade/service"
)

// Status tracks a workflow record's lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Integration is one validated service connection.
type Integration struct {
	ID          string
	UserName    string
	UserEmail   string
	ServiceType service.Type
	ServiceURL  string
	Username    string
	Token       string
	Status      string
	ServiceInfo map[string]any
	ValidatedAt time.Time
	CreatedAt   time.Time
}

// WorkflowRecord is one processed query and its outcome.
type WorkflowRecord struct {
	ID        string
	UserName  string
	UserEmail string
	Query     string
	Action    string
	Response  string
	Status    Status
	CreatedAt time.Time
}

// Store persists integrations and workflow records. Implementations assign
// IDs on save.
type Store interface {
	SaveIntegration(in Integration) Integration
	GetIntegration(id string) (Integration, bool)
	ListIntegrations(userEmail string) []Integration
	SaveWorkflow(rec WorkflowRecord) WorkflowRecord
	ListWorkflows(userEmail string) []WorkflowRecord
}

// MemoryStore is the in-process Store. Durability is out of scope; the maps
// live and die with the server.
type MemoryStore struct {
	mu           sync.RWMutex
	integrations map[string]Integration
	workflows    map[string]WorkflowRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		integrations: make(map[string]Integration),
		workflows:    make(map[string]WorkflowRecord),
	}
}

func (s *MemoryStore) SaveIntegration(in Integration) Integration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	s.integrations[in.ID] = in
	return in
}

func (s *MemoryStore) GetIntegration(id string) (Integration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.integrations[id]
	return in, ok
}

func (s *MemoryStore) ListIntegrations(userEmail string) []Integration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Integration
	for _, in := range s.integrations {
		if in.UserEmail == userEmail {
			out = append(out, in)
		}
	}
	return out
}

func (s *MemoryStore) SaveWorkflow(rec WorkflowRecord) WorkflowRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.workflows[rec.ID] = rec
	return rec
}

func (s *MemoryStore) ListWorkflows(userEmail string) []WorkflowRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []WorkflowRecord
	for _, rec := range s.workflows {
		if rec.UserEmail == userEmail {
			out = append(out, rec)
		}
	}
	return out
}
