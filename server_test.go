package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devcascade/devcascade/store"
	"github.com/devcascade/devcascade/workflow"
)

type offlineModel struct{}

func (offlineModel) Complete(context.Context, string) (string, error) {
	return "", errors.New("model unavailable")
}

func newTestServer(t *testing.T) *server {
	t.Helper()
	p, err := workflow.NewProcessor(offlineModel{}, nil, nil, "acme")
	require.NoError(t, err)
	return newServer(p, store.NewMemoryStore())
}

func TestHandleChatAndWorkflowHistory(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "hello there"}`))
	req.Header.Set("X-User-Email", "alice@example.com")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Hello! I'm DevCascade, your DevOps automation assistant. How can I help you today?", resp["response"])
	require.NotEmpty(t, resp["workflow_id"])

	req = httptest.NewRequest(http.MethodGet, "/api/workflows", nil)
	req.Header.Set("X-User-Email", "alice@example.com")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var views []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	require.Equal(t, "hello there", views[0]["query"])
	require.Equal(t, "general_response", views[0]["action"])
	require.Equal(t, "completed", views[0]["status"])
}

func TestHandleChatRejectsEmptyMessage(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{`{}`, `{"message": ""}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestHandleConnectRejectsUnknownService(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/integrations/connect",
		strings.NewReader(`{"service_type": "gitlab", "api_token": "x"}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "unsupported service type")
}

func TestHandleListIntegrationsEmpty(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/integrations", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]\n", rec.Body.String())
}

func TestAllowlist(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	allow, err := parseAllowlist("10.0.0.0/8, 192.168.1.5")
	require.NoError(t, err)
	h := allow.wrap(next)

	cases := []struct {
		remoteAddr string
		forwarded  string
		want       int
	}{
		{"10.1.2.3:1234", "", http.StatusOK},
		{"192.168.1.5:1234", "", http.StatusOK},
		{"8.8.8.8:1234", "", http.StatusForbidden},
		{"8.8.8.8:1234", "10.9.9.9, 8.8.8.8", http.StatusOK},
		{"10.1.2.3:1234", "8.8.8.8", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
		req.RemoteAddr = tc.remoteAddr
		if tc.forwarded != "" {
			req.Header.Set("X-Forwarded-For", tc.forwarded)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, tc.want, rec.Code, "remote=%s xff=%s", tc.remoteAddr, tc.forwarded)
	}
}

func TestAllowlistDisabledWhenEmpty(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	allow, err := parseAllowlist("")
	require.NoError(t, err)
	h := allow.wrap(next)

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	req.RemoteAddr = "8.8.8.8:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestParseAllowlistRejectsBadCIDR(t *testing.T) {
	_, err := parseAllowlist("10.0.0.0/8, not-a-cidr")
	require.Error(t, err)
	require.Contains(t, err.Error(), `"not-a-cidr/32"`)

	allow, err := parseAllowlist("1.2.3.4, ::1")
	require.NoError(t, err)
	require.True(t, allow.allows(net.ParseIP("1.2.3.4")))
	require.False(t, allow.allows(net.ParseIP("1.2.3.5")))
	require.True(t, allow.allows(net.ParseIP("::1")))
}
