package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.EqualError(t, err, "GEMINI_API_KEY is required")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	require.Equal(t, "8080", cfg.Port)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-pro")
	t.Setenv("GITHUB_OWNER", "acme")
	t.Setenv("PORT", "9090")
	t.Setenv("API_ALLOWED_CIDRS", "10.0.0.0/8")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "gemini-1.5-pro", cfg.GeminiModel)
	require.Equal(t, "acme", cfg.GitHubOwner)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "10.0.0.0/8", cfg.APIAllowedCIDRs)
}
