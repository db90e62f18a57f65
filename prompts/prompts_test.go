package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedDefaults(t *testing.T) {
	require.NoError(t, Load(""))

	classify := Get("classify")
	require.Contains(t, classify, "%s")
	require.Contains(t, classify, "github_create_issue")
	require.Contains(t, classify, "slack_send_message")

	general := Get("general")
	require.Contains(t, general, "%s")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("classify: custom %s\ngeneral: reply to %s"), 0o644))

	require.NoError(t, Load(path))
	require.Equal(t, "custom %s", Get("classify"))

	// Restore the embedded defaults for other tests in the package.
	t.Cleanup(func() { _ = Load("") })
}

func TestLoadMissingFile(t *testing.T) {
	err := Load("/no/such/prompts.yaml")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "failed to read prompts file"))
}

func TestMustGetPanicsOnUnknownKey(t *testing.T) {
	require.NoError(t, Load(""))
	require.Panics(t, func() { MustGet("does-not-exist") })
}
