package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortableHome(t *testing.T) {
	root := t.TempDir()
	t.Setenv("SESSIONLOG_HOME", root)

	assert.Equal(t, filepath.Join(root, "config"), ConfigDir())
	assert.Equal(t, filepath.Join(root, "state"), StateDir())
	assert.Equal(t, filepath.Join(root, "state", "logs"), LogDir())
}

func TestXDGOverrides(t *testing.T) {
	t.Setenv("SESSIONLOG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	assert.Equal(t, "/xdg/config/sessionlog", ConfigDir())
	assert.Equal(t, "/xdg/state/sessionlog", StateDir())
}

func TestSessionPaths(t *testing.T) {
	claude := t.TempDir()
	t.Setenv("CLAUDE_CONFIG_DIR", claude)

	assert.Equal(t, filepath.Join(claude, "sessions", ".current-sessions"), SessionsFile())
	assert.Equal(t, filepath.Join(claude, "session-backups"), BackupsDir())
	assert.Equal(t, filepath.Join(claude, "session-config"), SessionConfigFile())
}

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	t.Setenv("SESSIONLOG_HOME", filepath.Join(root, "tool"))
	t.Setenv("CLAUDE_CONFIG_DIR", filepath.Join(root, "claude"))

	created, err := EnsureDirs()
	require.NoError(t, err)
	assert.Contains(t, created, SessionsDir())

	info, err := os.Stat(filepath.Join(SessionsDir(), "backups"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	again, err := EnsureDirs()
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestProtected(t *testing.T) {
	claude := t.TempDir()
	t.Setenv("CLAUDE_CONFIG_DIR", claude)

	sessions := filepath.Join(claude, "sessions")
	require.NoError(t, os.MkdirAll(filepath.Join(sessions, "backups"), 0755))
	for _, name := range []string{"a.md", "b.md", ".current-sessions"} {
		require.NoError(t, os.WriteFile(filepath.Join(sessions, name), nil, 0644))
	}

	entries, err := Protected()
	require.NoError(t, err)
	require.Len(t, entries, 5)

	counts := make(map[string]int)
	for _, e := range entries {
		rel, err := filepath.Rel(claude, e.Pattern)
		require.NoError(t, err)
		counts[rel] = e.Count
	}
	assert.Equal(t, 2, counts[filepath.Join("sessions", "*.md")])
	assert.Equal(t, 1, counts[filepath.Join("sessions", ".current-sessions")])
	assert.Equal(t, 0, counts[filepath.Join("sessions", "backups", "*")])
	assert.Equal(t, 0, counts["session-config"])
}
