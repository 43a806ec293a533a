package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Block builds a session block. Optional completed timestamp as the last argument.
func Block(agent, session, project, branch, started string, completed ...string) string {
	lines := []string{
		"### Agent: " + agent,
		"- Session: " + session,
		"- Project: " + project,
		"- Branch: " + branch,
		"- Started: " + started,
	}
	if len(completed) > 0 {
		lines = append(lines, "- Completed: "+completed[0])
	}
	return strings.Join(lines, "\n")
}

// Log joins blocks the way the sessions file stores them.
func Log(blocks ...string) string {
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// WriteSessionsFile writes content to <dir>/.current-sessions and returns its path.
func WriteSessionsFile(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, ".current-sessions")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// ReadFile returns the content of path.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// Glob returns the files in dir matching pattern.
func Glob(t *testing.T, dir, pattern string) []string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	require.NoError(t, err)
	return matches
}

// IsolateHome points every path lookup at temp directories so tests never
// touch the real home directory.
func IsolateHome(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("SESSIONLOG_HOME", filepath.Join(root, "sessionlog"))
	t.Setenv("CLAUDE_CONFIG_DIR", filepath.Join(root, ".claude"))
	t.Setenv("SESSIONLOG_FILE", "")
	t.Setenv("SESSIONLOG_ON_DUPLICATE", "")
	return root
}
