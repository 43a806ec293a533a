// Package paths provides path resolution for sessionlog.
//
// Tool directories resolve in this order:
// 1. SESSIONLOG_HOME (portable root) → $SESSIONLOG_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/sessionlog
// 3. Platform defaults → ~/.config/sessionlog, ~/.local/state/sessionlog
//
// Session data lives under the Claude directory: CLAUDE_CONFIG_DIR, else ~/.claude.
package paths

import (
	"os"
	"path/filepath"
)

const appName = "sessionlog"

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if home := os.Getenv("SESSIONLOG_HOME"); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if home := os.Getenv("SESSIONLOG_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the sessionlog configuration directory.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	if os.Getenv("SESSIONLOG_HOME") != "" {
		return base
	}
	return filepath.Join(base, appName)
}

// StateDir returns the sessionlog state directory.
// Used for logs.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	if os.Getenv("SESSIONLOG_HOME") != "" {
		return base
	}
	return filepath.Join(base, appName)
}

// LogDir returns the default directory for log files.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// ClaudeDir returns the directory holding session data.
func ClaudeDir() string {
	if dir := os.Getenv("CLAUDE_CONFIG_DIR"); dir != "" {
		return dir
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".claude")
	}
	return ""
}

// SessionsDir returns the directory with session notes and the sessions log.
func SessionsDir() string {
	return filepath.Join(ClaudeDir(), "sessions")
}

// SessionsFile returns the default sessions log.
func SessionsFile() string {
	return filepath.Join(SessionsDir(), ".current-sessions")
}

// BackupsDir returns the directory for session snapshots.
func BackupsDir() string {
	return filepath.Join(ClaudeDir(), "session-backups")
}

// SessionConfigFile returns the user's session-config file.
func SessionConfigFile() string {
	return filepath.Join(ClaudeDir(), "session-config")
}

// EnsureDirs creates the tool and session directories if they don't exist.
func EnsureDirs() ([]string, error) {
	dirs := []string{
		ConfigDir(),
		LogDir(),
		SessionsDir(),
		filepath.Join(SessionsDir(), "backups"),
		BackupsDir(),
	}

	var created []string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return created, err
		}
		created = append(created, dir)
	}
	return created, nil
}
