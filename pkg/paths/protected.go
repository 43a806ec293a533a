package paths

import "path/filepath"

// ProtectedEntry is one location of user session data that maintenance
// never deletes. Count is the number of files matching Pattern.
type ProtectedEntry struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

var protectedPatterns = []string{
	filepath.Join("sessions", "*.md"),
	filepath.Join("sessions", ".current-sessions"),
	filepath.Join("sessions", "backups", "*"),
	"session-config",
	"CLAUDE.md",
}

// Protected lists the user data locations under ClaudeDir.
func Protected() ([]ProtectedEntry, error) {
	root := ClaudeDir()
	entries := make([]ProtectedEntry, 0, len(protectedPatterns))
	for _, p := range protectedPatterns {
		pattern := filepath.Join(root, p)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ProtectedEntry{Pattern: pattern, Count: len(matches)})
	}
	return entries, nil
}
