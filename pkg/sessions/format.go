package sessions

import (
	"strings"
	"time"
)

// Format renders a record in the canonical block layout from its fields.
func Format(r Record) string {
	lines := []string{
		field(AgentPrefix, r.Agent),
		field(SessionPrefix, r.Session),
		field(ProjectPrefix, r.Project),
		field(BranchPrefix, r.Branch),
	}
	if !r.Started.Missing() {
		lines = append(lines, field(StartedPrefix, r.Started.String()))
	}
	if r.Completed != nil {
		lines = append(lines, field(CompletedPrefix, r.Completed.String()))
	}
	return strings.Join(lines, "\n")
}

// Block returns the text to emit for a record: the original block when one
// was read, otherwise the canonical rendering.
func Block(r Record) string {
	if r.Raw != "" {
		return r.Raw
	}
	return Format(r)
}

// Demote marks r completed at the given time. Parsed blocks keep every
// original line and gain a trailing Completed line.
func Demote(r Record, at time.Time) Record {
	ts := Parsed(at)
	r.Completed = &ts
	if r.Raw != "" {
		r.Raw = strings.TrimRight(r.Raw, "\n") + "\n" + field(CompletedPrefix, ts.String())
	}
	return r
}

// Render joins blocks with exactly one blank line and a single trailing
// newline. No blocks render as an empty file.
func Render(blocks []string) string {
	if len(blocks) == 0 {
		return ""
	}
	trimmed := make([]string, len(blocks))
	for i, b := range blocks {
		trimmed[i] = strings.Trim(b, "\n")
	}
	return strings.Join(trimmed, "\n\n") + "\n"
}

func field(prefix, value string) string {
	if value == "" {
		return prefix
	}
	return prefix + " " + value
}
