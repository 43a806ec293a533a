package sessions

import (
	"encoding/json"
	"strings"
	"time"
)

// Line prefixes of the session block layout.
const (
	AgentPrefix     = "### Agent:"
	SessionPrefix   = "- Session:"
	ProjectPrefix   = "- Project:"
	BranchPrefix    = "- Branch:"
	StartedPrefix   = "- Started:"
	CompletedPrefix = "- Completed:"
)

// Timestamp is the tagged outcome of parsing a Started/Completed value.
// Valid timestamps carry a UTC instant. Invalid ones keep the original
// text in Raw; an empty Raw means the line was absent.
type Timestamp struct {
	Time  time.Time
	Raw   string
	Valid bool
}

// Parsed returns a valid timestamp for t.
func Parsed(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC(), Valid: true}
}

// Unparseable returns an invalid timestamp that remembers its source text.
func Unparseable(raw string) Timestamp {
	return Timestamp{Raw: raw}
}

// Missing reports whether no value was present at all.
func (ts Timestamp) Missing() bool {
	return !ts.Valid && ts.Raw == ""
}

// String renders the timestamp the way it is written in the log.
func (ts Timestamp) String() string {
	if ts.Valid {
		return FormatTimestamp(ts.Time)
	}
	return ts.Raw
}

// Key identifies duplicate active sessions.
type Key struct {
	Agent   string
	Project string
	Branch  string
}

// Complete reports whether every key component is set.
func (k Key) Complete() bool {
	return k.Agent != "" && k.Project != "" && k.Branch != ""
}

func (k Key) String() string {
	return strings.Join([]string{k.Agent, k.Project, k.Branch}, "|")
}

// Record is one parsed block of the sessions log.
type Record struct {
	Agent     string
	Session   string
	Project   string
	Branch    string
	Started   Timestamp
	Completed *Timestamp

	// Raw is the block exactly as read. Empty for records built in code.
	Raw string
	// Index is the block position in the source file.
	Index int
}

// IsSession reports whether the block names an agent.
func (r Record) IsSession() bool {
	return r.Agent != ""
}

// IsCompleted reports whether the block carries a completed marker.
func (r Record) IsCompleted() bool {
	return r.Completed != nil
}

// IsActive reports whether the record is an in-progress session.
func (r Record) IsActive() bool {
	return r.IsSession() && !r.IsCompleted()
}

// Key returns the identity key of the record.
func (r Record) Key() Key {
	return Key{Agent: r.Agent, Project: r.Project, Branch: r.Branch}
}

type recordJSON struct {
	Agent     string `json:"agent"`
	Session   string `json:"session,omitempty"`
	Project   string `json:"project,omitempty"`
	Branch    string `json:"branch,omitempty"`
	Started   string `json:"started,omitempty"`
	Completed string `json:"completed,omitempty"`
	Active    bool   `json:"active"`
}

// MarshalJSON renders the record with its timestamps in log form.
func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		Agent:   r.Agent,
		Session: r.Session,
		Project: r.Project,
		Branch:  r.Branch,
		Started: r.Started.String(),
		Active:  r.IsActive(),
	}
	if r.Completed != nil {
		out.Completed = r.Completed.String()
	}
	return json.Marshal(out)
}
