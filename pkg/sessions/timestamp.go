package sessions

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order. Zone-less layouts are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 value. It never fails: values that match
// no known layout come back as Unparseable.
func ParseTimestamp(value string) Timestamp {
	value = strings.TrimSpace(value)
	if value == "" {
		return Timestamp{}
	}
	// Lower-case designator is legal ISO-8601 but rejected by time.Parse.
	normalized := value
	if strings.HasSuffix(normalized, "z") {
		normalized = normalized[:len(normalized)-1] + "Z"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return Parsed(t)
		}
	}
	return Unparseable(value)
}

// FormatTimestamp renders t in UTC with a trailing Z.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
