package sessions

import (
	"strings"
)

// SplitBlocks splits log content on runs of empty lines. A line holding
// only spaces belongs to its block. Blocks with no visible text are dropped.
func SplitBlocks(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var blocks []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			if block := strings.Join(current, "\n"); strings.TrimSpace(block) != "" {
				blocks = append(blocks, block)
			}
			current = current[:0]
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

// ParseRecord extracts a Record from one block. Lines are matched by prefix
// in any order and unknown lines are ignored. A block without an agent line
// still yields a Record (with IsSession false) so it can be passed through.
func ParseRecord(block string, index int) Record {
	r := Record{Raw: block, Index: index}

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, " \t\r")
		switch {
		case strings.HasPrefix(line, AgentPrefix):
			r.Agent = value(line, AgentPrefix)
		case strings.HasPrefix(line, SessionPrefix):
			r.Session = value(line, SessionPrefix)
		case strings.HasPrefix(line, ProjectPrefix):
			r.Project = value(line, ProjectPrefix)
		case strings.HasPrefix(line, BranchPrefix):
			r.Branch = value(line, BranchPrefix)
		case strings.HasPrefix(line, StartedPrefix):
			r.Started = ParseTimestamp(value(line, StartedPrefix))
		case strings.HasPrefix(line, CompletedPrefix):
			ts := ParseTimestamp(value(line, CompletedPrefix))
			r.Completed = &ts
		case isCompletedMarker(line):
			if r.Completed == nil {
				r.Completed = &Timestamp{}
			}
		}
	}

	return r
}

// ParseRecords splits content into blocks and parses each of them.
func ParseRecords(content string) []Record {
	blocks := SplitBlocks(content)
	records := make([]Record, 0, len(blocks))
	for i, block := range blocks {
		records = append(records, ParseRecord(block, i))
	}
	return records
}

func value(line, prefix string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, prefix))
}

// isCompletedMarker matches a bare "Completed" line without a timestamp.
func isCompletedMarker(line string) bool {
	switch strings.TrimSpace(line) {
	case "Completed", "- Completed", "- Completed:":
		return true
	}
	return false
}
