package sessions

import (
	"testing"
	"time"

	"github.com/grovetools/sessionlog/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBlocks(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "empty",
			content:  "",
			expected: nil,
		},
		{
			name:     "single block with trailing newline",
			content:  "a\nb\n",
			expected: []string{"a\nb"},
		},
		{
			name:     "runs of blank lines",
			content:  "\n\na\n\n\n\nb\nc\n\n",
			expected: []string{"a", "b\nc"},
		},
		{
			name:     "whitespace-only line stays in its block",
			content:  "a\n   \t\nb",
			expected: []string{"a\n   \t\nb"},
		},
		{
			name:     "whitespace-only block is dropped",
			content:  "a\n\n  \n\nb\n",
			expected: []string{"a", "b"},
		},
		{
			name:     "crlf line endings",
			content:  "a\r\nb\r\n\r\nc\r\n",
			expected: []string{"a\nb", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitBlocks(tt.content))
		})
	}
}

func TestParseRecord(t *testing.T) {
	block := testutil.Block("claude-code-main", "2025-08-11-1430-fix.md", "/code/app", "main", "2025-08-11T18:30:27Z")

	r := ParseRecord(block, 3)

	assert.Equal(t, "claude-code-main", r.Agent)
	assert.Equal(t, "2025-08-11-1430-fix.md", r.Session)
	assert.Equal(t, "/code/app", r.Project)
	assert.Equal(t, "main", r.Branch)
	require.True(t, r.Started.Valid)
	assert.Equal(t, time.Date(2025, 8, 11, 18, 30, 27, 0, time.UTC), r.Started.Time)
	assert.Nil(t, r.Completed)
	assert.Equal(t, block, r.Raw)
	assert.Equal(t, 3, r.Index)
	assert.True(t, r.IsActive())
	assert.True(t, r.Key().Complete())
}

func TestParseRecordsKeepsBlockWithWhitespaceLine(t *testing.T) {
	block := "### Agent: agent-x\n- Session: s.md\n   \n- Project: proj-a\n- Branch: main\n- Started: 2025-01-01T00:00:00Z"

	records := ParseRecords(block + "\n")
	require.Len(t, records, 1)
	assert.Equal(t, block, records[0].Raw)
	assert.True(t, records[0].Key().Complete())
}

func TestParseRecordIgnoresOrderAndUnknownLines(t *testing.T) {
	block := "- Branch: dev\nsome note\n### Agent: a1\n- Project: p\n  - Started: ignored because indented"

	r := ParseRecord(block, 0)

	assert.Equal(t, "a1", r.Agent)
	assert.Equal(t, "p", r.Project)
	assert.Equal(t, "dev", r.Branch)
	assert.True(t, r.Started.Missing())
}

func TestParseRecordCompletedMarkers(t *testing.T) {
	withTime := ParseRecord(testutil.Block("a", "s", "p", "b", "2025-01-01T00:00:00Z", "2025-01-02T00:00:00Z"), 0)
	require.NotNil(t, withTime.Completed)
	assert.True(t, withTime.Completed.Valid)
	assert.True(t, withTime.IsCompleted())
	assert.False(t, withTime.IsActive())

	bare := ParseRecord("### Agent: a\n- Project: p\nCompleted", 0)
	require.NotNil(t, bare.Completed)
	assert.True(t, bare.Completed.Missing())
	assert.False(t, bare.IsActive())
}

func TestParseRecordWithoutAgent(t *testing.T) {
	r := ParseRecord("# Notes\n- Project: /somewhere", 0)

	assert.False(t, r.IsSession())
	assert.False(t, r.IsActive())
	assert.Equal(t, "/somewhere", r.Project)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
		valid bool
	}{
		{"utc designator", "2025-01-01T00:00:00Z", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"lower-case designator", "2025-01-01T00:00:00z", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"offset", "2025-01-01T02:00:00+02:00", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"fractional", "2025-01-01T00:00:00.5Z", time.Date(2025, 1, 1, 0, 0, 0, 500000000, time.UTC), true},
		{"naive", "2025-01-01T10:11:12.123456", time.Date(2025, 1, 1, 10, 11, 12, 123456000, time.UTC), true},
		{"date only", "2025-01-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "yesterday afternoon", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := ParseTimestamp(tt.value)
			assert.Equal(t, tt.valid, ts.Valid)
			if tt.valid {
				assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
				assert.Equal(t, time.UTC, ts.Time.Location())
			} else {
				assert.Equal(t, tt.value, ts.Raw)
				assert.False(t, ts.Missing())
			}
		})
	}

	assert.True(t, ParseTimestamp("  ").Missing())
}

func TestClassifyKeepsOrder(t *testing.T) {
	records := ParseRecords(testutil.Log(
		testutil.Block("a", "done", "p", "main", "2025-01-01T00:00:00Z", "2025-01-01T01:00:00Z"),
		testutil.Block("a", "one", "p", "main", "2025-01-02T00:00:00Z"),
		"free text block",
		testutil.Block("b", "two", "p", "main", "2025-01-03T00:00:00Z"),
	))

	active, passthrough := Classify(records)

	require.Len(t, active, 2)
	assert.Equal(t, "one", active[0].Session)
	assert.Equal(t, "two", active[1].Session)
	require.Len(t, passthrough, 2)
	assert.Equal(t, "done", passthrough[0].Session)
	assert.Equal(t, "free text block", passthrough[1].Raw)
}
