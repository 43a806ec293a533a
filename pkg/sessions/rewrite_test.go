package sessions

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/sessionlog/errors"
	"github.com/grovetools/sessionlog/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(logger)
}

func fixedClock() time.Time {
	return time.Date(2025, 2, 1, 12, 0, 0, 0, time.Local)
}

func TestRewriterDedupWritesBackupAndOutput(t *testing.T) {
	dir := t.TempDir()
	input := testutil.Log(older, newer)
	path := testutil.WriteSessionsFile(t, dir, input)

	w := NewRewriter(SiblingBackup{Now: fixedClock}, quietLogger())
	outcome, err := w.Dedup(path, newTestDeduplicator(PolicyDemote, TimestampsOldest), false)
	require.NoError(t, err)

	assert.True(t, outcome.Written)
	assert.Equal(t, path+".backup.20250201120000", outcome.BackupPath)
	assert.Equal(t, input, testutil.ReadFile(t, outcome.BackupPath))
	assert.Equal(t, outcome.Output, testutil.ReadFile(t, path))
	assert.Equal(t, 1, outcome.Report.Demoted)
}

func TestRewriterDiscardRunsInSameSecondKeepEveryOriginal(t *testing.T) {
	dir := t.TempDir()
	first := testutil.Log(older, newer)
	path := testutil.WriteSessionsFile(t, dir, first)
	w := NewRewriter(SiblingBackup{Now: fixedClock}, quietLogger())
	d := newTestDeduplicator(PolicyDiscard, TimestampsOldest)

	outcome1, err := w.Dedup(path, d, false)
	require.NoError(t, err)

	other := testutil.Block("agent-x", "other.md", "proj-a", "main", "2024-06-01T00:00:00Z")
	second := testutil.Log(newer, other)
	require.NoError(t, os.WriteFile(path, []byte(second), 0644))

	outcome2, err := w.Dedup(path, d, false)
	require.NoError(t, err)

	assert.NotEqual(t, outcome1.BackupPath, outcome2.BackupPath)
	assert.Equal(t, first, testutil.ReadFile(t, outcome1.BackupPath))
	assert.Equal(t, second, testutil.ReadFile(t, outcome2.BackupPath))
	assert.Equal(t, testutil.Log(newer), testutil.ReadFile(t, path))
}

func TestRewriterDedupUnchangedSkipsWrite(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSessionsFile(t, dir, testutil.Log(newer, done))

	w := NewRewriter(SiblingBackup{Now: fixedClock}, quietLogger())
	outcome, err := w.Dedup(path, newTestDeduplicator(PolicyDemote, TimestampsOldest), false)
	require.NoError(t, err)

	assert.False(t, outcome.Written)
	assert.Empty(t, outcome.BackupPath)
	assert.Empty(t, testutil.Glob(t, dir, ".current-sessions.backup.*"))
}

func TestRewriterDedupDryRun(t *testing.T) {
	dir := t.TempDir()
	input := testutil.Log(older, newer)
	path := testutil.WriteSessionsFile(t, dir, input)

	w := NewRewriter(SiblingBackup{Now: fixedClock}, quietLogger())
	outcome, err := w.Dedup(path, newTestDeduplicator(PolicyDiscard, TimestampsOldest), true)
	require.NoError(t, err)

	assert.False(t, outcome.Written)
	assert.True(t, outcome.DryRun)
	assert.Equal(t, testutil.Log(newer), outcome.Output)
	assert.Equal(t, input, testutil.ReadFile(t, path))
}

func TestRewriterDedupMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".current-sessions")

	w := NewRewriter(nil, quietLogger())
	_, err := w.Dedup(path, newTestDeduplicator(PolicyDemote, TimestampsOldest), false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeSessionsFileNotFound))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "missing file must not be created")
}

type failingBackup struct{}

func (failingBackup) Backup(string) (string, error) { return "", os.ErrPermission }

func TestRewriterBackupFailureLeavesFile(t *testing.T) {
	dir := t.TempDir()
	input := testutil.Log(older, newer)
	path := testutil.WriteSessionsFile(t, dir, input)

	w := NewRewriter(failingBackup{}, quietLogger())
	_, err := w.Dedup(path, newTestDeduplicator(PolicyDemote, TimestampsOldest), false)

	assert.True(t, errors.Is(err, errors.ErrCodeBackupFailed))
	assert.Equal(t, input, testutil.ReadFile(t, path))
}

func TestRewriterReplace(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSessionsFile(t, dir, testutil.Log(older, newer, done))

	keep, err := ParseSessionList(testutil.Log(newer))
	require.NoError(t, err)

	w := NewRewriter(SiblingBackup{Now: fixedClock}, quietLogger())

	outcome, err := w.Replace(path, keep, true)
	require.NoError(t, err)
	assert.True(t, outcome.Written)
	assert.NotEmpty(t, outcome.BackupPath)
	assert.Equal(t, testutil.Log(newer, done), testutil.ReadFile(t, path))

	outcome, err = w.Replace(path, keep, false)
	require.NoError(t, err)
	assert.Equal(t, testutil.Log(newer), testutil.ReadFile(t, path))

	outcome, err = w.Replace(path, keep, false)
	require.NoError(t, err)
	assert.False(t, outcome.Written, "identical content should not be rewritten")
}

func TestRewriterReplaceCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions", ".current-sessions")
	records := []Record{{Agent: "a", Session: "s.md", Project: "/p", Branch: "main", Started: Parsed(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))}}

	outcome, err := NewRewriter(SiblingBackup{}, quietLogger()).Replace(path, records, true)
	require.NoError(t, err)

	assert.True(t, outcome.Written)
	assert.Empty(t, outcome.BackupPath)
	assert.Equal(t, Format(records[0])+"\n", testutil.ReadFile(t, path))
}

func TestParseSessionListRejectsBadBlocks(t *testing.T) {
	_, err := ParseSessionList("just text")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = ParseSessionList(testutil.Log(done))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}
