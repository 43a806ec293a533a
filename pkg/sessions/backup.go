package sessions

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/grovetools/sessionlog/util/fsutil"
)

// BackupSuffixLayout is the timestamp layout of sibling backups.
const BackupSuffixLayout = "20060102150405"

// Backuper copies a file aside before it is rewritten.
type Backuper interface {
	Backup(path string) (string, error)
}

// maxBackupsPerSecond bounds the numeric suffixes tried for one timestamp.
const maxBackupsPerSecond = 100

// SiblingBackup copies a file to <path>.backup.<YYYYMMDDHHMMSS>. Backups
// taken within the same second get a .1, .2, ... suffix; an existing backup
// is never overwritten.
type SiblingBackup struct {
	Now func() time.Time
}

// Backup implements Backuper.
func (b SiblingBackup) Backup(path string) (string, error) {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	base := SiblingBackupPath(path, now())
	dst := base
	for i := 1; ; i++ {
		err := fsutil.CopyFileNew(path, dst)
		if err == nil {
			return dst, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
		if i > maxBackupsPerSecond {
			return "", fmt.Errorf("too many backups of %s within one second", path)
		}
		dst = fmt.Sprintf("%s.%d", base, i)
	}
}

// SiblingBackupPath returns the backup path for path at t.
func SiblingBackupPath(path string, t time.Time) string {
	return fmt.Sprintf("%s.backup.%s", path, t.Format(BackupSuffixLayout))
}

// NoBackup skips backups.
type NoBackup struct{}

// Backup implements Backuper.
func (NoBackup) Backup(string) (string, error) { return "", nil }

// DefaultKeepSnapshots is the snapshot retention used when none is configured.
const DefaultKeepSnapshots = 5

const snapshotPrefix = "backup-"

// Snapshotter copies the session notes, the sessions log and the session
// config into a timestamped directory and prunes old snapshots.
type Snapshotter struct {
	SessionsDir  string
	SessionsFile string
	ConfigFile   string
	BackupsDir   string
	Keep         int
	Now          func() time.Time
}

// Snapshot describes one snapshot directory.
type Snapshot struct {
	Dir     string   `json:"dir"`
	Files   []string `json:"files"`
	Notes   int      `json:"notes"`
	Removed []string `json:"removed,omitempty"`
}

// Snapshot creates a snapshot. It returns nil when there are no session
// notes to back up.
func (s Snapshotter) Snapshot() (*Snapshot, error) {
	entries, err := os.ReadDir(s.SessionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sessions directory: %w", err)
	}

	var notes []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			notes = append(notes, e.Name())
		}
	}
	if len(notes) == 0 {
		return nil, nil
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	dir := filepath.Join(s.BackupsDir, snapshotPrefix+now().UTC().Format("2006-01-02T15-04-05"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}

	snap := &Snapshot{Dir: dir, Notes: len(notes)}
	for _, name := range notes {
		if err := fsutil.CopyFile(filepath.Join(s.SessionsDir, name), filepath.Join(dir, name)); err != nil {
			return nil, fmt.Errorf("copy %s: %w", name, err)
		}
		snap.Files = append(snap.Files, name)
	}

	for _, extra := range []string{s.SessionsFile, s.ConfigFile} {
		if extra == "" {
			continue
		}
		if _, err := os.Stat(extra); err != nil {
			continue
		}
		name := filepath.Base(extra)
		if err := fsutil.CopyFile(extra, filepath.Join(dir, name)); err != nil {
			return nil, fmt.Errorf("copy %s: %w", name, err)
		}
		snap.Files = append(snap.Files, name)
	}

	removed, err := s.prune()
	if err != nil {
		return snap, err
	}
	snap.Removed = removed
	return snap, nil
}

// prune keeps the newest Keep snapshots. Names sort chronologically.
func (s Snapshotter) prune() ([]string, error) {
	keep := s.Keep
	if keep <= 0 {
		keep = DefaultKeepSnapshots
	}

	entries, err := os.ReadDir(s.BackupsDir)
	if err != nil {
		return nil, fmt.Errorf("read backups directory: %w", err)
	}
	var snapshots []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), snapshotPrefix) {
			snapshots = append(snapshots, e.Name())
		}
	}
	if len(snapshots) <= keep {
		return nil, nil
	}

	sort.Sort(sort.Reverse(sort.StringSlice(snapshots)))
	var removed []string
	for _, name := range snapshots[keep:] {
		if err := os.RemoveAll(filepath.Join(s.BackupsDir, name)); err != nil {
			return removed, fmt.Errorf("remove old snapshot %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}
