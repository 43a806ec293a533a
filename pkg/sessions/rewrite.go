package sessions

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovetools/sessionlog/errors"
	"github.com/grovetools/sessionlog/logging"
	"github.com/grovetools/sessionlog/util/fsutil"
	"github.com/sirupsen/logrus"
)

// Outcome describes what a rewrite did to the sessions file.
type Outcome struct {
	Path       string  `json:"path"`
	BackupPath string  `json:"backup_path,omitempty"`
	Written    bool    `json:"written"`
	DryRun     bool    `json:"dry_run,omitempty"`
	Report     *Report `json:"report,omitempty"`
	// Output is the content that was (or, on a dry run, would be) written.
	Output string `json:"-"`
}

// Rewriter applies transformations to a sessions file: read whole, transform
// in memory, back up, then replace atomically.
type Rewriter struct {
	backup Backuper
	logger *logrus.Entry
}

// NewRewriter creates a Rewriter. A nil backup disables backups.
func NewRewriter(backup Backuper, logger *logrus.Entry) *Rewriter {
	if backup == nil {
		backup = NoBackup{}
	}
	if logger == nil {
		logger = logging.NewLogger("rewrite")
	}
	return &Rewriter{backup: backup, logger: logger}
}

// Read returns the content of the sessions file.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.SessionsFileNotFound(path)
		}
		return "", errors.ReadFailed(path, err)
	}
	return string(data), nil
}

// Dedup deduplicates the sessions file at path. Nothing is backed up or
// written when the output equals the input or dryRun is set.
func (w *Rewriter) Dedup(path string, d *Deduplicator, dryRun bool) (*Outcome, error) {
	content, err := Read(path)
	if err != nil {
		return nil, err
	}

	result, err := d.Deduplicate(content)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Path: path, DryRun: dryRun, Report: &result.Report, Output: result.Output}
	log := w.logger.WithFields(logrus.Fields{"path": path, "run_id": result.Report.RunID})
	if !result.Changed {
		log.Debug("Sessions file already deduplicated")
		return outcome, nil
	}
	if dryRun {
		log.Info("Dry run, sessions file left untouched")
		return outcome, nil
	}

	if err := w.commit(path, result.Output, outcome); err != nil {
		return nil, err
	}
	return outcome, nil
}

// Replace rewrites the sessions file so it holds exactly records, optionally
// followed by the completed blocks already in the file. A missing file is
// created.
func (w *Rewriter) Replace(path string, records []Record, keepCompleted bool) (*Outcome, error) {
	var existing string
	exists := true
	content, err := Read(path)
	switch {
	case err == nil:
		existing = content
	case errors.Is(err, errors.ErrCodeSessionsFileNotFound):
		exists = false
	default:
		return nil, err
	}

	blocks := make([]string, 0, len(records))
	for _, r := range records {
		blocks = append(blocks, Block(r))
	}
	if keepCompleted {
		for _, r := range ParseRecords(existing) {
			if r.IsCompleted() {
				blocks = append(blocks, Block(r))
			}
		}
	}

	output := Render(blocks)
	outcome := &Outcome{Path: path, Output: output}
	if exists && output == existing {
		return outcome, nil
	}
	if !exists {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.WriteFailed(path, err)
		}
		if err := fsutil.WriteFileAtomic(path, []byte(output), 0644); err != nil {
			return nil, errors.WriteFailed(path, err)
		}
		outcome.Written = true
		return outcome, nil
	}
	if err := w.commit(path, output, outcome); err != nil {
		return nil, err
	}
	return outcome, nil
}

func (w *Rewriter) commit(path, output string, outcome *Outcome) error {
	backupPath, err := w.backup.Backup(path)
	if err != nil {
		return errors.BackupFailed(path, err)
	}
	if backupPath != "" {
		w.logger.WithField("backup", backupPath).Info("Created backup")
	}
	outcome.BackupPath = backupPath

	mode := fsutil.FileMode(path, 0644)
	if err := fsutil.WriteFileAtomic(path, []byte(output), mode); err != nil {
		return errors.WriteFailed(path, err)
	}
	outcome.Written = true
	return nil
}

// ParseSessionList parses operator-supplied blocks for Replace. Every block
// must name an agent; completed blocks are rejected.
func ParseSessionList(content string) ([]Record, error) {
	records := ParseRecords(content)
	for _, r := range records {
		if !r.IsSession() {
			return nil, errors.InvalidInput(fmt.Sprintf("block %d has no %q line", r.Index+1, AgentPrefix))
		}
		if r.IsCompleted() {
			return nil, errors.InvalidInput(fmt.Sprintf("block %d (%s) is already completed", r.Index+1, r.Session))
		}
	}
	return records, nil
}
