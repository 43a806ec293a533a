package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/grovetools/sessionlog/cli"
	"github.com/grovetools/sessionlog/errors"
	"github.com/grovetools/sessionlog/pkg/paths"
	"github.com/grovetools/sessionlog/pkg/sessions"
	"github.com/spf13/cobra"
)

func NewBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot session notes and the sessions log",
		Long: `Copy every session note (*.md) from the sessions directory, together with
the sessions log and session-config, into a timestamped backup-* directory.
Only the newest snapshots are kept (backup.keep, default 5).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			path, err := sessionsFile(cmd, cfg)
			if err != nil {
				return err
			}
			backupsDir, err := cfg.ResolveBackupsDir()
			if err != nil {
				return err
			}
			keep := cfg.Backup.Keep
			if n, _ := cmd.Flags().GetInt("keep"); n > 0 {
				keep = n
			}

			s := sessions.Snapshotter{
				SessionsDir:  filepath.Dir(path),
				SessionsFile: path,
				ConfigFile:   paths.SessionConfigFile(),
				BackupsDir:   backupsDir,
				Keep:         keep,
			}
			snap, err := s.Snapshot()
			if err != nil {
				return errors.BackupFailed(s.SessionsDir, err)
			}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd, snap)
			}

			p := stdout(cmd)
			if snap == nil {
				p.InfoPretty("No session notes to back up")
				return nil
			}
			p.Success(fmt.Sprintf("Backed up %d session note(s)", snap.Notes))
			p.Path("Snapshot", snap.Dir)
			for _, name := range snap.Removed {
				p.Item(name, "removed")
			}
			return nil
		},
	}

	addFileFlag(cmd)
	cmd.Flags().Int("keep", 0, "Number of snapshots to keep (default from config)")
	return cmd
}
