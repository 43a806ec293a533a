package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/sessionlog/cli"
	"github.com/grovetools/sessionlog/errors"
	"github.com/grovetools/sessionlog/pkg/sessions"
	"github.com/grovetools/sessionlog/util/pathutil"
	"github.com/spf13/cobra"
)

func NewSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the active sessions with a given list",
		Long: `Rewrite the sessions log so it holds exactly the sessions read from --from.
Every block must name an agent and must not be completed. With
--keep-completed the completed blocks already in the log are kept after the
new active sessions. The log is backed up first.`,
		Example: `# Reset the log from a prepared file
sessionlog set --from active.md

# Read the blocks from stdin and keep the history
cat active.md | sessionlog set --from - --keep-completed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")
			keepCompleted, _ := cmd.Flags().GetBool("keep-completed")

			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			path, err := sessionsFile(cmd, cfg)
			if err != nil {
				return err
			}

			content, err := readSource(cmd, from)
			if err != nil {
				return err
			}
			records, err := sessions.ParseSessionList(content)
			if err != nil {
				return err
			}

			outcome, err := newRewriter(cmd, cfg).Replace(path, records, keepCompleted)
			if err != nil {
				return err
			}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd, struct {
					*sessions.Outcome
					Active []sessions.Record `json:"active"`
				}{outcome, records})
			}

			p := stdout(cmd)
			p.Path("Sessions file", outcome.Path)
			for _, r := range records {
				p.Item(r.Session, describe(r))
			}
			if !outcome.Written {
				p.Success("Sessions file already matches")
				return nil
			}
			if outcome.BackupPath != "" {
				p.Path("Backup", outcome.BackupPath)
			}
			p.Success(fmt.Sprintf("Set %d active session(s)", len(records)))
			return nil
		},
	}

	addFileFlag(cmd)
	cmd.Flags().String("from", "", "File with the session blocks to keep, or - for stdin")
	cmd.Flags().Bool("keep-completed", false, "Keep completed sessions already in the log")
	cmd.Flags().Bool("no-backup", false, "Skip the backup copy")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func readSource(cmd *cobra.Command, from string) (string, error) {
	if from == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.ReadFailed("stdin", err)
		}
		return string(data), nil
	}

	path, err := pathutil.Expand(from)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.InvalidInput(fmt.Sprintf("input file not found: %s", path))
		}
		return "", errors.ReadFailed(path, err)
	}
	return string(data), nil
}
