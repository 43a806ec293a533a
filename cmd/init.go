package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/grovetools/sessionlog/cli"
	"github.com/grovetools/sessionlog/pkg/paths"
	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the session and configuration directories",
		Long: `Create the sessions, backups, configuration and log directories if they are
missing. Existing session data is never modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := paths.EnsureDirs()
			if err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}

			notes, _ := filepath.Glob(filepath.Join(paths.SessionsDir(), "*.md"))

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd, map[string]interface{}{
					"created":        created,
					"existing_notes": len(notes),
				})
			}

			p := stdout(cmd)
			if len(notes) > 0 {
				p.Success(fmt.Sprintf("Found %d existing session note(s), left untouched", len(notes)))
			}
			if len(created) == 0 {
				p.Success("All directories already exist")
				return nil
			}
			p.InfoPretty("Created directories:")
			for _, dir := range created {
				p.Item(dir, "")
			}
			p.Success(fmt.Sprintf("Created %d directories", len(created)))
			return nil
		},
	}
}
