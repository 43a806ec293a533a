package cmd

import (
	"github.com/grovetools/sessionlog/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the sessionlog command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"sessionlog",
		"Maintain the Claude sessions log",
	)
	root.Long = `Maintain the flat sessions log (.current-sessions) written by Claude
session hooks. The main job is removing duplicate active sessions: for every
agent, project and branch only the most recently started session stays active.`

	root.AddCommand(
		NewDedupCmd(),
		NewStatusCmd(),
		NewSetCmd(),
		NewBackupCmd(),
		NewWatchCmd(),
		NewPathsCmd(),
		NewInitCmd(),
		NewConfigCmd(),
		cli.NewVersionCommand("sessionlog"),
	)
	return root
}
