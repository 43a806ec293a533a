package cmd

import (
	"fmt"

	"github.com/grovetools/sessionlog/cli"
	"github.com/grovetools/sessionlog/pkg/sessions"
	"github.com/spf13/cobra"
)

func NewDedupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedup",
		Short: "Remove duplicate active sessions from the sessions log",
		Long: `Group active sessions by agent, project and branch and keep only the most
recently started one of each group. The others are marked completed (demote)
or removed (discard). Completed sessions and unrecognised blocks are kept as
they are. The file is backed up first and only rewritten when something
changed.`,
		Example: `# Demote duplicates in the default sessions log
sessionlog dedup

# Preview what would be removed
sessionlog dedup --on-duplicate discard --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			path, err := sessionsFile(cmd, cfg)
			if err != nil {
				return err
			}
			d, err := newDeduplicator(cmd, cfg)
			if err != nil {
				return err
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			outcome, err := newRewriter(cmd, cfg).Dedup(path, d, dryRun)
			if err != nil {
				if warnMissing(cmd, err, path) {
					return nil
				}
				return err
			}

			if opts.JSONOutput {
				return printJSON(cmd, outcome)
			}
			printOutcome(cmd, outcome)
			return nil
		},
	}

	addFileFlag(cmd)
	addPolicyFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Report what would change without writing")
	cmd.Flags().Bool("no-backup", false, "Skip the backup copy")
	return cmd
}

func printOutcome(cmd *cobra.Command, outcome *sessions.Outcome) {
	p := stdout(cmd)
	report := outcome.Report

	p.Path("Sessions file", outcome.Path)
	p.Field("Active before", report.ActiveBefore)
	p.Field("Active after", report.ActiveAfter)
	if report.UnparseableTimestamps > 0 {
		p.Field("Unusable Started values", report.UnparseableTimestamps)
	}

	surplus := report.DemotedRecords
	verb := "Demoted"
	if report.Policy == sessions.PolicyDiscard {
		surplus = report.DiscardedRecords
		verb = "Discarded"
	}
	if len(surplus) == 0 {
		p.Success("No duplicate active sessions")
	} else {
		p.Blank()
		p.InfoPretty(fmt.Sprintf("%s %d duplicate session(s):", verb, len(surplus)))
		for _, r := range surplus {
			p.Item(r.Session, describe(r))
		}
		p.Blank()
	}

	switch {
	case outcome.DryRun:
		p.WarnPretty("Dry run: sessions file not modified")
	case outcome.Written:
		if outcome.BackupPath != "" {
			p.Path("Backup", outcome.BackupPath)
		}
		p.Success("Sessions file updated")
	}
}
