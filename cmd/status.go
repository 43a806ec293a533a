package cmd

import (
	"fmt"
	"time"

	"github.com/grovetools/sessionlog/cli"
	"github.com/grovetools/sessionlog/pkg/sessions"
	"github.com/spf13/cobra"
)

// StatusOutput is the JSON form of the status command.
type StatusOutput struct {
	Path       string            `json:"path"`
	Blocks     int               `json:"blocks"`
	Active     []sessions.Record `json:"active"`
	Completed  int               `json:"completed"`
	Other      int               `json:"other"`
	Duplicates []DuplicateGroup  `json:"duplicates,omitempty"`
}

// DuplicateGroup lists the sessions sharing one identity key, newest first.
type DuplicateGroup struct {
	Agent    string   `json:"agent"`
	Project  string   `json:"project"`
	Branch   string   `json:"branch"`
	Sessions []string `json:"sessions"`
}

func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show active sessions and pending duplicates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			path, err := sessionsFile(cmd, cfg)
			if err != nil {
				return err
			}
			_, timestamps, err := policies(cmd, cfg)
			if err != nil {
				return err
			}

			content, err := sessions.Read(path)
			if err != nil {
				if warnMissing(cmd, err, path) {
					return nil
				}
				return err
			}

			status := buildStatus(path, content, timestamps)
			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd, status)
			}
			printStatus(cmd, status)
			return nil
		},
	}

	addFileFlag(cmd)
	return cmd
}

func buildStatus(path, content string, timestamps sessions.TimestampPolicy) StatusOutput {
	records := sessions.ParseRecords(content)
	active, passthrough := sessions.Classify(records)

	status := StatusOutput{
		Path:   path,
		Blocks: len(records),
		Active: active,
	}
	for _, r := range passthrough {
		if r.IsCompleted() {
			status.Completed++
		} else {
			status.Other++
		}
	}

	groups, _ := sessions.GroupActive(active, sessions.NewestFirst(timestamps, time.Now()))
	for _, g := range groups {
		if len(g.Members) < 2 {
			continue
		}
		dup := DuplicateGroup{Agent: g.Key.Agent, Project: g.Key.Project, Branch: g.Key.Branch}
		for _, r := range g.Members {
			dup.Sessions = append(dup.Sessions, r.Session)
		}
		status.Duplicates = append(status.Duplicates, dup)
	}
	return status
}

func printStatus(cmd *cobra.Command, status StatusOutput) {
	p := stdout(cmd)

	p.Path("Sessions file", status.Path)
	p.Field("Active", len(status.Active))
	p.Field("Completed", status.Completed)
	if status.Other > 0 {
		p.Field("Other blocks", status.Other)
	}

	if len(status.Active) > 0 {
		p.Blank()
		p.InfoPretty("Active sessions:")
		for _, r := range status.Active {
			p.Item(r.Session, describe(r))
		}
	}

	p.Blank()
	if len(status.Duplicates) == 0 {
		p.Success("No duplicate active sessions")
		return
	}
	p.WarnPretty(fmt.Sprintf("%d group(s) with duplicate active sessions; run 'sessionlog dedup'", len(status.Duplicates)))
	for _, d := range status.Duplicates {
		p.Item(fmt.Sprintf("%s @ %s [%s]", d.Agent, d.Project, d.Branch), fmt.Sprintf("%d sessions", len(d.Sessions)))
	}
}
