package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/sessionlog/config"
	"github.com/grovetools/sessionlog/errors"
	"github.com/grovetools/sessionlog/logging"
	"github.com/grovetools/sessionlog/pkg/sessions"
	"github.com/grovetools/sessionlog/util/pathutil"
	"github.com/spf13/cobra"
)

func addFileFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Sessions log to operate on (default from config)")
}

func addPolicyFlags(cmd *cobra.Command) {
	cmd.Flags().String("on-duplicate", "", "Surplus active sessions: demote or discard (default from config)")
	cmd.Flags().String("timestamps", "", "Unparseable Started values: oldest, now or strict (default from config)")
}

// sessionsFile resolves the log path. --file wins over the config.
func sessionsFile(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if f := cmd.Flags().Lookup("file"); f != nil && f.Value.String() != "" {
		return pathutil.Expand(f.Value.String())
	}
	return cfg.ResolveSessionsFile()
}

// flagOr returns the flag value when it was set on the command line.
func flagOr(cmd *cobra.Command, name, fallback string) string {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return f.Value.String()
	}
	return fallback
}

func policies(cmd *cobra.Command, cfg *config.Config) (sessions.Policy, sessions.TimestampPolicy, error) {
	policy, err := sessions.ParsePolicy(flagOr(cmd, "on-duplicate", cfg.OnDuplicate))
	if err != nil {
		return "", "", err
	}
	timestamps, err := sessions.ParseTimestampPolicy(flagOr(cmd, "timestamps", cfg.TimestampPolicy))
	if err != nil {
		return "", "", err
	}
	return policy, timestamps, nil
}

func newDeduplicator(cmd *cobra.Command, cfg *config.Config) (*sessions.Deduplicator, error) {
	policy, timestamps, err := policies(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return sessions.NewDeduplicator(sessions.Options{
		OnDuplicate: policy,
		Timestamps:  timestamps,
	}), nil
}

func newRewriter(cmd *cobra.Command, cfg *config.Config) *sessions.Rewriter {
	noBackup, _ := cmd.Flags().GetBool("no-backup")
	if noBackup || !cfg.BackupEnabled() {
		return sessions.NewRewriter(sessions.NoBackup{}, nil)
	}
	return sessions.NewRewriter(sessions.SiblingBackup{}, nil)
}

func stdout(cmd *cobra.Command) *logging.PrettyLogger {
	return logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// warnMissing reports a missing sessions file as a warning. It returns
// false for every other error.
func warnMissing(cmd *cobra.Command, err error, path string) bool {
	if !errors.Is(err, errors.ErrCodeSessionsFileNotFound) {
		return false
	}
	logging.NewPrettyLogger().WithWriter(cmd.ErrOrStderr()).
		WarnPretty(fmt.Sprintf("Sessions file not found: %s", path))
	return true
}

func describe(r sessions.Record) string {
	return fmt.Sprintf("%s @ %s [%s], started %s", r.Agent, r.Project, r.Branch, r.Started.String())
}
