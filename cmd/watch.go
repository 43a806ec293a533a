package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/sessionlog/cli"
	"github.com/grovetools/sessionlog/errors"
	"github.com/grovetools/sessionlog/logging"
	"github.com/grovetools/sessionlog/pkg/sessions"
	"github.com/spf13/cobra"
)

func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Deduplicate the sessions log whenever it changes",
		Long: `Run dedup once, then again every time the sessions log is written.
Bursts of writes are coalesced (watch.debounce_ms, default 250ms). Stop with
Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger("watch")

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
			rewriter := newRewriter(cmd, cfg)

			run := func() error {
				outcome, err := rewriter.Dedup(path, d, false)
				if err != nil {
					if errors.Is(err, errors.ErrCodeSessionsFileNotFound) {
						logger.WithField("path", path).Debug("Sessions file not present yet")
						return nil
					}
					return err
				}
				if outcome.Written {
					logger.WithField("path", path).
						WithField("demoted", outcome.Report.Demoted).
						WithField("discarded", outcome.Report.Discarded).
						Info("Deduplicated sessions file")
				}
				return nil
			}

			debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
			w, err := sessions.NewWatcher(path, debounce, run, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.WithField("path", path).Info("Watching sessions file")
			if err := w.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	addFileFlag(cmd)
	addPolicyFlags(cmd)
	cmd.Flags().Bool("no-backup", false, "Skip the backup copy")
	return cmd
}
