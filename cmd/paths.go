package cmd

import (
	"fmt"
	"os"

	"github.com/grovetools/sessionlog/cli"
	"github.com/grovetools/sessionlog/config"
	"github.com/grovetools/sessionlog/pkg/paths"
	"github.com/spf13/cobra"
)

// PathsOutput lists the paths sessionlog reads and writes.
type PathsOutput struct {
	ConfigDir    string                 `json:"config_dir"`
	ConfigFile   string                 `json:"config_file,omitempty"`
	StateDir     string                 `json:"state_dir"`
	LogDir       string                 `json:"log_dir"`
	ClaudeDir    string                 `json:"claude_dir"`
	SessionsFile string                 `json:"sessions_file"`
	BackupsDir   string                 `json:"backups_dir"`
	Protected    []paths.ProtectedEntry `json:"protected"`
}

func NewPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the paths used by sessionlog",
		Long: `Print the paths used by sessionlog as JSON.

- config_dir: user configuration (sessionlog.yml)
- config_file: the config file in effect, if any
- state_dir, log_dir: runtime state and log files
- sessions_file: the sessions log maintained by dedup
- backups_dir: snapshot directory of the backup command
- protected: user session data and how many files each location holds`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			sessionsPath, err := sessionsFile(cmd, cfg)
			if err != nil {
				return err
			}
			backupsDir, err := cfg.ResolveBackupsDir()
			if err != nil {
				return err
			}
			protected, err := paths.Protected()
			if err != nil {
				return fmt.Errorf("failed to list protected data: %w", err)
			}

			output := PathsOutput{
				ConfigDir:    paths.ConfigDir(),
				ConfigFile:   configFileInEffect(cmd),
				StateDir:     paths.StateDir(),
				LogDir:       paths.LogDir(),
				ClaudeDir:    paths.ClaudeDir(),
				SessionsFile: sessionsPath,
				BackupsDir:   backupsDir,
				Protected:    protected,
			}
			return printJSON(cmd, output)
		},
	}

	addFileFlag(cmd)
	return cmd
}

func configFileInEffect(cmd *cobra.Command) string {
	if file := cli.GetOptions(cmd).ConfigFile; file != "" {
		return file
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	file, err := config.FindConfigFile(cwd)
	if err != nil {
		return ""
	}
	return file
}
