package cli

import (
	"github.com/grovetools/sessionlog/config"
	"github.com/grovetools/sessionlog/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds the options shared by every command.
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a root command with the standard flags.
// The flags are applied to logging before any subcommand runs.
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts := GetOptions(cmd)
			if opts.Verbose {
				logging.SetGlobalLevel(logrus.DebugLevel)
			}
			if opts.JSONOutput {
				logging.UseJSON()
			}
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to sessionlog.yml config file")

	SetStyledHelp(cmd)

	return cmd
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// LoadConfig loads the file named by --config, or searches from the
// current directory. Without a config file the defaults are returned.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := GetOptions(cmd)
	if opts.ConfigFile != "" {
		return config.Load(opts.ConfigFile)
	}
	return config.LoadDefault()
}
