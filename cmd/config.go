package cmd

import (
	"fmt"

	"github.com/grovetools/sessionlog/cli"
	"github.com/grovetools/sessionlog/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the sessionlog configuration",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSchemaCmd(), newConfigValidateCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with defaults and environment applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd, cfg)
			}

			if file := configFileInEffect(cmd); file != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# Source: %s\n", file)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			if len(cfg.Extensions) > 0 {
				data, err := yaml.Marshal(cfg.Extensions)
				if err != nil {
					return fmt.Errorf("failed to marshal config extensions: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), string(data))
			}
			return nil
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of sessionlog.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(args[0]); err != nil {
				return err
			}
			stdout(cmd).Success(fmt.Sprintf("%s is valid", args[0]))
			return nil
		},
	}
}
