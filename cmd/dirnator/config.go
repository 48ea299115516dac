package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/dirnator/pkg/dirnator/config"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: heredoc.Docf(`
			Manage dirnator configuration.

			Configuration is loaded from %s unless --config is given.
			Environment variables override the file using the %s_ prefix:
			  %s_ROOT=/srv
			  %s_WORKERS=16
			  %s_LOGGING_LEVEL=debug
		`, config.DefaultPath(), config.EnvPrefix, config.EnvPrefix, config.EnvPrefix, config.EnvPrefix),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				out := cmd.OutOrStdout()
				if used := c.v.ConfigFileUsed(); used != "" {
					fmt.Fprintf(out, "# config file: %s\n", used)
				} else {
					fmt.Fprintln(out, "# config file: none, using defaults")
				}

				data, err := yaml.Marshal(c.cfg)
				if err != nil {
					return fmt.Errorf("encoding config: %w", err)
				}
				_, err = out.Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create the default configuration file",
			Args:  cobra.NoArgs,
			// The file may not exist yet, so skip reading it.
			PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
			RunE: func(cmd *cobra.Command, _ []string) error {
				path := c.cfgFile
				if path == "" {
					path = config.DefaultPath()
				}

				written, err := config.WriteDefault(path)
				if err != nil {
					return err
				}
				if written {
					fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Config file already exists: %s\n", path)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the configuration file path",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), config.DefaultPath())
			},
		},
	)
	return cmd
}
