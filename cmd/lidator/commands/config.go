package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/lidator/internal/config"
	"github.com/thoreinstein/lidator/internal/errors"
	"github.com/thoreinstein/lidator/internal/paths"
	"github.com/thoreinstein/lidator/pkg/ledger"
)

var configPathRules bool

func init() {
	configPathCmd.Flags().BoolVar(&configPathRules, "rules", false, "print the rules directory instead")

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage lidator configuration",
	Long: `Manage lidator configuration stored in config.yaml in the lidator
config directory. A config.yaml in the current directory takes precedence,
and LIDATOR_<KEY> environment variables override both.

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  lidator config

  # Get a specific value
  lidator config get output_format

  # Set a value
  lidator config set rules_file ~/rules/intake.yaml

See Also: lidator config path`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !slices.Contains(config.Keys(), key) {
			return errors.NewUserError(errors.Wrapf(config.ErrUnknownKey, "%q", key),
				"Valid keys: "+strings.Join(config.Keys(), ", "))
		}
		fmt.Fprintln(cmd.OutOrStdout(), viper.GetString(key))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save the configuration file.

The new configuration is checked before it is written; a value that would
make it invalid is rejected.`,
	Example: `  lidator config set output_format json
  lidator config set fail_on_warnings true`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format.`,
	RunE:  runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configPathRules {
			fmt.Fprintln(cmd.OutOrStdout(), paths.RulesDir())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.File())
		return nil
	},
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	data, err := yaml.Marshal(config.Current().Map())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	key, value := args[0], args[1]

	if err := config.Set(key, value); err != nil {
		return errors.NewUserError(err, "Valid keys: "+strings.Join(config.Keys(), ", "))
	}

	next := config.Current()
	report, err := config.Validate(next)
	if err != nil {
		return errors.NewSystemError(err, "")
	}
	if !report.IsValid() {
		return errors.NewUserError(errors.Wrapf(errors.ErrInvalidConfig, "%s", ledger.Format(report)), "")
	}

	path := config.File()
	if err := config.Save(path, next); err != nil {
		return errors.NewSystemError(err, "Check permissions on "+path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, viper.Get(key))
	return nil
}
