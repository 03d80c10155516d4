package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change settings stored in the configuration file.

Keys use dot notation, for example:
  folio config set ocr.mode fallback
  folio config set ocr.languages eng,deu`,
	Annotations: map[string]string{standaloneAnnotation: "true"},
	RunE:        runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one or all settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var errSettingsNotConfigured = errors.New("settings service not configured")

func runConfigShow(cmd *cobra.Command, _ []string) error {
	return runConfigGet(cmd, nil)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	if len(args) == 1 {
		value, err := settingsService.Value(args[0])
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	}

	p := newPainter(cmd.OutOrStdout())
	for _, key := range settingsService.Keys() {
		value, err := settingsService.Value(key)
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", key, err)
		}
		cmd.Printf("%s = %s\n", p.render(headerStyle, key), value)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s set to %s\n", args[0], args[1])
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}
	fmt.Fprintln(cmd.OutOrStdout(), settingsService.Path())
	return nil
}
