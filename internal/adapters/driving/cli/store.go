package cli

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect the extracted text store",
	Long:  `List, read and remove entries of the JSON store that ingestion merges into.`,
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored paths",
	Args:  cobra.NoArgs,
	RunE:  runStoreList,
}

var storeGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Print the stored text for a path",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreGet,
}

var storeRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove a path from the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreRemove,
}

var storePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the store file location",
	Args:  cobra.NoArgs,
	RunE:  runStorePath,
}

func init() {
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeGetCmd)
	storeCmd.AddCommand(storeRemoveCmd)
	storeCmd.AddCommand(storePathCmd)
	rootCmd.AddCommand(storeCmd)
}

var errStoreNotConfigured = errors.New("store service not configured")

func runStoreList(cmd *cobra.Command, _ []string) error {
	if storeService == nil {
		return errStoreNotConfigured
	}

	entries, err := storeService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list store: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("Store is empty.")
		return nil
	}

	p := newPainter(cmd.OutOrStdout())
	for _, entry := range entries {
		chars := utf8.RuneCountInString(entry.Value)
		cmd.Printf("%s %s\n", entry.Key, p.render(dimStyle, fmt.Sprintf("(%d chars)", chars)))
	}
	return nil
}

func runStoreGet(cmd *cobra.Command, args []string) error {
	if storeService == nil {
		return errStoreNotConfigured
	}

	text, err := storeService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", args[0], err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func runStoreRemove(cmd *cobra.Command, args []string) error {
	if storeService == nil {
		return errStoreNotConfigured
	}

	if err := storeService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove %s: %w", args[0], err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runStorePath(cmd *cobra.Command, _ []string) error {
	if storeService == nil {
		return errStoreNotConfigured
	}
	fmt.Fprintln(cmd.OutOrStdout(), storeService.Path())
	return nil
}
