package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch <folder>",
	Short: "Ingest files as they appear in a folder",
	Long: `Watches the folder and ingests supported files when they are created
or written. Hidden files are skipped. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errIngestNotConfigured
	}

	folder := args[0]
	p := newPainter(cmd.OutOrStdout())
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", folder)

	var ingested, failed int
	err := ingestService.Watch(cmd.Context(), folder, func(item domain.BatchItem) {
		if item.OK() {
			ingested++
		} else {
			failed++
		}
		cmd.Println(p.formatItem(item))
	})
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Printf("Stopped: %d processed, %d failed\n", ingested, failed)
	return nil
}
