package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/logger"
)

var batchCmd = &cobra.Command{
	Use:   "batch <folder>",
	Short: "Ingest every PDF in a folder",
	Long: `Ingests every .pdf file directly inside the folder, in listing order,
and merges the extracted text into the store.

A file that fails is reported and the batch continues. The command exits
with an error when any file failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errIngestNotConfigured
	}

	folder := args[0]
	p := newPainter(cmd.OutOrStdout())
	if isTerminal(cmd.ErrOrStderr()) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Ingesting PDFs in %s...\n", folder)
	}

	report, err := ingestService.IngestFolder(cmd.Context(), folder)
	if report == nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	printReport(cmd, p, report)
	if err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}
	if report.Failed() > 0 {
		return fmt.Errorf("%d of %d files failed", report.Failed(), len(report.Items))
	}
	return nil
}

func printReport(cmd *cobra.Command, p painter, report *domain.BatchReport) {
	cmd.Println(p.render(headerStyle, "Batch: "+report.Folder))
	if len(report.Items) == 0 {
		cmd.Println("No PDF files found.")
		return
	}
	for _, item := range report.Items {
		cmd.Println("  " + p.formatItem(item))
		if logger.IsVerbose() {
			for _, line := range p.formatPages(item) {
				cmd.Println("    " + line)
			}
		}
	}
	cmd.Println()

	summary := fmt.Sprintf("%d succeeded, %d failed", report.Succeeded(), report.Failed())
	if report.Failed() > 0 {
		cmd.Println(p.render(failStyle, summary))
	} else {
		cmd.Println(p.render(okStyle, summary))
	}
}
