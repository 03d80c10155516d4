package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/logger"
)

var (
	ingestOCRMode string
	ingestNoStore bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <path>",
	Short: "Extract text from a single file",
	Long: `Extracts text from a .txt, .md, .docx or .pdf file and merges it
into the store under the file path.

With --no-store the text is printed to stdout and the store is left
untouched. --ocr-mode overrides ocr.mode for this run.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestOCRMode, "ocr-mode", "", "PDF routing: always, fallback or off")
	ingestCmd.Flags().BoolVar(&ingestNoStore, "no-store", false, "Print text instead of storing it")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestFactory == nil {
		return errIngestNotConfigured
	}

	mode := domain.OCRMode(ingestOCRMode)
	if mode != "" && !mode.IsValid() {
		return fmt.Errorf("invalid --ocr-mode %q (valid: always, fallback, off)", ingestOCRMode)
	}

	svc, store, err := ingestFactory(mode, !ingestNoStore)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	path := args[0]
	item := svc.IngestFile(ctx, path)
	if item.Err != nil {
		return item.Err
	}

	if ingestNoStore {
		if item.Status == domain.StatusEmpty {
			return nil
		}
		text, err := store.Get(ctx, path)
		if err != nil {
			return fmt.Errorf("read extracted text: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}

	p := newPainter(cmd.OutOrStdout())
	cmd.Println(p.formatItem(item))
	if logger.IsVerbose() {
		for _, line := range p.formatPages(item) {
			cmd.Println("  " + line)
		}
	}
	if item.Status == domain.StatusIngested && store != nil {
		cmd.Printf("Stored in %s\n", store.Path())
	}
	return nil
}
