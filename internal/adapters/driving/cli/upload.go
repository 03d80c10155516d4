package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var uploadName string

var uploadCmd = &cobra.Command{
	Use:   "upload <file|->",
	Short: "Ingest uploaded bytes through the scratch directory",
	Long: `Copies the file (or stdin when the argument is "-") into a fresh
directory under upload.dir and ingests the copy.

--name sets the filename used for the copy; it decides the format and
is required when reading stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadName, "name", "", "Filename for the upload (required with stdin)")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errIngestNotConfigured
	}

	source := args[0]
	name := uploadName
	var (
		data []byte
		err  error
	)
	if source == "-" {
		if name == "" {
			return errors.New("--name is required when reading stdin")
		}
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		if name == "" {
			name = filepath.Base(source)
		}
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	result, err := ingestService.Upload(cmd.Context(), name, data)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	p := newPainter(cmd.OutOrStdout())
	cmd.Printf("Uploaded %s (%d bytes) to %s\n", result.Filename, result.Length, result.SavedPath)
	cmd.Println(p.formatItem(result.Item))
	return result.Item.Err
}
