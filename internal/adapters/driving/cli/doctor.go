package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check runtime dependencies",
	Long: `Checks that the PDF rasteriser, the OCR engine and every document
extractor are available, and prints install instructions for anything
missing.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if doctorService == nil {
		return errors.New("doctor service not configured")
	}

	p := newPainter(cmd.OutOrStdout())
	statuses := doctorService.Check(cmd.Context())

	problems := 0
	for _, status := range statuses {
		if status.Err == nil {
			cmd.Printf("%s %s\n", p.render(okStyle, "[ok]     "), status.Name)
			continue
		}
		problems++
		cmd.Printf("%s %s: %v\n", p.render(failStyle, "[missing]"), status.Name, status.Err)
		if status.Help != "" {
			for _, line := range strings.Split(status.Help, "\n") {
				cmd.Println("          " + p.render(dimStyle, line))
			}
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d of %d checks failed", problems, len(statuses))
	}
	cmd.Println()
	cmd.Println(p.render(okStyle, "All dependencies available."))
	return nil
}
