package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/folio/internal/core/domain"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB454"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// painter renders styles only when writing to a terminal,
// keeping piped output free of escape codes.
type painter struct {
	tty bool
}

func newPainter(w io.Writer) painter {
	return painter{tty: isTerminal(w)}
}

func (p painter) render(style lipgloss.Style, s string) string {
	if !p.tty {
		return s
	}
	return style.Render(s)
}

func (p painter) status(item domain.BatchItem) string {
	label := fmt.Sprintf("%-8s", item.Status)
	switch item.Status {
	case domain.StatusIngested:
		return p.render(okStyle, label)
	case domain.StatusEmpty:
		return p.render(warnStyle, label)
	default:
		return p.render(failStyle, label)
	}
}

// formatItem renders one outcome as a single line.
func (p painter) formatItem(item domain.BatchItem) string {
	var b strings.Builder
	b.WriteString(p.status(item))
	b.WriteString(" ")
	b.WriteString(item.Path)
	if item.Title != "" {
		b.WriteString(fmt.Sprintf(" %q", item.Title))
	}

	switch item.Status {
	case domain.StatusIngested:
		detail := fmt.Sprintf("%s, %d chars", item.Method, item.Chars)
		if item.Confidence > 0 {
			detail += fmt.Sprintf(", %.0f%% confidence", item.Confidence*100)
		}
		b.WriteString(p.render(dimStyle, " ("+detail+")"))
	case domain.StatusFailed:
		b.WriteString(p.render(dimStyle, fmt.Sprintf(" [%s] %v", domain.Kind(item.Err), item.Err)))
	}
	if len(item.FailedPages) > 0 {
		b.WriteString(p.render(warnStyle, fmt.Sprintf(" failed pages: %s", joinInts(item.FailedPages))))
	}
	return b.String()
}

// formatPages renders one line per OCR page with its confidence and
// deskew angle.
func (p painter) formatPages(item domain.BatchItem) []string {
	lines := make([]string, 0, len(item.Pages))
	for _, page := range item.Pages {
		if page.Err != nil {
			lines = append(lines, p.render(failStyle, fmt.Sprintf("page %d: %v", page.Number, page.Err)))
			continue
		}
		line := fmt.Sprintf("page %d: %d chars, %.0f%% confidence", page.Number, page.Chars, page.Confidence*100)
		if page.Angle != nil {
			line += fmt.Sprintf(", deskewed %.2f°", *page.Angle)
		} else if page.DeskewErr != nil {
			line += ", not deskewed"
		}
		lines = append(lines, p.render(dimStyle, line))
	}
	return lines
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
