// Package poppler rasterises PDF pages with poppler's pdftoppm.
package poppler

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/folio/internal/adapters/driven/command"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure Rasteriser implements the interface.
var _ driven.Rasteriser = (*Rasteriser)(nil)

// outputPrefix is the file prefix handed to pdftoppm inside the scratch dir.
const outputPrefix = "page"

var packages = command.Packages{
	Brew:   "poppler",
	Apt:    "poppler-utils",
	Choco:  "poppler",
	Manual: "install poppler (https://poppler.freedesktop.org) and put pdftoppm on PATH",
}

// Rasteriser renders PDF pages to grayscale images through pdftoppm.
type Rasteriser struct {
	runner driven.CommandRunner
	binary string
}

// New creates a rasteriser running binary (a name or a path) through runner.
func New(runner driven.CommandRunner, binary string) *Rasteriser {
	if binary == "" {
		binary = domain.DefaultPdftoppmPath
	}
	return &Rasteriser{runner: runner, binary: binary}
}

// Name returns the rasteriser name.
func (r *Rasteriser) Name() string {
	return "pdftoppm"
}

// Available reports whether the pdftoppm binary can be found.
func (r *Rasteriser) Available() error {
	if _, err := r.runner.LookPath(r.binary); err != nil {
		return fmt.Errorf("%w: %s not found", domain.ErrMissingDependency, r.binary)
	}
	return nil
}

// InstallInstructions returns how to install poppler on this platform.
func (r *Rasteriser) InstallInstructions() string {
	return command.InstallInstructions(packages)
}

// Rasterise renders every page of pdfPath at dpi.
// The scratch directory is removed before returning.
func (r *Rasteriser) Rasterise(ctx context.Context, pdfPath string, dpi int) ([]domain.PageImage, error) {
	if dpi <= 0 {
		dpi = domain.DefaultDPI
	}

	dir, err := os.MkdirTemp("", "folio-raster-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	args := []string{"-r", strconv.Itoa(dpi), "-gray", "-png", pdfPath, filepath.Join(dir, outputPrefix)}
	if _, err := r.runner.Run(ctx, r.binary, args...); err != nil {
		return nil, fmt.Errorf("rasterising %s: %w", pdfPath, err)
	}

	files, err := pageFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("rasterising %s: %w: no pages produced", pdfPath, domain.ErrFormat)
	}

	pages := make([]domain.PageImage, 0, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := decodeGray(f.path)
		if err != nil {
			return nil, fmt.Errorf("decoding page %d: %w", f.number, err)
		}
		pages = append(pages, domain.PageImage{Index: i, Image: img})
	}
	logger.Debug("rasterised %d pages of %s at %d dpi", len(pages), pdfPath, dpi)
	return pages, nil
}

type pageFile struct {
	path   string
	number int
}

// pageFiles lists page-N.png outputs ordered by N. pdftoppm zero-pads N
// to the width of the page count, so lexical order is not enough.
func pageFiles(dir string) ([]pageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scratch dir: %w", err)
	}

	var files []pageFile
	for _, e := range entries {
		n, ok := pageNumber(e.Name())
		if !ok || e.IsDir() {
			continue
		}
		files = append(files, pageFile{path: filepath.Join(dir, e.Name()), number: n})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].number < files[j].number
	})
	return files, nil
}

// pageNumber parses N from "page-N.png".
func pageNumber(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, outputPrefix+"-")
	if !ok {
		return 0, false
	}
	digits, ok := strings.CutSuffix(rest, ".png")
	if !ok || digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// decodeGray reads a PNG and converts it to 8-bit grayscale if needed.
func decodeGray(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g, nil
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g, nil
}
