// Package tesseractcli recognises page text by running the tesseract binary.
// It needs no cgo toolchain, only the program on PATH.
package tesseractcli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/folio/internal/adapters/driven/command"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure Recogniser implements the interface.
var _ driven.Recogniser = (*Recogniser)(nil)

var packages = command.Packages{
	Brew:   "tesseract",
	Apt:    "tesseract-ocr",
	Choco:  "tesseract",
	Manual: "install tesseract (https://github.com/tesseract-ocr/tesseract) and put it on PATH",
}

// Recogniser runs the tesseract command line program.
type Recogniser struct {
	runner    driven.CommandRunner
	binary    string
	languages []string
}

// New creates a recogniser running binary through runner.
func New(runner driven.CommandRunner, binary string, languages []string) *Recogniser {
	if binary == "" {
		binary = domain.DefaultTesseractPath
	}
	return &Recogniser{runner: runner, binary: binary, languages: languages}
}

// Name returns the engine name.
func (r *Recogniser) Name() string {
	return "tesseract (command)"
}

// Available reports whether the tesseract binary can be found.
func (r *Recogniser) Available() error {
	if _, err := r.runner.LookPath(r.binary); err != nil {
		return fmt.Errorf("%w: %s not found", domain.ErrMissingDependency, r.binary)
	}
	return nil
}

// InstallInstructions returns how to install tesseract on this platform.
func (r *Recogniser) InstallInstructions() string {
	return command.InstallInstructions(packages)
}

// Recognise writes the page to a scratch file and reads text from stdout.
// The command reports no confidence.
func (r *Recogniser) Recognise(ctx context.Context, in driven.RecogniseInput) (*driven.RecogniseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", fmt.Sprintf("folio-page-%d-*.png", in.Page))
	if err != nil {
		return nil, fmt.Errorf("creating scratch image: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(in.Image); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing scratch image: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("writing scratch image: %w", err)
	}

	out, err := r.runner.Run(ctx, r.binary, r.args(f.Name(), in)...)
	if err != nil {
		return nil, fmt.Errorf("recognise text: %w", err)
	}
	return &driven.RecogniseResult{Text: strings.TrimSpace(string(out))}, nil
}

func (r *Recogniser) args(imagePath string, in driven.RecogniseInput) []string {
	args := []string{imagePath, "stdout"}
	langs := in.Languages
	if len(langs) == 0 {
		langs = r.languages
	}
	if len(langs) > 0 {
		args = append(args, "-l", strings.Join(langs, "+"))
	}
	if in.DPI > 0 {
		args = append(args, "--dpi", strconv.Itoa(in.DPI))
	}
	return args
}
