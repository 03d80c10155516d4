// Package command runs external programs for adapters that shell out.
package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure Runner implements the interface.
var _ driven.CommandRunner = (*Runner)(nil)

// maxStderr bounds how much stderr is quoted in an error.
const maxStderr = 512

// Runner executes programs with os/exec.
type Runner struct{}

// NewRunner creates a new runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes name with args. The process is killed when ctx is done.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("exec %s %s", name, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > maxStderr {
			msg = msg[:maxStderr] + "..."
		}
		if msg == "" {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return stdout.Bytes(), nil
}

// LookPath resolves name against PATH.
func (r *Runner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
