package driven

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// FolderWatcher reports changes to files under a folder.
type FolderWatcher interface {
	// Watch streams changes until ctx is done, then closes the channel.
	// Hidden files and directories are not reported.
	Watch(ctx context.Context, folder string) (<-chan domain.FileChange, error)
}
