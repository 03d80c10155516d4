package domain

// ItemStatus is the outcome of ingesting one file.
type ItemStatus string

const (
	// StatusIngested means text was extracted and merged into the store.
	StatusIngested ItemStatus = "ingested"

	// StatusEmpty means extraction succeeded but found no text.
	StatusEmpty ItemStatus = "empty"

	// StatusFailed means extraction or the store merge failed.
	StatusFailed ItemStatus = "failed"
)

// BatchItem is the outcome for one file of a batch, upload or watch event.
type BatchItem struct {
	// Path is the ingested file.
	Path string

	// Status tags the outcome.
	Status ItemStatus

	// Title is the document title, when the format carries one.
	Title string

	// Method is the extraction strategy, empty on failure.
	Method ExtractionMethod

	// Chars is the length of the stored body in characters.
	Chars int

	// Confidence is the mean OCR confidence in [0, 1], zero when unknown.
	Confidence float64

	// Pages holds per-page OCR outcomes, in page order.
	Pages []PageOutcome

	// FailedPages lists OCR pages that could not be recognised.
	FailedPages []int

	// Err is the failure, nil unless Status is StatusFailed.
	Err error
}

// OK reports whether the item did not fail.
func (i BatchItem) OK() bool {
	return i.Status != StatusFailed
}

// BatchReport collects per-file outcomes of a folder ingestion,
// in directory-listing order.
type BatchReport struct {
	// Folder is the ingested directory.
	Folder string

	// Items holds one entry per matching file.
	Items []BatchItem
}

// Succeeded counts items that did not fail.
func (r *BatchReport) Succeeded() int {
	n := 0
	for _, item := range r.Items {
		if item.OK() {
			n++
		}
	}
	return n
}

// Failed counts failed items.
func (r *BatchReport) Failed() int {
	return len(r.Items) - r.Succeeded()
}

// UploadResult is the outcome of ingesting uploaded bytes.
type UploadResult struct {
	// Filename is the client-supplied name.
	Filename string

	// SavedPath is where the bytes were written before ingestion.
	SavedPath string

	// Length is the byte length of the original upload.
	Length int

	// Item is the ingestion outcome.
	Item BatchItem
}

// ChangeType classifies a filesystem change seen in watch mode.
type ChangeType string

const (
	// ChangeCreated means a file appeared.
	ChangeCreated ChangeType = "created"

	// ChangeUpdated means an existing file was written.
	ChangeUpdated ChangeType = "updated"

	// ChangeDeleted means a file was removed or renamed away.
	ChangeDeleted ChangeType = "deleted"
)

// FileChange is one change to a file under a watched folder.
type FileChange struct {
	// Path is the changed file.
	Path string

	// Type is the kind of change.
	Type ChangeType
}
