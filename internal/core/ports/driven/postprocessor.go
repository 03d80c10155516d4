package driven

import "context"

// PostProcessor transforms extracted text.
// PostProcessors are chained in a pipeline (e.g., newline folding, Unicode normalisation).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process returns the transformed text.
	Process(ctx context.Context, text string) (string, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the text through all processors in order.
	Process(ctx context.Context, text string) (string, error)
}
