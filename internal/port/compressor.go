package port

import "context"

// Compressor is the external text-compression model. It is constructed once
// per process, reused across calls, and released via Close at process end.
type Compressor interface {
	// Compress returns a shortened rendition of text. The compression rate
	// is fixed at construction; the chunking layer never interprets it.
	Compress(ctx context.Context, text string) (string, error)

	// ModelName returns the name of the compression model.
	ModelName() string

	Close() error
}
