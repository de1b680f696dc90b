package compressor

import "context"

// PassthroughCompressor returns its input unchanged. Used for dry runs and
// tests where no compression service is available.
type PassthroughCompressor struct{}

func NewPassthroughCompressor() *PassthroughCompressor {
	return &PassthroughCompressor{}
}

func (c *PassthroughCompressor) Compress(_ context.Context, text string) (string, error) {
	return text, nil
}

func (c *PassthroughCompressor) ModelName() string {
	return "passthrough"
}

func (c *PassthroughCompressor) Close() error {
	return nil
}
