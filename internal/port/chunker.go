package port

type Chunker interface {
	Chunk(document string, maxWords int) ([]string, error)
}
