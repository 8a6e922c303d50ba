// Package chunker splits extracted text into fixed-size overlapping chunks.
package chunker

import (
	"fmt"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 2000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 100

// Split cuts text into ordered chunks of at most size characters, each
// overlapping its predecessor by overlap characters. Offsets count code
// points, not bytes, so multibyte text never splits mid-rune. The final
// chunk may be shorter than size. Empty text produces no chunks.
//
// The step between chunk starts is size-overlap, so overlap must be
// strictly smaller than size for the walk to make progress. Anything
// else is rejected rather than looping forever.
func Split(text string, size, overlap int) ([]domain.Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", domain.ErrInvalidInput, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative", domain.ErrInvalidInput, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", domain.ErrInvalidInput, overlap, size)
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	step := size - overlap
	chunks := make([]domain.Chunk, 0, len(runes)/step+1)

	for start, index := 0, 0; start < len(runes); start, index = start+step, index+1 {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{Index: index, Text: string(runes[start:end])})
	}

	return chunks, nil
}
