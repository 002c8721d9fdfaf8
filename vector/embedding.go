package vector

import (
	"strings"
	"time"

	"github.com/admitkit/cutoffgo/metric"
)

// Dimension is the fixed length of generated embeddings.
const Dimension = 384

// GenerateEmbedding produces a deterministic, model-free embedding of text.
//
// The scheme is a hash-bucket term-frequency vector: the text is lowercased
// and split on whitespace runs, each token is hashed into one of Dimension
// slots, every hit adds 1/tokenCount to its slot, and the result is
// L2-normalized. The output is a pure function of the input: the same text
// always yields bit-identical floats. Empty or whitespace-only text yields
// the all-zero vector.
func (ix *Index) GenerateEmbedding(text string) []float32 {
	start := time.Now()

	embedding := embedText(text)

	ix.mu.Lock()
	ix.counters.embeddings++
	ix.counters.embeddingTotalNanos += time.Since(start).Nanoseconds()
	ix.mu.Unlock()

	return embedding
}

func embedText(text string) []float32 {
	embedding := make([]float32, Dimension)

	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return embedding
	}

	weight := 1.0 / float32(len(tokens))
	for _, token := range tokens {
		embedding[tokenHash(token)%Dimension] += weight
	}

	// Zero norm is unreachable here (every token contributes positive
	// weight), but NormalizeL2InPlace keeps the all-zero contract anyway.
	metric.NormalizeL2InPlace(embedding)

	return embedding
}

// tokenHash is a 32-bit rolling hash over the token's UTF-8 bytes:
// hash = hash*31 + byte, wrapping mod 2^32. The exact arithmetic is part of
// the embedding contract and must not change.
func tokenHash(token string) uint32 {
	var hash uint32
	for i := 0; i < len(token); i++ {
		hash = hash*31 + uint32(token[i])
	}
	return hash
}
