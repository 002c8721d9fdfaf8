package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitkit/cutoffgo/metric"
)

func TestGenerateEmbedding(t *testing.T) {
	t.Run("Dimension", func(t *testing.T) {
		ix := New()
		emb := ix.GenerateEmbedding("computer science")
		assert.Len(t, emb, Dimension)
	})

	t.Run("Deterministic", func(t *testing.T) {
		ix := New()
		a := ix.GenerateEmbedding("IIT Bombay Computer Science 2024")
		b := ix.GenerateEmbedding("IIT Bombay Computer Science 2024")
		assert.Equal(t, a, b)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		ix := New()
		a := ix.GenerateEmbedding("Computer Science")
		b := ix.GenerateEmbedding("computer SCIENCE")
		assert.Equal(t, a, b)
	})

	t.Run("EmptyTextIsZeroVector", func(t *testing.T) {
		ix := New()
		for _, text := range []string{"", "   ", "\t\n"} {
			emb := ix.GenerateEmbedding(text)
			require.Len(t, emb, Dimension)
			for _, v := range emb {
				require.Zero(t, v)
			}
		}
	})

	t.Run("SingleTokenSlot", func(t *testing.T) {
		// "a" hashes to 97, which falls into slot 97; with one token the
		// weight is 1 and normalization keeps it at 1.
		ix := New()
		emb := ix.GenerateEmbedding("a")
		assert.Equal(t, float32(1), emb[97])

		var nonZero int
		for _, v := range emb {
			if v != 0 {
				nonZero++
			}
		}
		assert.Equal(t, 1, nonZero)
	})

	t.Run("UnitNorm", func(t *testing.T) {
		ix := New()
		emb := ix.GenerateEmbedding("engineering cutoff ranks delhi maharashtra josaa")
		assert.InDelta(t, 1.0, metric.Magnitude(emb), 1e-5)
	})

	t.Run("RepeatedTokensAccumulate", func(t *testing.T) {
		ix := New()
		// Both tokens land in the same slot, so the normalized vector is
		// identical to the single-token one.
		double := ix.GenerateEmbedding("a a")
		single := ix.GenerateEmbedding("a")
		assert.Equal(t, single, double)
	})

	t.Run("CountsGenerations", func(t *testing.T) {
		ix := New()
		ix.GenerateEmbedding("one")
		ix.GenerateEmbedding("two")
		assert.Equal(t, uint64(2), ix.Stats().TotalEmbeddingsGenerated)
	})
}

func TestTokenHash(t *testing.T) {
	assert.Equal(t, uint32(97), tokenHash("a"))
	// hash("ab") = 97*31 + 98
	assert.Equal(t, uint32(97*31+98), tokenHash("ab"))
	assert.NotEqual(t, tokenHash("ab"), tokenHash("ba"))
}
