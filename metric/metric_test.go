package metric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("IdenticalVectors", func(t *testing.T) {
		v := []float32{0.5, 1.5, -2.0, 3.0}
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-6)
	})

	t.Run("OrthogonalVectors", func(t *testing.T) {
		a := []float32{1, 0}
		b := []float32{0, 1}
		assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-6)
	})

	t.Run("OppositeVectors", func(t *testing.T) {
		a := []float32{1, 2, 3}
		b := []float32{-1, -2, -3}
		assert.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-6)
	})

	t.Run("Symmetry", func(t *testing.T) {
		a := []float32{0.2, -0.7, 1.3}
		b := []float32{2.5, 0.1, -0.4}
		assert.Equal(t, CosineSimilarity(a, b), CosineSimilarity(b, a))
	})

	t.Run("LengthMismatchIsZero", func(t *testing.T) {
		a := []float32{1, 2, 3}
		b := []float32{1, 2}
		assert.Equal(t, float32(0), CosineSimilarity(a, b))
	})

	t.Run("ZeroVectorIsZero", func(t *testing.T) {
		a := []float32{0, 0, 0}
		b := []float32{1, 2, 3}
		assert.Equal(t, float32(0), CosineSimilarity(a, b))
		assert.Equal(t, float32(0), CosineSimilarity(b, a))
	})

	t.Run("EmptyVectorsAreZero", func(t *testing.T) {
		assert.Equal(t, float32(0), CosineSimilarity(nil, nil))
	})
}

func TestDot(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 5, 6}
	assert.Equal(t, float32(32), Dot(a, b))
}

func TestMagnitude(t *testing.T) {
	assert.InDelta(t, 5.0, Magnitude([]float32{3, 4}), 1e-6)
	assert.Equal(t, float32(0), Magnitude(nil))
}

func TestSquaredL2(t *testing.T) {
	a := []float32{1, 2}
	b := []float32{4, 6}
	assert.Equal(t, float32(25), SquaredL2(a, b))
}

func TestNormalizeL2InPlace(t *testing.T) {
	t.Run("UnitNormAfter", func(t *testing.T) {
		v := []float32{3, 4}
		require.True(t, NormalizeL2InPlace(v))
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)
		assert.InDelta(t, 1.0, Magnitude(v), 1e-6)
	})

	t.Run("ComponentwiseDivisionExact", func(t *testing.T) {
		v := []float32{0.1, 0.2, 0.7, 1.3, 2.9}

		want := make([]float32, len(v))
		norm := Magnitude(v)
		for i := range v {
			want[i] = v[i] / norm
		}

		require.True(t, NormalizeL2InPlace(v))
		assert.Equal(t, want, v)
	})

	t.Run("ZeroVectorUntouched", func(t *testing.T) {
		v := []float32{0, 0, 0}
		require.False(t, NormalizeL2InPlace(v))
		assert.Equal(t, []float32{0, 0, 0}, v)
		assert.False(t, math.IsNaN(float64(v[0])))
	})
}
