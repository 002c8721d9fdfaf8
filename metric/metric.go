// Package metric provides pure-Go float32 vector math for similarity
// scoring.
package metric

import "math"

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

// Magnitude calculates the L2 norm (length) of a float32 slice.
func Magnitude(v []float32) float32 {
	return float32(math.Sqrt(float64(Dot(v, v))))
}

// SquaredL2 calculates the squared L2 distance between two float32 slices.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var distance float32
	for i := range a {
		distance += (a[i] - b[i]) * (a[i] - b[i])
	}

	return distance
}

// CosineSimilarity calculates the cosine similarity between two float32
// slices.
//
// Degenerate inputs are defined, not errors: vectors of differing length
// score exactly 0, and so does any pair where either vector has zero norm.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	dotProduct := Dot(a, b)
	magnitudeA := Magnitude(a)
	magnitudeB := Magnitude(b)

	// Avoid division by zero
	if magnitudeA == 0 || magnitudeB == 0 {
		return 0
	}

	return dotProduct / (magnitudeA * magnitudeB)
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm; v is left untouched in that case.
func NormalizeL2InPlace(v []float32) bool {
	norm := Magnitude(v)
	if norm == 0 {
		return false
	}

	// Per-component division, not multiplication by the reciprocal: the
	// embedding contract is bit-for-bit and the two can differ by an ulp.
	for i := range v {
		v[i] /= norm
	}

	return true
}
