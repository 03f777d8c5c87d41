package vectorizer

import "math"

// normalizeVector scales a vector to unit length. Cosine distance on the
// index assumes normalized vectors, and normalizing makes l2 ordering agree
// with cosine ordering for the same query.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
