package memory

import "math"

// CosineSimilarity returns the cosine of the angle between a and b, a value
// in [-1, 1]. Vectors of different lengths and vectors with zero norm score
// 0, so callers never divide by zero or compare across dimensionalities.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
