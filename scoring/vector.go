package scoring

import "math"

// CosineSimilarity returns the cosine of the angle between two vectors,
// clamped to [0,1]. Vectors of different length are compared over their
// common prefix. A zero vector scores 0.
func CosineSimilarity(a, b []float32) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range n {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 || math.IsNaN(sim) {
		return 0
	}
	return min(sim, 1)
}

// Similarities scores query against each document vector.
// A nil document vector scores 0.
func Similarities(query []float32, docs [][]float32) []float64 {
	scores := make([]float64, len(docs))
	for i, doc := range docs {
		if doc == nil {
			continue
		}
		scores[i] = CosineSimilarity(query, doc)
	}
	return scores
}
