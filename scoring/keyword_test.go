package scoring

import (
	"testing"

	"github.com/poiesic/curator/terms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordScorer_Score(t *testing.T) {
	scorer := NewKeywordScorer(nil)
	corpus := []string{
		"Python tutorial for beginners",
		"Best pasta recipes",
		"Advanced Python and machine learning",
	}

	scores := scorer.Score(corpus, "python")
	require.Len(t, scores, 3)
	assert.Greater(t, scores[0], 0.0)
	assert.Equal(t, 0.0, scores[1])
	assert.Greater(t, scores[2], 0.0)
	// Shorter document mentioning the term is closer to the query.
	assert.Greater(t, scores[0], scores[2])
}

func TestKeywordScorer_EdgeCases(t *testing.T) {
	scorer := NewKeywordScorer(nil)

	assert.Equal(t, []float64{}, scorer.Score(nil, "python"))
	assert.Equal(t, []float64{0, 0}, scorer.Score([]string{"a b", "c"}, ""))
	assert.Equal(t, []float64{0}, scorer.Score([]string{""}, "python"))
	assert.Equal(t, []float64{0}, scorer.Score([]string{"golang"}, "rust"))
}

func TestKeywordScorer_ScoreAllMatchesScore(t *testing.T) {
	scorer := NewKeywordScorer(terms.NewTokenizer(terms.WithStopWords(true)))
	corpus := []string{"the quick brown fox", "a lazy dog", "quick dogs and foxes"}
	queries := []string{"quick fox", "dog", "the"}

	all := scorer.ScoreAll(corpus, queries)
	require.Len(t, all, len(queries))
	for i, q := range queries {
		assert.Equal(t, scorer.Score(corpus, q), all[i], "query %q", q)
	}
	// Stop words carry no weight.
	assert.Equal(t, []float64{0, 0, 0}, all[2])
}

func TestKeywordScorer_ScoreAllEmptyCorpus(t *testing.T) {
	all := NewKeywordScorer(nil).ScoreAll(nil, []string{"a", "b"})
	assert.Equal(t, [][]float64{{}, {}}, all)
}
