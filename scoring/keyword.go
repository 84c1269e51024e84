package scoring

import "github.com/poiesic/curator/terms"

// KeywordScorer scores documents by TF-IDF cosine similarity.
// It holds no per-call state and is safe for concurrent use.
type KeywordScorer struct {
	tokenizer *terms.Tokenizer
}

// NewKeywordScorer creates a KeywordScorer. A nil tokenizer uses the defaults.
func NewKeywordScorer(tokenizer *terms.Tokenizer) *KeywordScorer {
	if tokenizer == nil {
		tokenizer = terms.NewTokenizer()
	}
	return &KeywordScorer{tokenizer: tokenizer}
}

// Index builds the term index for a corpus. The index is read-only and may
// be queried from several goroutines.
func (k *KeywordScorer) Index(corpus []string) *terms.Index {
	return terms.NewIndex(k.tokenizer, corpus)
}

// Score returns the similarity of query to every document in corpus.
// An empty corpus yields an empty slice; a query with no tokens yields zeros.
func (k *KeywordScorer) Score(corpus []string, query string) []float64 {
	if len(corpus) == 0 {
		return []float64{}
	}
	return k.Index(corpus).Similarities(query)
}

// ScoreAll scores every query against corpus using a single index.
// Result i holds the scores for queries[i].
func (k *KeywordScorer) ScoreAll(corpus []string, queries []string) [][]float64 {
	results := make([][]float64, len(queries))
	if len(corpus) == 0 {
		for i := range results {
			results[i] = []float64{}
		}
		return results
	}
	ix := k.Index(corpus)
	for i, query := range queries {
		results[i] = ix.Similarities(query)
	}
	return results
}
