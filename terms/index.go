package terms

import (
	"math"
	"slices"
)

// SparseVector is a term-weight vector. IDs are strictly increasing and
// Weights[i] is the weight of term IDs[i].
type SparseVector struct {
	IDs     []int
	Weights []float64
}

// Norm returns the Euclidean length of the vector.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, w := range v.Weights {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Index holds the vocabulary and TF-IDF vectors of one corpus.
type Index struct {
	tokenizer  *Tokenizer
	vocabulary map[string]int
	docFreq    []int
	docs       []SparseVector
	docNorms   []float64
}

// NewIndex tokenizes every document in corpus and builds its vocabulary.
// Term ids are assigned in order of first appearance so vectors are
// independent of map iteration order.
func NewIndex(tokenizer *Tokenizer, corpus []string) *Index {
	if tokenizer == nil {
		tokenizer = NewTokenizer()
	}
	ix := &Index{
		tokenizer:  tokenizer,
		vocabulary: make(map[string]int),
	}

	counts := make([]map[int]int, len(corpus))
	for i, text := range corpus {
		counts[i] = make(map[int]int)
		for _, token := range tokenizer.Tokenize(text) {
			id, ok := ix.vocabulary[token]
			if !ok {
				id = len(ix.docFreq)
				ix.vocabulary[token] = id
				ix.docFreq = append(ix.docFreq, 0)
			}
			if counts[i][id] == 0 {
				ix.docFreq[id]++
			}
			counts[i][id]++
		}
	}

	ix.docs = make([]SparseVector, len(corpus))
	ix.docNorms = make([]float64, len(corpus))
	for i, termCounts := range counts {
		ix.docs[i] = ix.weigh(termCounts)
		ix.docNorms[i] = ix.docs[i].Norm()
	}
	return ix
}

// Len returns the number of documents in the index.
func (ix *Index) Len() int {
	return len(ix.docs)
}

// VocabularySize returns the number of distinct corpus terms.
func (ix *Index) VocabularySize() int {
	return len(ix.docFreq)
}

// IDF returns the smoothed inverse document frequency of a term:
// ln((1+N)/(1+df)) + 1. A term present in every document weighs 1.
func (ix *Index) IDF(term string) float64 {
	id, ok := ix.vocabulary[term]
	if !ok {
		return 0
	}
	return ix.idf(id)
}

func (ix *Index) idf(id int) float64 {
	n := float64(len(ix.docs))
	return math.Log((1+n)/(1+float64(ix.docFreq[id]))) + 1
}

// DocumentVector returns the TF-IDF vector of document i.
func (ix *Index) DocumentVector(i int) SparseVector {
	return ix.docs[i]
}

// QueryVector projects text onto the index vocabulary. Terms that never
// occur in the corpus carry no weight.
func (ix *Index) QueryVector(text string) SparseVector {
	termCounts := make(map[int]int)
	for _, token := range ix.tokenizer.Tokenize(text) {
		if id, ok := ix.vocabulary[token]; ok {
			termCounts[id]++
		}
	}
	return ix.weigh(termCounts)
}

// Similarities returns the cosine similarity between the query and every
// document, in corpus order.
func (ix *Index) Similarities(query string) []float64 {
	scores := make([]float64, len(ix.docs))
	q := ix.QueryVector(query)
	qNorm := q.Norm()
	if qNorm == 0 {
		return scores
	}
	for i, doc := range ix.docs {
		scores[i] = cosine(q, doc, qNorm, ix.docNorms[i])
	}
	return scores
}

func (ix *Index) weigh(termCounts map[int]int) SparseVector {
	ids := make([]int, 0, len(termCounts))
	for id := range termCounts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	weights := make([]float64, len(ids))
	for i, id := range ids {
		weights[i] = float64(termCounts[id]) * ix.idf(id)
	}
	return SparseVector{IDs: ids, Weights: weights}
}

// Cosine returns the cosine similarity of two sparse vectors, clamped to
// [0,1]. A zero-length vector scores 0.
func Cosine(a, b SparseVector) float64 {
	return cosine(a, b, a.Norm(), b.Norm())
}

func cosine(a, b SparseVector, aNorm, bNorm float64) float64 {
	if aNorm == 0 || bNorm == 0 {
		return 0
	}
	var dot float64
	i, j := 0, 0
	for i < len(a.IDs) && j < len(b.IDs) {
		switch {
		case a.IDs[i] == b.IDs[j]:
			dot += a.Weights[i] * b.Weights[j]
			i++
			j++
		case a.IDs[i] < b.IDs[j]:
			i++
		default:
			j++
		}
	}
	return clamp01(dot / (aNorm * bNorm))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
