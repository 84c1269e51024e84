package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier.
// It is used to detect when the text behind a cached embedding has changed.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Method selects which scorers contribute to a curation run.
type Method string

const (
	// MethodHybrid fuses keyword and semantic scores.
	MethodHybrid Method = "hybrid"
	// MethodSemantic ranks by embedding similarity only.
	MethodSemantic Method = "semantic"
	// MethodKeyword ranks by TF-IDF similarity only.
	MethodKeyword Method = "keyword"
	// MethodKeywordOnly is reported when a semantic or hybrid run had to fall
	// back to keyword scoring because the embedder was unavailable.
	MethodKeywordOnly Method = "keyword-only"
)

// UsesKeyword reports whether the method needs TF-IDF scores.
func (m Method) UsesKeyword() bool {
	return m == MethodHybrid || m == MethodKeyword || m == MethodKeywordOnly
}

// UsesSemantic reports whether the method needs embedding scores.
func (m Method) UsesSemantic() bool {
	return m == MethodHybrid || m == MethodSemantic
}

// Message is a single ingested message from any inbound platform.
// The engine treats it as read-only; only Content is scored. Timestamp is
// kept in whatever format the ingesting platform produced.
type Message struct {
	ID        string `json:"id"`
	Platform  string `json:"platform,omitempty"`
	Title     string `json:"title,omitempty"`
	Content   string `json:"content"`
	Sender    string `json:"sender,omitempty"`
	Chat      string `json:"chat,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ScoredMessage wraps a Message with the scores produced by one curation run.
type ScoredMessage struct {
	*Message

	// SemanticScore is nil when semantic scoring was disabled or degraded.
	SemanticScore *float64 `json:"semantic_score"`
	// TFIDFScore is nil when keyword scoring was disabled.
	TFIDFScore        *float64 `json:"tfidf_score"`
	HybridScore       float64  `json:"hybrid_score"`
	KeywordBonus      float64  `json:"keyword_bonus,omitempty"`
	MatchedPreference string   `json:"matched_preference,omitempty"`

	// Index is the message's position in the validated input batch.
	Index int `json:"-"`
}

// CurationStats summarizes the important section of a result.
type CurationStats struct {
	TotalImportant     int            `json:"total_important"`
	TotalRegular       int            `json:"total_regular"`
	AvgSemanticScore   float64        `json:"avg_semantic_score"`
	AvgTFIDFScore      float64        `json:"avg_tfidf_score"`
	AvgHybridScore     float64        `json:"avg_hybrid_score"`
	PreferencesMatched map[string]int `json:"preferences_matched"`
}

// CurationResult is the output of a single curation call.
type CurationResult struct {
	Important       []*ScoredMessage `json:"important"`
	Regular         []*ScoredMessage `json:"regular"`
	TotalCount      int              `json:"total_count"`
	ImportantCount  int              `json:"important_count"`
	PreferencesUsed []string         `json:"preferences_used"`
	CurationMethod  Method           `json:"curation_method"`
	CurationStats   CurationStats    `json:"curation_stats"`
}

// Float returns a pointer to v, for optional score fields.
func Float(v float64) *float64 {
	return &v
}
