package terms

// English stop words dropped when stop-word filtering is enabled.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "i": true, "me": true, "my": true, "we": true,
	"our": true, "or": true, "if": true, "so": true, "about": true, "want": true,
	"were": true, "been": true, "has": true, "had": true, "will": true, "would": true,
	"can": true, "could": true, "there": true, "their": true, "they": true, "them": true,
	"he": true, "she": true, "his": true, "her": true, "its": true, "what": true,
	"which": true, "who": true, "when": true, "where": true, "how": true, "all": true,
	"any": true, "some": true, "no": true, "into": true, "than": true, "then": true,
	"these": true, "those": true, "your": true, "us": true, "am": true,
}

// IsStopWord reports whether a folded token is an English stop word.
func IsStopWord(token string) bool {
	return stopWords[token]
}
