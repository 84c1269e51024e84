// Package fusion combines per-preference keyword and semantic scores into a
// ranked, annotated curation result.
package fusion

import (
	"cmp"
	"slices"
	"strings"

	"github.com/poiesic/curator/core"
)

// Params controls how scores are fused and split.
type Params struct {
	// Method selects which score matrices contribute to the pair score.
	Method core.Method

	SemanticWeight float64
	KeywordWeight  float64

	// ImportanceThreshold is the exclusive lower bound for importance.
	ImportanceThreshold float64

	// TopKFallback messages with a positive score become important when
	// nothing passes the threshold. Zero disables the fallback.
	TopKFallback int

	// MaxImportant caps the important section. Zero means unlimited.
	MaxImportant int

	// KeywordBonus is added once per preference that occurs verbatim in the
	// message content; the total is capped at KeywordBonusCap. Zero
	// disables it.
	KeywordBonus    float64
	KeywordBonusCap float64
}

// Input holds the score matrices of one curation call. Matrices are indexed
// [preference][message]; a matrix is nil when its scorer did not run.
type Input struct {
	Messages    []*core.Message
	Preferences []string
	Keyword     [][]float64
	Semantic    [][]float64
}

// Fuse scores every message against every preference, keeps the best pair
// per message and splits the batch into important and regular sections.
// The result is a pure function of params and input.
func Fuse(params Params, in Input) *core.CurationResult {
	var foldedPrefs []string
	if params.KeywordBonus > 0 {
		foldedPrefs = make([]string, len(in.Preferences))
		for p, pref := range in.Preferences {
			foldedPrefs[p] = core.FoldText(pref)
		}
	}

	scored := make([]*core.ScoredMessage, len(in.Messages))
	for i, msg := range in.Messages {
		scored[i] = bestPair(params, in, foldedPrefs, i, msg)
	}

	important, regular := split(params, scored)

	preferences := in.Preferences
	if preferences == nil {
		preferences = []string{}
	}
	return &core.CurationResult{
		Important:       important,
		Regular:         regular,
		TotalCount:      len(important) + len(regular),
		ImportantCount:  len(important),
		PreferencesUsed: preferences,
		CurationMethod:  params.Method,
		CurationStats:   Stats(important, len(regular)),
	}
}

// bestPair returns the message annotated with its highest-scoring
// preference. Earlier preferences win ties. The keyword bonus is a property
// of the message: KeywordBonus for every preference found verbatim in the
// content, capped at KeywordBonusCap, added on top of the best pair.
func bestPair(params Params, in Input, foldedPrefs []string, i int, msg *core.Message) *core.ScoredMessage {
	sm := &core.ScoredMessage{Message: msg, Index: i}
	if len(in.Preferences) == 0 {
		// Nothing to match: enabled scorers report zero, not null.
		if params.Method.UsesKeyword() {
			sm.TFIDFScore = core.Float(0)
		}
		if params.Method.UsesSemantic() {
			sm.SemanticScore = core.Float(0)
		}
		return sm
	}

	useKeyword := params.Method.UsesKeyword() && in.Keyword != nil
	useSemantic := params.Method.UsesSemantic() && in.Semantic != nil

	best := -1.0
	var bestKw, bestSem float64
	bestPref := -1
	for p := range in.Preferences {
		var kw, sem float64
		if useKeyword {
			kw = in.Keyword[p][i]
		}
		if useSemantic {
			sem = in.Semantic[p][i]
		}

		var score float64
		switch {
		case useKeyword && useSemantic:
			score = params.SemanticWeight*sem + params.KeywordWeight*kw
		case useSemantic:
			score = sem
		default:
			score = kw
		}
		score = clamp01(score)

		if score > best {
			best, bestKw, bestSem, bestPref = score, kw, sem, p
		}
	}

	if foldedPrefs != nil && useKeyword {
		bonus, firstMatch := keywordBonus(params, foldedPrefs, msg.Content)
		sm.KeywordBonus = bonus
		if best == 0 && firstMatch >= 0 {
			bestPref = firstMatch
		}
		best = clamp01(best + bonus)
	}

	sm.HybridScore = best
	if useKeyword {
		sm.TFIDFScore = core.Float(bestKw)
	}
	if useSemantic {
		sm.SemanticScore = core.Float(bestSem)
	}
	if best > 0 {
		sm.MatchedPreference = in.Preferences[bestPref]
	}
	return sm
}

// keywordBonus sums KeywordBonus over the preferences contained in content,
// capped at KeywordBonusCap. It also returns the first matching preference,
// or -1.
func keywordBonus(params Params, foldedPrefs []string, content string) (float64, int) {
	folded := core.FoldText(content)
	if folded == "" {
		return 0, -1
	}
	matches, first := 0, -1
	for p, pref := range foldedPrefs {
		if pref != "" && strings.Contains(folded, pref) {
			matches++
			if first < 0 {
				first = p
			}
		}
	}
	return min(float64(matches)*params.KeywordBonus, params.KeywordBonusCap), first
}

// split partitions scored messages. Both sections are ordered by descending
// hybrid score with ties in input order.
func split(params Params, scored []*core.ScoredMessage) (important, regular []*core.ScoredMessage) {
	ranked := slices.Clone(scored)
	slices.SortStableFunc(ranked, byScoreDesc)

	isImportant := make([]bool, len(scored))
	passed := 0
	for _, sm := range ranked {
		if sm.HybridScore > params.ImportanceThreshold {
			isImportant[sm.Index] = true
			passed++
		}
	}
	if passed == 0 && params.TopKFallback > 0 {
		for _, sm := range ranked {
			if passed == params.TopKFallback || sm.HybridScore <= 0 {
				break
			}
			isImportant[sm.Index] = true
			passed++
		}
	}

	important = make([]*core.ScoredMessage, 0, passed)
	regular = make([]*core.ScoredMessage, 0, len(scored)-passed)
	for _, sm := range ranked {
		if isImportant[sm.Index] && (params.MaxImportant <= 0 || len(important) < params.MaxImportant) {
			important = append(important, sm)
		} else {
			regular = append(regular, sm)
		}
	}
	return important, regular
}

func byScoreDesc(a, b *core.ScoredMessage) int {
	if c := cmp.Compare(b.HybridScore, a.HybridScore); c != 0 {
		return c
	}
	return cmp.Compare(a.Index, b.Index)
}

func clamp01(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	return min(v, 1)
}
