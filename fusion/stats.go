package fusion

import "github.com/poiesic/curator/core"

// Stats summarizes the important section. Averages skip scores that were
// not computed; everything is zero when important is empty.
func Stats(important []*core.ScoredMessage, regularCount int) core.CurationStats {
	stats := core.CurationStats{
		TotalImportant:     len(important),
		TotalRegular:       regularCount,
		PreferencesMatched: make(map[string]int),
	}
	if len(important) == 0 {
		return stats
	}

	var semSum, kwSum, hybridSum float64
	var semN, kwN int
	for _, sm := range important {
		hybridSum += sm.HybridScore
		if sm.SemanticScore != nil {
			semSum += *sm.SemanticScore
			semN++
		}
		if sm.TFIDFScore != nil {
			kwSum += *sm.TFIDFScore
			kwN++
		}
		if sm.MatchedPreference != "" {
			stats.PreferencesMatched[sm.MatchedPreference]++
		}
	}

	stats.AvgHybridScore = hybridSum / float64(len(important))
	if semN > 0 {
		stats.AvgSemanticScore = semSum / float64(semN)
	}
	if kwN > 0 {
		stats.AvgTFIDFScore = kwSum / float64(kwN)
	}
	return stats
}
