package research

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/agent-research/internal/access"
	"github.com/sells-group/agent-research/internal/model"
)

const maxScore = 10.0

// qualityCheck is one weighted item of the completeness checklist. Weights
// sum to maxScore.
type qualityCheck struct {
	path   string
	weight float64
}

var qualityChecks = []qualityCheck{
	{"company_profile.official_name", 1.5},
	{"company_profile.business_overview", 1.0},
	{"industry_analysis.industry_name", 1.0},
	{"current_challenges", 1.5},
	{"focus_area_analysis.current_initiatives", 2.0},
	{"best_practices", 1.5},
	{"market_trends.key_trends", 1.0},
	{"industry_metrics", 0.5},
}

// minScoredText is the rune length a string must exceed to count.
const minScoredText = 10

// Score rates the completeness of rec from 0 to 10. A checklist field earns
// its weight when it holds a non-empty list, a non-empty object, or a
// non-sentinel string longer than ten runes.
func Score(rec model.Record) float64 {
	var score float64
	for _, c := range qualityChecks {
		if qualifies(access.Get[any](rec, c.path, model.PlaceholderLoading)) {
			score += c.weight
		}
	}
	return min(max(score, 0), maxScore)
}

func qualifies(v any) bool {
	switch t := v.(type) {
	case string:
		return !model.IsSentinel(t) && utf8.RuneCountInString(t) > minScoredText
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return false
}

// Search-count estimate bounds.
const (
	minBaseSearches = 5
	maxBaseSearches = 15
	wordsPerSearch  = 200
	maxBonus        = 5
)

var companySuffix = regexp.MustCompile(`(?:株式会社|Inc\.|Corp\.|Ltd\.)`)

// EstimateSearchCount approximates how many searches the agent ran: one per
// 200 words, clamped to [5, 15], plus one per company mention up to five.
func EstimateSearchCount(reply string) int {
	base := len(strings.Fields(reply)) / wordsPerSearch
	base = min(max(base, minBaseSearches), maxBaseSearches)
	bonus := min(len(companySuffix.FindAllStringIndex(reply, -1)), maxBonus)
	return base + bonus
}
