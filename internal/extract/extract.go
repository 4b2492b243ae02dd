// Package extract mines research fields out of free text. Every extractor is
// a pure function over the agent reply that applies an ordered pattern table
// and falls back to a field-specific placeholder, so callers never see an
// empty value.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/agent-research/internal/model"
)

// Field placeholders.
const (
	PendingYear         = "設立年調査中"
	PendingEmployees    = "従業員数調査中"
	PendingRevenue      = "売上高調査中"
	PendingOverview     = "事業概要調査中"
	PendingMarketSize   = "市場規模調査中"
	PendingMetric       = "調査中"
	PendingVoice        = "業界関係者の声を収集中..."
	PendingImpact       = "影響分析中"
	PendingQuantitative = "効果測定中"
	PendingTrendDetail  = "詳細分析中"

	industrySuffix = "業界"
	ellipsis       = "..."
)

// Length limits, in runes.
const (
	maxOverview       = 200
	maxChallenge      = 100
	maxInitiative     = 100
	maxPracticeResult = 150
	maxTrendName      = 50
	minVoice          = 20
	minCompanyName    = 2
)

// Per-pattern match caps for list extractors.
const (
	challengesPerPattern  = 2
	initiativesPerPattern = 2
	practicesPerPattern   = 3
	trendsPerPattern      = 3
)

// FoundingYear returns the four-digit founding year.
func FoundingYear(text string) string {
	return first(text, yearPatterns, PendingYear)
}

// EmployeeCount returns the headcount, thousands separators kept.
func EmployeeCount(text string) string {
	return first(text, employeePatterns, PendingEmployees)
}

// Revenue returns the revenue figure with its currency scale, e.g. "2,500億円".
func Revenue(text string) string {
	return first(text, revenuePatterns, PendingRevenue)
}

// BusinessOverview returns the overview clause, hard-truncated to 200 runes
// plus an ellipsis.
func BusinessOverview(text string) string {
	v := first(text, overviewPatterns, PendingOverview)
	if utf8.RuneCountInString(v) > maxOverview {
		return truncate(v, maxOverview) + ellipsis
	}
	return v
}

// IndustryName returns the industry, always ending in exactly one 業界 suffix.
// Without a match it falls back to "<target>の業界".
func IndustryName(text, target string) string {
	def := target + "の" + industrySuffix
	v := first(text, industryPatterns, def)

	base := strings.TrimSpace(v)
	for strings.HasSuffix(base, industrySuffix) {
		base = strings.TrimSpace(strings.TrimSuffix(base, industrySuffix))
	}
	if base == "" {
		return def
	}
	return base + industrySuffix
}

// MarketSize returns the market size with its currency scale.
func MarketSize(text string) string {
	return first(text, marketSizePatterns, PendingMarketSize)
}

// Challenges returns up to two issues per label, never an empty list.
func Challenges(text string) []any {
	var out []any
	for _, issue := range all(text, challengePatterns, challengesPerPattern) {
		out = append(out, map[string]any{
			"specific_issue":  truncate(issue, maxChallenge),
			"business_impact": PendingImpact,
		})
	}
	if len(out) == 0 {
		return []any{model.PlaceholderChallenge()}
	}
	return out
}

// Initiatives returns up to two initiatives per label plus up to two clauses
// following the focus phrase. The focus phrase is matched literally.
func Initiatives(text, focus string) []any {
	return initiatives(text, focus, focus)
}

// initiatives matches on anchor and labels the placeholder with focus, so a
// caller that folds the text can fold the anchor while keeping the phrase as
// the user wrote it.
func initiatives(text, anchor, focus string) []any {
	found := all(text, initiativePatterns, initiativesPerPattern)
	if f := strings.TrimSpace(anchor); f != "" {
		re := regexp.MustCompile(flags + regexp.QuoteMeta(f) + `.*?` + clause)
		found = append(found, all(text, []pattern{{re: re, group: 1}}, initiativesPerPattern)...)
	}

	var out []any
	for _, name := range found {
		out = append(out, map[string]any{
			"initiative": truncate(name, maxInitiative),
			"results":    map[string]any{"quantitative": PendingQuantitative},
		})
	}
	if len(out) == 0 {
		return []any{map[string]any{
			"initiative": focus + "関連の取り組み調査中",
			"results":    map[string]any{"quantitative": "定量効果を分析中"},
		}}
	}
	return out
}

// BestPractices returns company/result pairs, up to three per name shape.
// Names shorter than two runes and repeated names are dropped.
func BestPractices(text string) []any {
	var out []any
	seen := make(map[string]bool)
	for _, p := range bestPracticePatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, practicesPerPattern) {
			company := strings.TrimSpace(m[p.company])
			result := strings.TrimSpace(m[p.result])
			if utf8.RuneCountInString(company) < minCompanyName || company == "株式会社" || seen[company] {
				continue
			}
			seen[company] = true
			out = append(out, map[string]any{
				"company": company,
				"results": truncate(result, maxPracticeResult),
			})
		}
	}
	if len(out) == 0 {
		return []any{model.PlaceholderBestPractice()}
	}
	return out
}

// Trends returns up to three trends per label with names cut to 50 runes.
func Trends(text string) []any {
	var out []any
	for _, name := range all(text, trendPatterns, trendsPerPattern) {
		out = append(out, map[string]any{
			"trend_name":  truncate(name, maxTrendName),
			"description": PendingTrendDetail,
		})
	}
	if len(out) == 0 {
		return []any{map[string]any{
			"trend_name":  "業界トレンド分析中",
			"description": "市場動向を調査中",
		}}
	}
	return out
}

// Metrics returns the four industry metrics. Only efficiency and revenue
// growth are mined from text; the rest stay pending.
func Metrics(text string) map[string]any {
	return map[string]any{
		model.KeyEfficiencyImprovement: first(text, efficiencyPatterns, PendingMetric),
		model.KeyRevenueIncrease:       first(text, revenueGrowthPatterns, PendingMetric),
		model.KeyCostReduction:         PendingMetric,
		model.KeyProductivityGain:      PendingMetric,
	}
}

// IndustryVoice returns the first quote of at least 20 runes.
func IndustryVoice(text string) string {
	for _, p := range voicePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if q := m[p.group]; utf8.RuneCountInString(q) >= minVoice {
			return q
		}
	}
	return PendingVoice
}
