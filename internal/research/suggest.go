package research

import "strings"

const maxSuggestions = 3

// focusSuggestions maps a focus keyword to related angles. The first keyword
// contained in the focus wins.
var focusSuggestions = []struct {
	keyword     string
	suggestions []string
}{
	{"AI", []string{"生成AI", "機械学習", "自動化", "ChatGPT", "AI活用"}},
	{"DX", []string{"デジタル変革", "IT導入", "業務効率化", "クラウド", "デジタル化"}},
	{"マーケティング", []string{"デジタルマーケティング", "SNS活用", "広告戦略", "顧客分析"}},
	{"人材", []string{"採用戦略", "人材育成", "働き方改革", "組織改革", "人事制度"}},
}

// FocusSuggestions returns up to three related research angles for focus.
func FocusSuggestions(focus string) []string {
	lower := strings.ToLower(focus)
	for _, s := range focusSuggestions {
		if strings.Contains(lower, strings.ToLower(s.keyword)) {
			return s.suggestions[:min(len(s.suggestions), maxSuggestions)]
		}
	}
	return []string{}
}

// QualityLevel buckets a quality score for display.
type QualityLevel string

const (
	QualityHigh   QualityLevel = "high"
	QualityMedium QualityLevel = "medium"
	QualityLow    QualityLevel = "low"
	QualityBasic  QualityLevel = "basic"
)

// QualityLabel returns the display label and level for score.
func QualityLabel(score float64) (string, QualityLevel) {
	switch {
	case score >= 8:
		return "優秀", QualityHigh
	case score >= 6:
		return "良好", QualityMedium
	case score >= 4:
		return "改善の余地あり", QualityLow
	default:
		return "基本レベル", QualityBasic
	}
}
