package research

import (
	"strings"

	"github.com/sells-group/agent-research/internal/model"
)

// FallbackScore is the fixed quality score of a fallback record.
const FallbackScore = 4.0

const (
	industrySuffix  = "業界"
	defaultIndustry = "調査対象業界"
)

// knownIndustries guesses an industry from the target name. Order matters:
// the first name contained in the target wins.
var knownIndustries = []struct {
	name     string
	industry string
}{
	{"メルカリ", "フリマアプリ・C2C"},
	{"共同通信", "通信社・メディア"},
	{"ソフトバンク", "通信・IT"},
	{"トヨタ", "自動車製造"},
	{"楽天", "EC・フィンテック"},
}

func guessIndustry(target string) string {
	for _, k := range knownIndustries {
		if strings.Contains(target, k.name) {
			return k.industry
		}
	}
	return defaultIndustry
}

// Fallback builds a complete placeholder record for target and focus, used
// whenever no real data could be obtained. reason is kept in error_reason.
func Fallback(target, focus, reason string) model.Record {
	industry := guessIndustry(target)
	industryName := industry
	if !strings.HasSuffix(industryName, industrySuffix) {
		industryName += industrySuffix
	}

	return model.Record{
		model.KeyCompanyProfile: map[string]any{
			model.KeyOfficialName:     target,
			model.KeyEstablishedYear:  "設立年を調査中",
			model.KeyEmployees:        "従業員数を調査中",
			model.KeyRevenue:          "売上規模を調査中",
			model.KeyBusinessOverview: target + "は" + industryName + "で事業を展開する企業です。" + focus + "を中心とした事業戦略の詳細を調査中です。",
		},
		model.KeyIndustryAnalysis: map[string]any{
			model.KeyIndustryName: industryName,
			model.KeyMarketSize:   "市場規模を調査中",
			model.KeyTop5Companies: []any{
				map[string]any{
					"rank":                  1,
					"company":               "業界リーダー企業",
					"market_share":          "シェア調査中",
					"competitive_advantage": "優位性分析中",
				},
			},
		},
		model.KeyCurrentChallenges: []any{
			map[string]any{"specific_issue": target + "の主要課題を分析中", "business_impact": "ビジネス影響を評価中"},
			map[string]any{"specific_issue": focus + "に関連する課題を調査中", "business_impact": "改善効果を試算中"},
		},
		model.KeyFocusAreaAnalysis: map[string]any{
			model.KeyCurrentInitiatives: []any{
				map[string]any{
					"initiative": focus + "への取り組み状況を調査中",
					"results":    map[string]any{"quantitative": "効果測定を実行中"},
				},
			},
		},
		model.KeyBestPractices: []any{
			map[string]any{"company": "業界先進企業", "results": focus + "における成功事例を収集中"},
		},
		model.KeyMarketTrends: map[string]any{
			model.KeyKeyTrends: []any{
				map[string]any{"trend_name": industry + "のデジタル変革", "description": "業界全体でのDX推進動向を分析中"},
			},
		},
		model.KeyIndustryMetrics: map[string]any{
			model.KeyEfficiencyImprovement: "改善率を調査中",
			model.KeyRevenueIncrease:       "成長率を調査中",
			model.KeyCostReduction:         "削減率を調査中",
			model.KeyProductivityGain:      "生産性向上率を調査中",
		},
		model.KeyIndustryVoice: industryName + "では「" + focus + "への注目が高まっている」との声が多く聞かれます。",

		model.KeyResearchStatus:   string(model.StatusFallback),
		model.KeySearchCount:      0,
		model.KeyDataQualityScore: FallbackScore,
		model.KeyErrorReason:      reason,
	}
}
