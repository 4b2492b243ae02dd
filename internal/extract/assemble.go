package extract

import (
	"golang.org/x/text/width"

	"github.com/sells-group/agent-research/internal/model"
)

// FromText builds a complete record from a reply that carried no usable JSON.
// Full-width digits and punctuation are folded to ASCII first so that
// "２０１０年" and "1,200％" match the same rows as their narrow forms. The
// focus phrase is folded the same way before it anchors a pattern.
// Competitor tables cannot be mined from prose, so top5_companies is empty.
// Status, search count and score are left to the caller.
func FromText(text, target, focus string) model.Record {
	text = width.Fold.String(text)

	return model.Record{
		model.KeyCompanyProfile: map[string]any{
			model.KeyOfficialName:     target,
			model.KeyEstablishedYear:  FoundingYear(text),
			model.KeyEmployees:        EmployeeCount(text),
			model.KeyRevenue:          Revenue(text),
			model.KeyBusinessOverview: BusinessOverview(text),
		},
		model.KeyIndustryAnalysis: map[string]any{
			model.KeyIndustryName:  IndustryName(text, target),
			model.KeyMarketSize:    MarketSize(text),
			model.KeyTop5Companies: []any{},
		},
		model.KeyCurrentChallenges: Challenges(text),
		model.KeyFocusAreaAnalysis: map[string]any{
			model.KeyCurrentInitiatives: initiatives(text, width.Fold.String(focus), focus),
		},
		model.KeyBestPractices: BestPractices(text),
		model.KeyMarketTrends: map[string]any{
			model.KeyKeyTrends: Trends(text),
		},
		model.KeyIndustryMetrics: Metrics(text),
		model.KeyIndustryVoice:   IndustryVoice(text),
	}
}
