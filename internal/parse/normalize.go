package parse

import (
	"strings"

	"github.com/sells-group/agent-research/internal/model"
)

// Normalize back-fills obj so every required key holds its shape. Keys with
// the wrong type or a null value are replaced with the empty value of their
// shape, official_name defaults to target, and the challenge and best-practice
// lists always carry at least one entry. Meta keys supplied by the agent are
// dropped; they belong to the orchestrator. obj is modified in place.
func Normalize(obj map[string]any, target string) model.Record {
	rec := model.Record(obj)
	if rec == nil {
		rec = model.Record{}
	}
	for _, k := range model.MetaKeys {
		delete(rec, k)
	}

	for _, k := range model.RequiredKeys {
		if !k.Shape.Matches(rec[k.Name]) {
			rec[k.Name] = k.Shape.EmptyValue()
		}
	}

	profile := rec[model.KeyCompanyProfile].(map[string]any)
	if name, _ := profile[model.KeyOfficialName].(string); strings.TrimSpace(name) == "" {
		profile[model.KeyOfficialName] = target
	}

	if len(rec[model.KeyCurrentChallenges].([]any)) == 0 {
		rec[model.KeyCurrentChallenges] = []any{model.PlaceholderChallenge()}
	}
	if len(rec[model.KeyBestPractices].([]any)) == 0 {
		rec[model.KeyBestPractices] = []any{model.PlaceholderBestPractice()}
	}

	ensureList(rec[model.KeyFocusAreaAnalysis].(map[string]any), model.KeyCurrentInitiatives)
	ensureList(rec[model.KeyMarketTrends].(map[string]any), model.KeyKeyTrends)

	return rec
}

func ensureList(parent map[string]any, key string) {
	if _, ok := parent[key].([]any); !ok {
		parent[key] = []any{}
	}
}
