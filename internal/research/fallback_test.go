package research

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agent-research/internal/access"
	"github.com/sells-group/agent-research/internal/model"
	"github.com/sells-group/agent-research/internal/parse"
)

func TestFallback_AgentFailure(t *testing.T) {
	rec := Fallback("Acme Corp", "automation", "exception: timeout")

	assert.Equal(t, model.StatusFallback, rec.Status())
	assert.Equal(t, 4.0, rec.QualityScore())
	assert.Equal(t, 0, rec.SearchCount())
	assert.Equal(t, "exception: timeout", rec.ErrorReason())
	assert.Equal(t, "Acme Corp", access.Text(rec, "company_profile.official_name", ""))
	assert.NotContains(t, rec, model.KeyRawResponse)
}

func TestFallback_ShapeParity(t *testing.T) {
	fb := Fallback("Acme Corp", "automation", "exception: timeout")
	ok := parse.Response(`{"company_profile":{"official_name":"Acme Corp"}}`, "Acme Corp", "automation")

	for _, k := range model.RequiredKeys {
		require.Contains(t, fb, k.Name)
		assert.True(t, k.Shape.Matches(fb[k.Name]), k.Name)
		assert.True(t, k.Shape.Matches(ok[k.Name]), k.Name)
	}
	assert.NotEmpty(t, fb[model.KeyCurrentChallenges])
	assert.NotEmpty(t, fb[model.KeyBestPractices])
	assert.NotEmpty(t, access.List(fb, "focus_area_analysis.current_initiatives", nil))
	assert.NotEmpty(t, access.List(fb, "market_trends.key_trends", nil))
}

func TestFallback_IndustryGuess(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"株式会社メルカリ", "フリマアプリ・C2C業界"},
		{"トヨタ自動車", "自動車製造業界"},
		{"楽天グループ", "EC・フィンテック業界"},
		{"Acme Corp", "調査対象業界"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := Fallback(tt.target, "DX", "exception: x")
			got := access.Text(rec, "industry_analysis.industry_name", "")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, strings.Count(got, "業界"))
		})
	}
}

func TestFallback_InterpolatesFocus(t *testing.T) {
	rec := Fallback("Acme Corp", "automation", "exception: x")
	overview := access.Text(rec, "company_profile.business_overview", "")
	assert.Contains(t, overview, "Acme Corp")
	assert.Contains(t, overview, "automation")
	assert.Contains(t, rec[model.KeyIndustryVoice], "automation")
}
