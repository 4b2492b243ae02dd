package research

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agent-research/internal/access"
	"github.com/sells-group/agent-research/internal/model"
)

type mockAsker struct {
	mock.Mock
}

func (m *mockAsker) Ask(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

var acme = model.Query{Target: "Acme Corp", Focus: "automation"}

func TestRun_FencedReply(t *testing.T) {
	reply := "調査結果です。\n```json\n{\"company_profile\":{\"official_name\":\"Acme Corp\"}}\n```"
	a := &mockAsker{}
	a.On("Ask", mock.Anything, BuildPrompt(acme)).Return(reply, nil)

	rec := New(a).Run(context.Background(), acme)

	assert.Equal(t, model.StatusCompleted, rec.Status())
	assert.Equal(t, "Acme Corp", access.Text(rec, "company_profile.official_name", ""))
	assert.Equal(t, map[string]any{}, rec[model.KeyIndustryAnalysis])
	assert.Equal(t, []any{model.PlaceholderChallenge()}, rec[model.KeyCurrentChallenges])
	assert.Equal(t, reply, rec.RawResponse())
	assert.Equal(t, 5, rec.SearchCount())
	assert.Equal(t, Score(rec), rec.QualityScore())
	assert.NotContains(t, rec, model.KeyErrorReason)
	a.AssertExpectations(t)
}

func TestRun_ProseReply(t *testing.T) {
	a := &mockAsker{}
	a.On("Ask", mock.Anything, mock.Anything).Return("Acme Corp was established in 2010 年. 従業員数: 約1,200人", nil)

	rec := New(a).Run(context.Background(), acme)

	assert.Equal(t, model.StatusCompleted, rec.Status())
	assert.Equal(t, "2010", access.Text(rec, "company_profile.established_year", ""))
	assert.Equal(t, "1,200", access.Text(rec, "company_profile.employees", ""))
}

func TestRun_AgentFailure(t *testing.T) {
	a := &mockAsker{}
	a.On("Ask", mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	rec := New(a).Run(context.Background(), acme)

	assert.Equal(t, model.StatusFallback, rec.Status())
	assert.Equal(t, 4.0, rec.QualityScore())
	assert.Equal(t, "exception: timeout", rec.ErrorReason())
	assert.Equal(t, "Acme Corp", access.Text(rec, "company_profile.official_name", ""))
	assert.NotContains(t, rec, model.KeyRawResponse)
}

func TestRun_RecoversPanic(t *testing.T) {
	a := &mockAsker{}
	a.On("Ask", mock.Anything, mock.Anything).Panic("transport exploded")

	var rec model.Record
	require.NotPanics(t, func() {
		rec = New(a).Run(context.Background(), acme)
	})
	assert.Equal(t, model.StatusFallback, rec.Status())
	assert.Equal(t, "exception: transport exploded", rec.ErrorReason())
}

func TestRun_SchemaCompleteEitherWay(t *testing.T) {
	replies := []struct {
		reply string
		err   error
	}{
		{"", nil},
		{`{"company_profile": {"official_name": "Acme`, nil},
		{`{"best_practices": "none", "industry_voice": 3}`, nil},
		{"", errors.New("401 unauthorized")},
	}
	for _, r := range replies {
		a := &mockAsker{}
		a.On("Ask", mock.Anything, mock.Anything).Return(r.reply, r.err)
		rec := New(a).Run(context.Background(), acme)
		for _, k := range model.RequiredKeys {
			require.Contains(t, rec, k.Name)
			assert.True(t, k.Shape.Matches(rec[k.Name]), "%s for %q", k.Name, r.reply)
		}
		assert.GreaterOrEqual(t, rec.QualityScore(), 0.0)
		assert.LessOrEqual(t, rec.QualityScore(), 10.0)
	}
}

func TestRun_EmptyReplyFallsBack(t *testing.T) {
	a := &mockAsker{}
	a.On("Ask", mock.Anything, mock.Anything).Return(" \n", nil)

	rec := New(a).Run(context.Background(), acme)
	assert.Equal(t, model.StatusFallback, rec.Status())
	assert.Equal(t, "exception: agent: empty reply", rec.ErrorReason())
}
