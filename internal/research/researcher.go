// Package research runs one research query end to end: prompt, agent call,
// parsing, scoring, and a fallback record whenever any of it fails.
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/agent-research/internal/agent"
	"github.com/sells-group/agent-research/internal/model"
	"github.com/sells-group/agent-research/internal/parse"
)

// Asker is the agent call the researcher depends on.
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Researcher turns queries into schema-complete records.
type Researcher struct {
	agent Asker
}

// New returns a Researcher backed by a.
func New(a Asker) *Researcher {
	return &Researcher{agent: a}
}

// Run always returns a complete record. Agent failures and parser panics
// produce a fallback record carrying the failure in error_reason.
func (r *Researcher) Run(ctx context.Context, q model.Query) (rec model.Record) {
	log := zap.L().With(zap.String("target", q.Target), zap.String("focus", q.Focus))
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			log.Error("research: recovered panic", zap.Any("panic", p))
			rec = Fallback(q.Target, q.Focus, fmt.Sprintf("exception: %v", p))
		}
	}()

	reply, err := r.agent.Ask(ctx, BuildPrompt(q))
	if err == nil && strings.TrimSpace(reply) == "" {
		err = agent.ErrEmptyReply
	}
	if err != nil {
		log.Warn("research: agent failed, using fallback", zap.Error(err))
		return Fallback(q.Target, q.Focus, "exception: "+err.Error())
	}

	rec, strategy := parse.ResponseWithStrategy(reply, q.Target, q.Focus)
	rec[model.KeyResearchStatus] = string(model.StatusCompleted)
	rec[model.KeySearchCount] = EstimateSearchCount(reply)
	rec[model.KeyDataQualityScore] = Score(rec)
	rec[model.KeyRawResponse] = reply

	log.Info("research: complete",
		zap.String("strategy", string(strategy)),
		zap.Float64("quality", rec.QualityScore()),
		zap.Int("search_count", rec.SearchCount()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return rec
}
