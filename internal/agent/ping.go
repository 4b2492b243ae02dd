package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/sells-group/agent-research/internal/config"
)

const pingPrompt = "Hi Agent (connectivity test)\nReturn: ok"

// PingStage says how far a connectivity check got.
type PingStage string

const (
	StageConfig    PingStage = "config"
	StageRun       PingStage = "run"
	StageException PingStage = "exception"
	StageDone      PingStage = "done"
)

// PingResult reports one connectivity check.
type PingResult struct {
	Provider string    `json:"provider"`
	OK       bool      `json:"ok"`
	Stage    PingStage `json:"stage"`
	Detail   string    `json:"detail,omitempty"`
	Reply    string    `json:"reply,omitempty"`
}

// Ping sends a trivial prompt and reports whether an answer came back.
// A recovered panic is reported as StageException.
func Ping(ctx context.Context, a Agent) (res PingResult) {
	res = PingResult{Provider: a.Name(), Stage: StageRun}
	defer func() {
		if r := recover(); r != nil {
			res.OK = false
			res.Stage = StageException
			res.Detail = fmt.Sprint(r)
		}
	}()

	reply, err := a.Ask(ctx, pingPrompt)
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	res.OK = true
	res.Stage = StageDone
	res.Reply = strings.TrimSpace(reply)
	return res
}

// PingProvider builds provider from cfg and pings it. Construction failures
// are reported as StageConfig.
func PingProvider(ctx context.Context, cfg *config.Config, provider string) PingResult {
	if provider == "" {
		provider = cfg.Agent.Provider
	}
	a, err := New(cfg, provider)
	if err != nil {
		return PingResult{Provider: provider, Stage: StageConfig, Detail: err.Error()}
	}
	return Ping(ctx, a)
}
