package research

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/agent-research/internal/model"
)

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(model.Query{Target: "Acme Corp", Focus: "automation", Requirements: "上場企業の比較"})
	assert.Contains(t, p, "調査対象: Acme Corp")
	assert.Contains(t, p, "調査観点: automation")
	assert.Contains(t, p, "特定要求: 上場企業の比較")
	for _, k := range model.RequiredKeys {
		assert.Contains(t, p, `"`+k.Name+`"`)
	}
}

func TestBuildPrompt_DefaultRequirements(t *testing.T) {
	p := BuildPrompt(model.Query{Target: "Acme Corp", Focus: "automation", Requirements: "  "})
	assert.Contains(t, p, "特定要求: なし")
}

func TestBuildPrompt_NoHTMLEscaping(t *testing.T) {
	p := BuildPrompt(model.Query{Target: "AT&T <Japan>", Focus: "R&D"})
	assert.Contains(t, p, "AT&T <Japan>")
	assert.Contains(t, p, "R&D")
}
