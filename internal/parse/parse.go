// Package parse turns an agent reply into a schema-complete research record.
// JSON is recovered with progressively looser strategies; when none yields an
// object the record is mined from the text instead.
package parse

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agent-research/internal/extract"
	"github.com/sells-group/agent-research/internal/model"
)

// Strategy names the step that produced a record.
type Strategy string

const (
	StrategyFenced Strategy = "fenced"
	StrategySpan   Strategy = "span"
	StrategyBlocks Strategy = "blocks"
	StrategyText   Strategy = "text"
)

const fence = "```"

var (
	fenceOpen = regexp.MustCompile("(?i)" + fence + "json")
	// One level of nesting is enough for the flat objects agents tend to
	// emit around prose; deeper objects are found by the span strategy.
	braceBlock = regexp.MustCompile(`\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)
)

// Response parses reply into a normalized record. It never fails.
func Response(reply, target, focus string) model.Record {
	rec, _ := ResponseWithStrategy(reply, target, focus)
	return rec
}

// ResponseWithStrategy is Response that also reports which strategy won.
func ResponseWithStrategy(reply, target, focus string) (model.Record, Strategy) {
	log := zap.L().With(zap.String("target", target))

	if body, ok := fencedBody(reply); ok {
		obj, err := decodeObject(body)
		if err == nil {
			return Normalize(obj, target), StrategyFenced
		}
		log.Debug("parse: fenced block rejected", zap.Error(err))
	}

	if start, end := strings.Index(reply, "{"), strings.LastIndex(reply, "}"); start >= 0 && end > start {
		obj, err := decodeObject(reply[start : end+1])
		if err == nil {
			return Normalize(obj, target), StrategySpan
		}
		log.Debug("parse: brace span rejected", zap.Error(err))
	}

	blocks := braceBlock.FindAllString(reply, -1)
	sort.SliceStable(blocks, func(i, j int) bool { return len(blocks[i]) > len(blocks[j]) })
	for _, b := range blocks {
		if obj, err := decodeObject(b); err == nil {
			return Normalize(obj, target), StrategyBlocks
		}
	}
	if len(blocks) > 0 {
		log.Debug("parse: no brace block decoded", zap.Int("candidates", len(blocks)))
	}

	return extract.FromText(reply, target, focus), StrategyText
}

// fencedBody returns the text between a ```json label and the next fence.
// An unterminated block runs to the end of the reply.
func fencedBody(reply string) (string, bool) {
	loc := fenceOpen.FindStringIndex(reply)
	if loc == nil {
		return "", false
	}
	body := reply[loc[1]:]
	if end := strings.Index(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body), true
}

// decodeObject accepts only a JSON object; arrays and scalars are rejected so
// the next strategy gets a chance.
func decodeObject(s string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, eris.Wrap(err, "parse: decode json")
	}
	if obj == nil {
		return nil, eris.New("parse: json is not an object")
	}
	return obj, nil
}
