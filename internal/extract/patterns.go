package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// pattern is one row of an ordered extraction table. Rows are tried top to
// bottom and the first non-empty capture wins, so labelled forms come before
// loose ones.
type pattern struct {
	re    *regexp.Regexp
	group int
	// unit is appended to the capture. Revenue and market size are matched
	// per currency scale and keep the scale so 億円 and 兆円 never collapse.
	unit string
}

// pairPattern captures a company name and an achievement clause.
type pairPattern struct {
	re      *regexp.Regexp
	company int
	result  int
}

const flags = `(?im)`

func pat(expr string) pattern {
	return pattern{re: regexp.MustCompile(flags + expr), group: 1}
}

func unitPat(expr, unit string) pattern {
	return pattern{re: regexp.MustCompile(flags + expr), group: 1, unit: unit}
}

// Shared fragments.
const (
	colon   = `[：:]?`
	about   = `(?:約|approximately\s+|about\s+|approx\.?\s*)?`
	number  = `(\d+(?:,\d+)*(?:\.\d+)?)`
	count   = `(\d{1,3}(?:,\d{3})+|\d+)`
	clause  = `([^。]+)`
	percent = `(\d+(?:\.\d+)?%)`
	// achievement requires a result verb so that a bare company mention is
	// not mistaken for a best practice.
	achievement = `([^。\n]*?(?:導入|実現|達成|削減|向上|成功|改善|拡大|増加|短縮|improv|increas|reduc|achiev|launch|adopt)[^。\n]*)`
)

var yearPatterns = []pattern{
	pat(`設立` + colon + `\s*(\d{4})\s*年`),
	pat(`創業` + colon + `\s*(\d{4})\s*年`),
	pat(`(?:established|founded)(?:\s+in)?\s*` + colon + `\s*(\d{4})`),
	pat(`(\d{4})\s*年\s*(?:に)?設立`),
	pat(`(\d{4})\s*年\s*(?:に)?創業`),
	pat(`(\d{4})\s+(?:established|founded)`),
}

var employeePatterns = []pattern{
	pat(`従業員数?` + colon + `\s*` + about + `\s*` + count + `\s*(?:人|名)`),
	pat(`社員数` + colon + `\s*` + about + `\s*` + count + `\s*(?:人|名)`),
	pat(`employees` + colon + `\s*` + about + count),
	pat(count + `\s*(?:人|名).*従業員`),
	pat(count + `\s+(?:employees|staff)`),
}

var revenuePatterns = []pattern{
	unitPat(`売上高?`+colon+`\s*`+about+`\s*`+number+`\s*億円`, "億円"),
	unitPat(`売上高?`+colon+`\s*`+about+`\s*`+number+`\s*兆円`, "兆円"),
	unitPat(`収益`+colon+`\s*`+about+`\s*`+number+`\s*億円`, "億円"),
}

var overviewPatterns = []pattern{
	pat(`事業概要` + colon + `\s*` + clause),
	pat(`主要事業` + colon + `\s*` + clause),
	pat(`ビジネス内容` + colon + `\s*` + clause),
	pat(`(?:business overview|main business)[：:]\s*([^。\n]+)`),
}

var industryPatterns = []pattern{
	pat(`属する業界` + colon + `\s*([^。 、\n]+)`),
	pat(`業界[：:]\s*([^。 、\n]+)`),
	pat(`([^。 、\s]+)業界`),
}

var marketSizePatterns = []pattern{
	unitPat(`市場規模`+colon+`\s*`+about+`\s*`+number+`\s*億円`, "億円"),
	unitPat(`市場規模`+colon+`\s*`+about+`\s*`+number+`\s*兆円`, "兆円"),
	unitPat(`マーケット規模`+colon+`\s*`+about+`\s*`+number+`\s*億円`, "億円"),
}

var challengePatterns = []pattern{
	pat(`課題` + colon + `\s*` + clause),
	pat(`問題点` + colon + `\s*` + clause),
	pat(`改善点` + colon + `\s*` + clause),
}

var initiativePatterns = []pattern{
	pat(`取り組み` + colon + `\s*` + clause),
	pat(`施策` + colon + `\s*` + clause),
	pat(`導入` + colon + `\s*` + clause),
}

// Best-practice company names come in three shapes: Latin names with a
// corporate suffix, registered Japanese names around 株式会社, and names
// ending in a generic suffix such as 社 or 通信. The Latin row is case
// sensitive; the capitalization is the signal.
var bestPracticePatterns = []pairPattern{
	{
		re:      regexp.MustCompile(`([A-Z][A-Za-z0-9&]*(?:\s+[A-Z][A-Za-z0-9&]*)*\s+(?:Inc|Corp|Ltd|LLC|Co)\.?)\s*(?:は|が|:|：)?\s*` + achievement),
		company: 1,
		result:  2,
	},
	{
		re:      regexp.MustCompile(`(株式会社[^、。\sはがの]+|[^、。\sはがの]+株式会社)\s*(?:は|が|の)?\s*` + achievement),
		company: 1,
		result:  2,
	},
	{
		re:      regexp.MustCompile(`([^、。\sはがの「」]+(?:社|通信|新聞))\s*(?:は|が|の)?\s*` + achievement),
		company: 1,
		result:  2,
	},
}

var trendPatterns = []pattern{
	pat(`トレンド` + colon + `\s*` + clause),
	pat(`動向` + colon + `\s*` + clause),
	pat(`傾向` + colon + `\s*` + clause),
}

var efficiencyPatterns = []pattern{
	pat(`効率化?.*?` + percent),
	pat(`改善.*?` + percent),
	pat(`短縮.*?` + percent),
}

var revenueGrowthPatterns = []pattern{
	pat(`収益.*?` + percent),
	pat(`売上.*?向上.*?` + percent),
	pat(`増収.*?` + percent),
}

// Quote patterns go from any long quote to quotes attributed to insiders.
var voicePatterns = []pattern{
	pat(`[「『"“]([^」』"”]{20,})[」』"”]`),
	pat(`関係者.*?` + colon + `\s*[「『"“]([^」』"”]+)[」』"”]`),
	pat(`業界.*?` + colon + `\s*[「『"“]([^」』"”]+)[」』"”]`),
}

// first returns the first non-empty capture in table order, or def.
func first(text string, table []pattern, def string) string {
	for _, p := range table {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v := strings.TrimSpace(m[p.group]); v != "" {
			return v + p.unit
		}
	}
	return def
}

// all collects up to perPattern non-empty captures from each row, in order.
func all(text string, table []pattern, perPattern int) []string {
	var out []string
	for _, p := range table {
		for _, m := range p.re.FindAllStringSubmatch(text, perPattern) {
			if v := strings.TrimSpace(m[p.group]); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
