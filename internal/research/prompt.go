package research

import (
	"strings"
	"text/template"

	"github.com/sells-group/agent-research/internal/model"
)

var promptTmpl = template.Must(template.New("prompt").Parse(`企業・個人調査を実行してください。

調査対象: {{.Target}}
調査観点: {{.Focus}}
特定要求: {{.Requirements}}

以下の7階層分析フレームワークで調査し、JSON形式で結果を返してください：

1. 企業基本データ（正式名称、設立年、従業員数、売上高、事業概要）
2. 業界構造・競合ポジション（業界名、市場規模、Top5企業、市場シェア）
3. 業界トレンド・市場動向（主要トレンド、成長率、破壊的要因）
4. 現状課題・問題点（組織、技術、市場面での具体的課題）
5. 調査観点の詳細分析（現在の取り組み、使用ツール、定量効果）
6. ベストプラクティス・先進事例（成功企業の具体的事例と成果）
7. 実践的スライド構成提案

必須JSON構造:
{
  "company_profile": {
    "official_name": "正式企業名",
    "established_year": "設立年",
    "employees": "従業員数",
    "revenue": "売上高",
    "business_overview": "事業概要"
  },
  "industry_analysis": {
    "industry_name": "業界名",
    "market_size": "市場規模",
    "top5_companies": [
      {"rank": 1, "company": "企業名", "market_share": "シェア", "competitive_advantage": "競争優位性"}
    ]
  },
  "current_challenges": [
    {"specific_issue": "具体的課題", "business_impact": "事業への影響"}
  ],
  "focus_area_analysis": {
    "current_initiatives": [
      {"initiative": "取り組み名", "results": {"quantitative": "定量効果"}}
    ]
  },
  "best_practices": [
    {"company": "先進企業名", "results": "具体的成果"}
  ],
  "market_trends": {
    "key_trends": [
      {"trend_name": "トレンド名", "description": "概要"}
    ]
  },
  "industry_metrics": {
    "efficiency_improvement": "効率改善率",
    "revenue_increase": "売上増加率",
    "cost_reduction": "コスト削減率",
    "productivity_gain": "生産性向上率"
  },
  "industry_voice": "業界関係者の声"
}
`))

// BuildPrompt renders the research instruction sent to the agent.
func BuildPrompt(q model.Query) string {
	if strings.TrimSpace(q.Requirements) == "" {
		q.Requirements = "なし"
	}
	var b strings.Builder
	// Executing a parsed template into a Builder cannot fail for a plain struct.
	_ = promptTmpl.Execute(&b, q)
	return b.String()
}
