// Package slides renders a research record as a four-slide HTML deck.
package slides

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agent-research/internal/access"
	"github.com/sells-group/agent-research/internal/model"
)

//go:embed templates/deck.html.tmpl
var templateFS embed.FS

var deckTmpl = template.Must(template.ParseFS(templateFS, "templates/deck.html.tmpl"))

const (
	// SlideCount is the number of slides in every deck.
	SlideCount = 4
	// Format labels the deck output.
	Format = "HTML"

	filenameLayout = "20060102_150405"
)

// Display caps per section.
const (
	maxChallenges  = 3
	maxCompetitors = 5
	maxTrends      = 4
	maxInitiatives = 3
	maxPractices   = 3
)

const running = model.PlaceholderRunning

// overseasMarkers classify a best-practice company as overseas. Everything
// else is shown as a domestic case.
var overseasMarkers = []string{
	"AP通信", "ロイター", "Bloomberg", "Reuters", "AFP", "NYT", "BBC", "CNN",
	"Microsoft", "Google", "Apple",
}

type competitor struct {
	Rank, Company, Share, Advantage string
}

type trend struct {
	Name, Description string
}

type initiative struct {
	Name, Result string
}

type practice struct {
	Company, Results string
}

type metric struct {
	Value, Label string
}

type deckView struct {
	Target, Focus string

	CompanyName      string
	EstablishedYear  string
	Employees        string
	Revenue          string
	BusinessOverview string
	RevenueStructure string
	BusinessModel    string
	Challenges       []string

	IndustryName   string
	MarketSize     string
	MarketPosition string
	Competitors    []competitor
	Trends         []trend

	Initiatives          []initiative
	CurrentLevel         string
	IndustryAverage      string
	ImprovementPotential string
	Practices            []practice

	Overseas []practice
	Domestic []practice
	Metrics  []metric
	Voice    string
}

// Renderer builds decks. The zero value is not usable; call New.
type Renderer struct {
	now func() time.Time
}

// New returns a Renderer stamping filenames with the local time.
func New() *Renderer {
	return &Renderer{now: time.Now}
}

// Render builds the deck with the default Renderer.
func Render(rec model.Record, target, focus string) (*model.Deck, error) {
	return New().Render(rec, target, focus)
}

// Render fills the deck template from rec. Missing fields show their
// placeholders, and every agent-supplied string is HTML-escaped.
func (r *Renderer) Render(rec model.Record, target, focus string) (*model.Deck, error) {
	var buf bytes.Buffer
	if err := deckTmpl.Execute(&buf, buildView(rec, target, focus)); err != nil {
		return nil, eris.Wrap(err, "slides: render deck")
	}
	return &model.Deck{
		HTML:       buf.String(),
		Filename:   "research_report_" + r.now().Format(filenameLayout) + ".html",
		SlideCount: SlideCount,
		Format:     Format,
	}, nil
}

func buildView(rec model.Record, target, focus string) deckView {
	v := deckView{
		Target: target,
		Focus:  focus,

		CompanyName:      access.Text(rec, "company_profile.official_name", target),
		EstablishedYear:  access.Text(rec, "company_profile.established_year", running),
		Employees:        access.Text(rec, "company_profile.employees", running),
		Revenue:          access.Text(rec, "company_profile.revenue", running),
		BusinessOverview: access.Text(rec, "company_profile.business_overview", running),
		RevenueStructure: access.Text(rec, "company_profile.revenue_structure", running),
		BusinessModel:    access.Text(rec, "company_profile.business_model", running),

		IndustryName:   access.Text(rec, "industry_analysis.industry_name", "調査対象業界"),
		MarketSize:     access.Text(rec, "industry_analysis.market_size", running),
		MarketPosition: access.Text(rec, "industry_analysis.market_position", "詳細分析実行中"),

		CurrentLevel:         access.Text(rec, "focus_area_analysis.current_level", "分析実行中"),
		IndustryAverage:      access.Text(rec, "focus_area_analysis.industry_average", "データ収集中"),
		ImprovementPotential: access.Text(rec, "focus_area_analysis.improvement_potential", "評価中"),

		Voice: access.Text(rec, model.KeyIndustryVoice, "業界関係者からの情報を収集中..."),
		Metrics: []metric{
			{access.Text(rec, "industry_metrics.efficiency_improvement", "40-70%"), "効率改善率"},
			{access.Text(rec, "industry_metrics.revenue_increase", "20-50%"), "収益向上率"},
			{access.Text(rec, "industry_metrics.cost_reduction", "30-40%"), "コスト削減率"},
			{access.Text(rec, "industry_metrics.productivity_gain", "35%"), "生産性向上率"},
		},
	}

	for _, c := range head(access.List(rec, model.KeyCurrentChallenges, nil), maxChallenges) {
		v.Challenges = append(v.Challenges, access.Text(c, "specific_issue", "課題情報を収集中"))
	}
	for _, c := range head(access.List(rec, "industry_analysis.top5_companies", nil), maxCompetitors) {
		v.Competitors = append(v.Competitors, competitor{
			Rank:      access.Text(c, "rank", "-"),
			Company:   access.Text(c, "company", "企業名調査中"),
			Share:     access.Text(c, "market_share", "-%"),
			Advantage: access.Text(c, "competitive_advantage", "調査中"),
		})
	}
	for _, t := range head(access.List(rec, "market_trends.key_trends", nil), maxTrends) {
		v.Trends = append(v.Trends, trend{
			Name:        access.Text(t, "trend_name", "トレンド情報収集中"),
			Description: access.Text(t, "description", "詳細分析中"),
		})
	}
	for _, i := range head(access.List(rec, "focus_area_analysis.current_initiatives", nil), maxInitiatives) {
		v.Initiatives = append(v.Initiatives, initiative{
			Name:   access.Text(i, "initiative", "取り組み情報を収集中"),
			Result: access.Text(i, "results.quantitative", "効果測定中"),
		})
	}

	all := access.List(rec, model.KeyBestPractices, nil)
	for _, p := range head(all, maxPractices) {
		v.Practices = append(v.Practices, practice{
			Company: access.Text(p, "company", "先進企業"),
			Results: access.Text(p, "results", "成果情報を調査中"),
		})
	}
	for _, p := range all {
		company := access.Text(p, "company", "")
		if isOverseas(company) {
			if len(v.Overseas) < maxPractices {
				v.Overseas = append(v.Overseas, practice{
					Company: access.Text(p, "company", "海外企業"),
					Results: access.Text(p, "results", "成果調査中"),
				})
			}
			continue
		}
		if len(v.Domestic) < maxPractices {
			v.Domestic = append(v.Domestic, practice{
				Company: access.Text(p, "company", "国内企業"),
				Results: access.Text(p, "results", "成果調査中"),
			})
		}
	}
	return v
}

func isOverseas(company string) bool {
	for _, m := range overseasMarkers {
		if strings.Contains(company, m) {
			return true
		}
	}
	return false
}

func head(l []any, n int) []any {
	if len(l) > n {
		return l[:n]
	}
	return l
}
