package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/agent-research/internal/access"
	"github.com/sells-group/agent-research/internal/model"
	"github.com/sells-group/agent-research/internal/research"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// pageInput carries what the current request adds to the session view.
type pageInput struct {
	Query model.Query
	Error string
}

type labelled struct {
	Label, Value string
}

type reportView struct {
	Status       string
	Score        float64
	QualityLabel string
	QualityLevel research.QualityLevel
	SearchCount  int
	Sections     int
	ErrorReason  string
	Fallback     bool

	Profile     []labelled
	Industry    []labelled
	Challenges  []string
	Initiatives []labelled
	Practices   []labelled
	Trends      []labelled
	Metrics     []labelled
	Voice       string
	JSON        string
}

type pageView struct {
	Form        model.Query
	FormError   string
	Suggestions []string
	Session     model.SessionSnapshot
	Report      *reportView
	HasDeck     bool
}

func (s *Server) renderPage(w http.ResponseWriter, status int, in pageInput) {
	snap := s.session.Snapshot()
	form := in.Query
	if form.Target == "" && form.Focus == "" {
		form = snap.Query
	}

	v := pageView{
		Form:        form,
		FormError:   in.Error,
		Suggestions: research.FocusSuggestions(form.Focus),
		Session:     snap,
		HasDeck:     snap.Deck != nil,
	}
	if snap.Record != nil {
		v.Report = buildReport(snap.Record)
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, v); err != nil {
		zap.L().Error("web: render page", zap.Error(err))
		http.Error(w, "page render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func buildReport(rec model.Record) *reportView {
	const pending = model.PlaceholderLoading
	score := rec.QualityScore()
	label, level := research.QualityLabel(score)

	r := &reportView{
		Status:       string(rec.Status()),
		Score:        score,
		QualityLabel: label,
		QualityLevel: level,
		SearchCount:  rec.SearchCount(),
		Sections:     rec.CompletedSections(),
		ErrorReason:  rec.ErrorReason(),
		Fallback:     rec.Status() == model.StatusFallback,
		Profile: []labelled{
			{"正式名称", access.Text(rec, "company_profile.official_name", pending)},
			{"設立年", access.Text(rec, "company_profile.established_year", pending)},
			{"従業員数", access.Text(rec, "company_profile.employees", pending)},
			{"売上高", access.Text(rec, "company_profile.revenue", pending)},
			{"事業概要", access.Text(rec, "company_profile.business_overview", pending)},
		},
		Industry: []labelled{
			{"業界", access.Text(rec, "industry_analysis.industry_name", pending)},
			{"市場規模", access.Text(rec, "industry_analysis.market_size", pending)},
		},
		Metrics: []labelled{
			{"効率改善率", access.Text(rec, "industry_metrics.efficiency_improvement", pending)},
			{"収益向上率", access.Text(rec, "industry_metrics.revenue_increase", pending)},
			{"コスト削減率", access.Text(rec, "industry_metrics.cost_reduction", pending)},
			{"生産性向上率", access.Text(rec, "industry_metrics.productivity_gain", pending)},
		},
		Voice: access.Text(rec, model.KeyIndustryVoice, pending),
	}

	for _, c := range access.List(rec, model.KeyCurrentChallenges, nil) {
		r.Challenges = append(r.Challenges, access.Text(c, "specific_issue", pending))
	}
	for _, i := range access.List(rec, "focus_area_analysis.current_initiatives", nil) {
		r.Initiatives = append(r.Initiatives, labelled{
			access.Text(i, "initiative", pending),
			access.Text(i, "results.quantitative", pending),
		})
	}
	for _, p := range access.List(rec, model.KeyBestPractices, nil) {
		r.Practices = append(r.Practices, labelled{
			access.Text(p, "company", pending),
			access.Text(p, "results", pending),
		})
	}
	for _, t := range access.List(rec, "market_trends.key_trends", nil) {
		r.Trends = append(r.Trends, labelled{
			access.Text(t, "trend_name", pending),
			access.Text(t, "description", pending),
		})
	}

	if b, err := json.MarshalIndent(rec.Clean(), "", "  "); err == nil {
		r.JSON = string(b)
	}
	return r
}
