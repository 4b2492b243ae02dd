package model

// Record is a normalized research result. It is a plain nested mapping so the
// presentation layer can read it through dotted paths; nested objects are
// map[string]any and lists are []any, the same shapes encoding/json produces.
type Record map[string]any

// Top-level record keys.
const (
	KeyCompanyProfile    = "company_profile"
	KeyIndustryAnalysis  = "industry_analysis"
	KeyCurrentChallenges = "current_challenges"
	KeyFocusAreaAnalysis = "focus_area_analysis"
	KeyBestPractices     = "best_practices"
	KeyMarketTrends      = "market_trends"
	KeyIndustryMetrics   = "industry_metrics"
	KeyIndustryVoice     = "industry_voice"

	KeyResearchStatus   = "research_status"
	KeySearchCount      = "search_count"
	KeyDataQualityScore = "data_quality_score"
	KeyRawResponse      = "raw_response"
	KeyErrorReason      = "error_reason"
)

// Nested keys read by the scorer and the slide renderer.
const (
	KeyOfficialName          = "official_name"
	KeyEstablishedYear       = "established_year"
	KeyEmployees             = "employees"
	KeyRevenue               = "revenue"
	KeyBusinessOverview      = "business_overview"
	KeyIndustryName          = "industry_name"
	KeyMarketSize            = "market_size"
	KeyTop5Companies         = "top5_companies"
	KeyCurrentInitiatives    = "current_initiatives"
	KeyKeyTrends             = "key_trends"
	KeyEfficiencyImprovement = "efficiency_improvement"
	KeyRevenueIncrease       = "revenue_increase"
	KeyCostReduction         = "cost_reduction"
	KeyProductivityGain      = "productivity_gain"
)

// Shape is the container type a required key must hold.
type Shape int

const (
	ShapeObject Shape = iota
	ShapeList
	ShapeString
)

// RequiredKey pairs a top-level key with its shape.
type RequiredKey struct {
	Name  string
	Shape Shape
}

// RequiredKeys lists the eight keys every record carries after normalization,
// in display order.
var RequiredKeys = []RequiredKey{
	{KeyCompanyProfile, ShapeObject},
	{KeyIndustryAnalysis, ShapeObject},
	{KeyCurrentChallenges, ShapeList},
	{KeyFocusAreaAnalysis, ShapeObject},
	{KeyBestPractices, ShapeList},
	{KeyMarketTrends, ShapeObject},
	{KeyIndustryMetrics, ShapeObject},
	{KeyIndustryVoice, ShapeString},
}

// MetaKeys are set by the orchestrator, never by the agent.
var MetaKeys = []string{
	KeyResearchStatus,
	KeySearchCount,
	KeyDataQualityScore,
	KeyRawResponse,
	KeyErrorReason,
}

// EmptyValue returns a fresh zero value for the shape.
func (s Shape) EmptyValue() any {
	switch s {
	case ShapeObject:
		return map[string]any{}
	case ShapeList:
		return []any{}
	default:
		return ""
	}
}

// Matches reports whether v already holds the shape.
func (s Shape) Matches(v any) bool {
	switch s {
	case ShapeObject:
		_, ok := v.(map[string]any)
		return ok
	case ShapeList:
		_, ok := v.([]any)
		return ok
	default:
		_, ok := v.(string)
		return ok
	}
}

// ResearchStatus says which path produced a record.
type ResearchStatus string

const (
	StatusCompleted ResearchStatus = "completed"
	StatusFallback  ResearchStatus = "fallback"
)

// Status returns the record's research status, or "" if unset.
func (r Record) Status() ResearchStatus {
	s, _ := r[KeyResearchStatus].(string)
	return ResearchStatus(s)
}

// QualityScore returns data_quality_score, tolerating records decoded from JSON.
func (r Record) QualityScore() float64 {
	switch v := r[KeyDataQualityScore].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// SearchCount returns search_count, tolerating records decoded from JSON.
func (r Record) SearchCount() int {
	switch v := r[KeySearchCount].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// ErrorReason returns the fallback reason, if any.
func (r Record) ErrorReason() string {
	s, _ := r[KeyErrorReason].(string)
	return s
}

// RawResponse returns the agent reply kept on the success path.
func (r Record) RawResponse() string {
	s, _ := r[KeyRawResponse].(string)
	return s
}

// Clean returns a shallow copy without the orchestrator's meta keys.
func (r Record) Clean() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	for _, k := range MetaKeys {
		delete(out, k)
	}
	return out
}

// CompletedSections counts the required keys holding non-empty content.
func (r Record) CompletedSections() int {
	n := 0
	for _, k := range RequiredKeys {
		switch v := r[k.Name].(type) {
		case map[string]any:
			if len(v) > 0 {
				n++
			}
		case []any:
			if len(v) > 0 {
				n++
			}
		case string:
			if v != "" {
				n++
			}
		}
	}
	return n
}
