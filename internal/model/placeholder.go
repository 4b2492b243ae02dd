package model

// Placeholder strings shown while a field has no real data. They are
// user-facing and stay in Japanese to match the agent prompt.
const (
	// PlaceholderLoading is the accessor's default for absent values.
	PlaceholderLoading = "データ取得中..."
	// PlaceholderRunning marks a field the renderer is still waiting on.
	PlaceholderRunning = "調査実行中"
)

// IsSentinel reports whether s is one of the generic "no data yet" markers.
func IsSentinel(s string) bool {
	return s == PlaceholderLoading || s == PlaceholderRunning
}

// PlaceholderChallenge is the single entry used when no challenge was found.
func PlaceholderChallenge() map[string]any {
	return map[string]any{
		"specific_issue":  "詳細な課題分析を実行中",
		"business_impact": "ビジネス影響を調査中",
	}
}

// PlaceholderBestPractice is the single entry used when no best practice was found.
func PlaceholderBestPractice() map[string]any {
	return map[string]any{
		"company": "先進企業事例",
		"results": "成功事例を調査中",
	}
}
