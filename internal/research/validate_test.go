package research

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agent-research/internal/model"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   model.Query
		wantMsg string
	}{
		{"valid", model.Query{Target: "株式会社メルカリ", Focus: "AI活用"}, ""},
		{"missing target", model.Query{Focus: "AI"}, "調査対象を入力してください"},
		{"too short", model.Query{Target: "A", Focus: "AI"}, "調査対象は2文字以上で入力してください"},
		{"two runes ok", model.Query{Target: "楽天", Focus: "AI"}, ""},
		{"too long", model.Query{Target: strings.Repeat("あ", 101), Focus: "AI"}, "調査対象は100文字以内で入力してください"},
		{"test word", model.Query{Target: "Test Company", Focus: "AI"}, "実際の企業名または人名を入力してください"},
		{"japanese test word", model.Query{Target: "テスト株式会社", Focus: "AI"}, "実際の企業名または人名を入力してください"},
		{"sample word", model.Query{Target: "SAMPLE Inc.", Focus: "AI"}, "実際の企業名または人名を入力してください"},
		{"missing focus", model.Query{Target: "Acme Corp"}, "調査観点を入力してください"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidQuery)
			var qerr *QueryError
			require.ErrorAs(t, err, &qerr)
			assert.Equal(t, tt.wantMsg, qerr.Message)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}
