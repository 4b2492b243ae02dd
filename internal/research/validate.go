package research

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"

	"github.com/sells-group/agent-research/internal/model"
)

// ErrInvalidQuery matches every QueryError.
var ErrInvalidQuery = eris.New("research: invalid query")

// QueryError is a rejected query. Message is shown to the end user as is.
type QueryError struct {
	Field   string
	Message string
}

func (e *QueryError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrInvalidQuery) hold.
func (e *QueryError) Is(target error) bool { return target == ErrInvalidQuery }

// prohibitedTargets are placeholder names people type instead of a real
// company or person. Matched case-insensitively as substrings.
var prohibitedTargets = []string{"test", "テスト", "検証", "sample"}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func queryValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails for an empty tag or nil func.
		_ = validate.RegisterValidation("realtarget", func(fl validator.FieldLevel) bool {
			return isRealTarget(fl.Field().String())
		})
	})
	return validate
}

func isRealTarget(target string) bool {
	lower := strings.ToLower(target)
	for _, w := range prohibitedTargets {
		if strings.Contains(lower, strings.ToLower(w)) {
			return false
		}
	}
	return true
}

// ValidateQuery checks q and returns a *QueryError for the first failing field.
func ValidateQuery(q model.Query) error {
	err := queryValidator().Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return eris.Wrap(err, "research: validate query")
	}
	return &QueryError{Field: verrs[0].Field(), Message: message(verrs[0])}
}

func message(fe validator.FieldError) string {
	switch fe.Field() {
	case "Target":
		switch fe.Tag() {
		case "required":
			return "調査対象を入力してください"
		case "min":
			return "調査対象は2文字以上で入力してください"
		case "max":
			return "調査対象は100文字以内で入力してください"
		case "realtarget":
			return "実際の企業名または人名を入力してください"
		}
	case "Focus":
		return "調査観点を入力してください"
	}
	return fe.Error()
}
