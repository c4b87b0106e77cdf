package study

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMalformedJSON   = errors.New("malformed JSON response")
	ErrSchemaViolation = errors.New("response does not match the study schema")
)

// SchemaError lists every rule the decoded result broke.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: %s", ErrSchemaViolation, strings.Join(e.Violations, "; "))
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchemaViolation }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Decode parses raw model output and checks it against the study schema.
func Decode(raw []byte) (Result, error) {
	result, err := DecodeLenient(raw)
	if err != nil {
		return Result{}, err
	}
	if violations := Check(result); len(violations) > 0 {
		return Result{}, &SchemaError{Violations: violations}
	}
	return result, nil
}

// DecodeLenient only parses raw; whatever shape the model produced is kept.
func DecodeLenient(raw []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return result, nil
}

// Check returns the schema violations found in result, or nil.
func Check(result Result) []string {
	var violations []string
	if err := validate.Struct(result); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return []string{err.Error()}
		}
		for _, fe := range fieldErrs {
			violations = append(violations, describe(fe))
		}
	}

	seen := make(map[int]bool, len(result.Assessments))
	for idx, q := range result.Assessments {
		if seen[q.ID] {
			violations = append(violations, fmt.Sprintf("assessments[%d].id %d is not unique", idx, q.ID))
		}
		seen[q.ID] = true
		if len(q.Options) > 0 && (q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options)) {
			violations = append(violations, fmt.Sprintf("assessments[%d].correctAnswerIndex %d is outside its options", idx, q.CorrectAnswerIndex))
		}
	}
	return violations
}

func describe(fe validator.FieldError) string {
	path := fe.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s", path, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", path, fe.Tag())
}
