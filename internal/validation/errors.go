package validation

import (
	"strings"
)

// FieldError is one failing field-shape rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StructuralValidationError lists every field that failed a shape rule.
type StructuralValidationError struct {
	Fields []FieldError
}

func (e *StructuralValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// BusinessRuleViolation carries the first failing business rule.
type BusinessRuleViolation struct {
	Rule    string
	Message string
}

func (e *BusinessRuleViolation) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}
