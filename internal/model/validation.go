package model

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports malformed input. Fields maps a JSON field name to
// the rule it failed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// CodeValidationFailed is the error code for field-level validation failures.
const CodeValidationFailed = "VALIDATION_FAILED"
