package validator

import "fmt"

// Positive validates that value is strictly greater than zero.
func Positive[T Numeric](field string, value T) Rule {
	var zero T
	return Rule{
		Check: func() bool {
			return value > zero
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be greater than 0",
			TranslationKey: "validation.positive",
			Params:         map[string]any{"field": field},
		},
	}
}

// Between validates that min <= value <= max.
func Between[T Numeric](field string, value, min, max T) Rule {
	return Rule{
		Check: func() bool {
			return value >= min && value <= max
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be between %v and %v", min, max),
			TranslationKey: "validation.between",
			Params:         map[string]any{"field": field, "min": min, "max": max},
		},
	}
}
