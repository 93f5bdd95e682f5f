package validator

import (
	"strings"

	"github.com/google/uuid"
)

// ValidUUID validates canonical 36-character UUID strings.
func ValidUUID(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if len(value) != 36 || strings.TrimSpace(value) != value {
				return false
			}
			if value[8] != '-' || value[13] != '-' || value[18] != '-' || value[23] != '-' {
				return false
			}
			_, err := uuid.Parse(value)
			return err == nil
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid UUID",
			TranslationKey: "validation.uuid",
			Params:         map[string]any{"field": field},
		},
	}
}
