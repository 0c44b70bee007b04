package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	templates = map[string]string{
		"required":     "{field} is required",
		"gte":          "{field} must be greater than or equal to {param}",
		"lte":          "{field} must be less than or equal to {param}",
		"oneof":        "{field} must be one of {param}",
		"max":          "{field} must be less than or equal to {param}",
		"min":          "{field} must be greater than or equal to {param}",
		"email":        "{field} must be a valid email address",
		"notblank":     "{field} must not be blank",
		"calendardate": "{field} must be a date in YYYY-MM-DD format",
	}
)

// messages renders one human-readable message per failed field, so the caller
// can report every violation at once.
func messages(err error) []string {
	var valErrors val.ValidationErrors

	if !errors.As(err, &valErrors) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(valErrors))

	for _, valErr := range valErrors {
		template := templates[valErr.Tag()]
		if template == "" {
			out = append(out, valErr.Error())

			continue
		}

		msg := strings.ReplaceAll(template, "{field}", valErr.Field())
		msg = strings.ReplaceAll(msg, "{param}", valErr.Param())
		out = append(out, msg)
	}

	return out
}
