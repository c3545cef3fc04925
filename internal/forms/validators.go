package forms

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var isoDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
}

// ParseISODate parses a calendar date in one of the ISO 8601 forms browsers
// submit. Impossible dates such as 2026-02-30 are rejected.
func ParseISODate(s string) (time.Time, error) {
	var err error
	for _, layout := range isoDateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func isoDateValidator(fl validator.FieldLevel) bool {
	_, err := ParseISODate(fl.Field().String())
	return err == nil
}
