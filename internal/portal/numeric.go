package portal

import (
	"math"
	"strconv"
	"strings"
)

// parseInt reads a whole number typed into a form. Blank input is reported as
// missing when required; anything else that does not parse is rejected.
func parseInt(errs fieldErrors, field, raw string, required bool) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			errs[field] = field + " is required"
		}
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs[field] = field + " must be a whole number"
		return 0
	}
	return n
}

// parseOptionalFloat reads an optional finite decimal. Blank input yields nil.
func parseOptionalFloat(errs fieldErrors, field, raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		errs[field] = field + " must be a number"
		return nil
	}
	return &f
}

// optionalString maps blank input to nil.
func optionalString(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	s := strings.TrimSpace(raw)
	return &s
}
