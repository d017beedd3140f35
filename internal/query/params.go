package query

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal parses an optional numeric bound. Empty or non-numeric input
// yields nil, meaning no predicate.
func Decimal(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// TriState parses "true"/"false" (any case). Everything else yields nil.
func TriState(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// PositiveInt parses an optional identifier filter. Zero, negative and
// non-numeric input yield 0, which callers treat as "no filter".
func PositiveInt(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
