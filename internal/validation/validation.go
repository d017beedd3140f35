// Package validation checks individual request fields for products and
// categories. Every function is pure: it takes one decoded JSON value and
// returns either the normalised value or a *FieldError naming the field.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Kind selects entity-specific bounds.
type Kind int

const (
	ProductKind Kind = iota
	CategoryKind
)

// Bounds for the fields that depend on the entity kind.
const (
	ProductNameMin         = 3
	ProductNameMax         = 200
	CategoryNameMin        = 2
	CategoryNameMax        = 100
	CategoryDescriptionMax = 500
	// ProductDescriptionMax of 0 leaves product descriptions unbounded.
	ProductDescriptionMax = 0
)

// MaxPrice is the highest accepted product price.
var MaxPrice = decimal.NewFromInt(1_000_000)

// FieldError describes why a single field was rejected.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) *FieldError {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Letters, spaces and the letters of the Latin-1 Supplement block
// (U+00C0–U+00FF without × and ÷).
var categoryNamePattern = regexp.MustCompile(`^[A-Za-z À-ÖØ-öø-ÿ]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("categoryname", func(fl validator.FieldLevel) bool {
		return categoryNamePattern.MatchString(fl.Field().String())
	})
	return v
}

// Name validates a product or category name and returns it trimmed.
func Name(value interface{}, kind Kind) (string, *FieldError) {
	const field = "name"
	if value == nil {
		return "", invalid(field, "name is required")
	}
	s, ok := value.(string)
	if !ok {
		return "", invalid(field, "name must be a string")
	}
	name := strings.TrimSpace(s)
	if name == "" {
		return "", invalid(field, "name is required")
	}

	min, max := ProductNameMin, ProductNameMax
	if kind == CategoryKind {
		min, max = CategoryNameMin, CategoryNameMax
	}
	if err := validate.Var(name, fmt.Sprintf("min=%d,max=%d", min, max)); err != nil {
		return "", invalid(field, "name must be between %d and %d characters", min, max)
	}

	if kind == CategoryKind {
		if strings.IndexFunc(name, unicode.IsDigit) >= 0 {
			return "", invalid(field, "category name must not contain digits")
		}
		if err := validate.Var(name, "categoryname"); err != nil {
			return "", invalid(field, "category name may only contain letters and spaces")
		}
	}
	return name, nil
}

// Price validates a required price. Numbers and numeric strings are accepted.
func Price(value interface{}) (decimal.Decimal, *FieldError) {
	const field = "price"
	if value == nil {
		return decimal.Zero, invalid(field, "price is required")
	}
	d, ok := toDecimal(value)
	if !ok {
		return decimal.Zero, invalid(field, "price must be a number")
	}
	if d.IsNegative() {
		return decimal.Zero, invalid(field, "price must not be negative")
	}
	if d.GreaterThan(MaxPrice) {
		return decimal.Zero, invalid(field, "price must not exceed %s", MaxPrice.String())
	}
	return d, nil
}

// Stock validates an optional stock level. An absent value yields 0.
// An explicit null is rejected because stock is never nullable.
func Stock(value interface{}, present bool) (int64, *FieldError) {
	const field = "stock"
	if !present {
		return 0, nil
	}
	if value == nil {
		return 0, invalid(field, "stock must not be null")
	}
	d, ok := toDecimal(value)
	if !ok || !d.IsInteger() {
		return 0, invalid(field, "stock must be a whole number")
	}
	if d.IsNegative() {
		return 0, invalid(field, "stock must not be negative")
	}
	n, ok := toInt64(d)
	if !ok {
		return 0, invalid(field, "stock must be a whole number")
	}
	return n, nil
}

// Description validates an optional description. Null or blank text yields
// nil, which is stored as NULL. maxLen of 0 disables the length check.
func Description(value interface{}, maxLen int) (*string, *FieldError) {
	const field = "description"
	if value == nil {
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, invalid(field, "description must be a string")
	}
	desc := strings.TrimSpace(s)
	if desc == "" {
		return nil, nil
	}
	if maxLen > 0 {
		if err := validate.Var(desc, fmt.Sprintf("max=%d", maxLen)); err != nil {
			return nil, invalid(field, "description must be at most %d characters", maxLen)
		}
	}
	return &desc, nil
}

// CategoryRef validates a product's category reference. Null clears the
// reference; otherwise a positive integer is required.
func CategoryRef(value interface{}) (*int64, *FieldError) {
	const field = "category_id"
	if value == nil {
		return nil, nil
	}
	d, ok := toDecimal(value)
	if !ok || d.Sign() <= 0 {
		return nil, invalid(field, "category_id must be a positive whole number")
	}
	id, ok := toInt64(d)
	if !ok {
		return nil, invalid(field, "category_id must be a positive whole number")
	}
	return &id, nil
}

// ID validates a path identifier.
func ID(raw string) (int64, *FieldError) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.Sign() <= 0 {
		return 0, invalid("id", "id must be a positive whole number")
	}
	id, ok := toInt64(d)
	if !ok {
		return 0, invalid("id", "id must be a positive whole number")
	}
	return id, nil
}

// toInt64 converts a whole decimal that fits in int64.
func toInt64(d decimal.Decimal) (int64, bool) {
	if !d.IsInteger() {
		return 0, false
	}
	n := d.BigInt()
	if !n.IsInt64() {
		return 0, false
	}
	return n.Int64(), true
}

func toDecimal(value interface{}) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	default:
		return decimal.Zero, false
	}
}
