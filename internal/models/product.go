package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a product in the store.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	CategoryID  *int64          `json:"category_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductPayload is the body of a product create or update request.
// Each field records whether it was present in the JSON document.
type ProductPayload struct {
	Name        Field `json:"name"`
	Description Field `json:"description"`
	Price       Field `json:"price"`
	Stock       Field `json:"stock"`
	CategoryID  Field `json:"category_id"`
}

// ProductFilter holds the optional list parameters for products.
// Zero values mean "no predicate".
type ProductFilter struct {
	Name        string
	Description string
	// Search matches Name or Description.
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
	CategoryID int64
}
