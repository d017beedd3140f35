package models

import "time"

// Category groups products in the store.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryWithCount is a category together with the number of products linked to it.
type CategoryWithCount struct {
	Category
	ProductCount int64 `json:"product_count"`
}

// CategoryPayload is the body of a category create or update request.
type CategoryPayload struct {
	Name        Field `json:"name"`
	Description Field `json:"description"`
}

// CategoryFilter holds the optional list parameters for categories.
type CategoryFilter struct {
	Name        string
	Description string
}
