package repositories

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/query"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter models.ProductFilter, opts query.Options) ([]models.Product, query.Meta, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id int64, changes *query.Update) error
	Delete(ctx context.Context, id int64) error
}

// ProductSortColumns is the sort whitelist for product lists.
var ProductSortColumns = query.Columns{
	"id":          "id",
	"name":        "name",
	"price":       "price",
	"stock":       "stock",
	"category_id": "category_id",
	"created_at":  "created_at",
	"updated_at":  "updated_at",
}

// DefaultProductSort is used when the requested sort is not whitelisted.
const DefaultProductSort = "id"
