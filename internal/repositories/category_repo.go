package repositories

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/query"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	List(ctx context.Context, filter models.CategoryFilter, opts query.Options) ([]models.Category, query.Meta, error)
	ListWithCounts(ctx context.Context, opts query.Options) ([]models.CategoryWithCount, query.Meta, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	// NameTaken reports whether a category other than excludeID already
	// uses name, compared case-insensitively.
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	CountProducts(ctx context.Context, id int64) (int64, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id int64, changes *query.Update) error
	Delete(ctx context.Context, id int64) error
}

// CategorySortColumns is the sort whitelist for category lists.
var CategorySortColumns = query.Columns{
	"id":         "id",
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// CategoryCountSortColumns is the sort whitelist for categories listed
// with their product counts.
var CategoryCountSortColumns = query.Columns{
	"id":            "c.id",
	"name":          "c.name",
	"created_at":    "c.created_at",
	"updated_at":    "c.updated_at",
	"product_count": "product_count",
}

// DefaultCategorySort is used when the requested sort is not whitelisted.
const DefaultCategorySort = "name"
