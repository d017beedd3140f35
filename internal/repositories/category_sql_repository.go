package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/query"
)

const (
	categoriesTable = "categories"
	categoryColumns = "id, name, description, created_at, updated_at"

	categoryCountColumns = "c.id AS id, c.name AS name, c.description AS description, " +
		"c.created_at AS created_at, c.updated_at AS updated_at, COUNT(p.id) AS product_count"
	categoryCountFrom    = "categories c LEFT JOIN products p ON p.category_id = c.id"
	categoryCountGroupBy = "c.id, c.name, c.description, c.created_at, c.updated_at"
)

// SQLCategoryRepository is a CategoryRepository issuing SQL through a Gateway.
type SQLCategoryRepository struct {
	gw Gateway
}

// NewSQLCategoryRepository creates a new instance of SQLCategoryRepository.
func NewSQLCategoryRepository(gw Gateway) *SQLCategoryRepository {
	return &SQLCategoryRepository{gw: gw}
}

// List returns one page of categories matching filter.
func (r *SQLCategoryRepository) List(ctx context.Context, filter models.CategoryFilter, opts query.Options) ([]models.Category, query.Meta, error) {
	sel := query.Select{
		Columns: categoryColumns,
		From:    categoriesTable,
		Filter: query.NewFilter().
			Contains("name", filter.Name).
			Contains("description", filter.Description),
		Sort: query.ResolveSort(opts.Sort, opts.Order, CategorySortColumns, DefaultCategorySort),
		Page: opts.Page,
	}

	total, err := r.count(ctx, sel)
	if err != nil {
		return nil, query.Meta{}, err
	}

	rowsSQL, rowsArgs := sel.Rows()
	categories := []models.Category{}
	if err := r.gw.Query(ctx, &categories, rowsSQL, rowsArgs...); err != nil {
		return nil, query.Meta{}, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, query.NewMeta(opts.Page, total, len(categories)), nil
}

// ListWithCounts returns one page of categories, each with the number of
// products linked to it.
func (r *SQLCategoryRepository) ListWithCounts(ctx context.Context, opts query.Options) ([]models.CategoryWithCount, query.Meta, error) {
	sel := query.Select{
		Columns: categoryCountColumns,
		From:    categoryCountFrom,
		GroupBy: categoryCountGroupBy,
		Sort:    query.ResolveSort(opts.Sort, opts.Order, CategoryCountSortColumns, DefaultCategorySort),
		Page:    opts.Page,
	}

	total, err := r.count(ctx, sel)
	if err != nil {
		return nil, query.Meta{}, err
	}

	rowsSQL, rowsArgs := sel.Rows()
	categories := []models.CategoryWithCount{}
	if err := r.gw.Query(ctx, &categories, rowsSQL, rowsArgs...); err != nil {
		return nil, query.Meta{}, fmt.Errorf("failed to list categories with counts: %w", err)
	}
	return categories, query.NewMeta(opts.Page, total, len(categories)), nil
}

func (r *SQLCategoryRepository) count(ctx context.Context, sel query.Select) (int64, error) {
	countSQL, countArgs := sel.Count()
	var total int64
	if err := r.gw.Query(ctx, &total, countSQL, countArgs...); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return total, nil
}

// GetByID retrieves a single category by its ID.
func (r *SQLCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var categories []models.Category
	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", categoryColumns, categoriesTable)
	if err := r.gw.Query(ctx, &categories, stmt, id); err != nil {
		return nil, fmt.Errorf("failed to get category by ID %d: %w", id, err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("category with ID %d: %w", id, ErrNotFound)
	}
	return &categories[0], nil
}

// NameTaken implements CategoryRepository.
func (r *SQLCategoryRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var n int64
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE LOWER(name) = LOWER(?) AND id <> ?", categoriesTable)
	if err := r.gw.Query(ctx, &n, stmt, name, excludeID); err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return n > 0, nil
}

// CountProducts returns the number of products linked to the category.
func (r *SQLCategoryRepository) CountProducts(ctx context.Context, id int64) (int64, error) {
	var n int64
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE category_id = ?", productsTable)
	if err := r.gw.Query(ctx, &n, stmt, id); err != nil {
		return 0, fmt.Errorf("failed to count products of category %d: %w", id, err)
	}
	return n, nil
}

// Create inserts category and fills in its generated ID and timestamps.
func (r *SQLCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	now := time.Now().UTC().Truncate(time.Microsecond)
	stmt := fmt.Sprintf(
		"INSERT INTO %s (name, description, created_at, updated_at) VALUES (?, ?, ?, ?) RETURNING id",
		categoriesTable,
	)
	res, err := r.gw.Run(ctx, stmt, category.Name, category.Description, now, now)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	category.ID = res.InsertID
	category.CreatedAt = now
	category.UpdatedAt = now
	return nil
}

// Update applies changes to the category with the given ID.
func (r *SQLCategoryRepository) Update(ctx context.Context, id int64, changes *query.Update) error {
	stmt, args, err := changes.Build(categoriesTable, id, time.Now().UTC().Truncate(time.Microsecond))
	if err != nil {
		return err
	}
	res, err := r.gw.Run(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category with ID %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete deletes a category by its ID. Linked products are detached by the
// foreign key's ON DELETE SET NULL.
func (r *SQLCategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.gw.Run(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", categoriesTable), id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category with ID %d: %w", id, ErrNotFound)
	}
	return nil
}
