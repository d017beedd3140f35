package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/query"
)

const (
	productsTable  = "products"
	productColumns = "id, name, description, price, stock, category_id, created_at, updated_at"
)

// SQLProductRepository is a ProductRepository issuing SQL through a Gateway.
type SQLProductRepository struct {
	gw Gateway
}

// NewSQLProductRepository creates a new instance of SQLProductRepository.
func NewSQLProductRepository(gw Gateway) *SQLProductRepository {
	return &SQLProductRepository{gw: gw}
}

// List returns one page of products matching filter and the metadata of
// the whole filtered set.
func (r *SQLProductRepository) List(ctx context.Context, filter models.ProductFilter, opts query.Options) ([]models.Product, query.Meta, error) {
	sel := query.Select{
		Columns: productColumns,
		From:    productsTable,
		Filter:  productFilter(filter),
		Sort:    query.ResolveSort(opts.Sort, opts.Order, ProductSortColumns, DefaultProductSort),
		Page:    opts.Page,
	}

	countSQL, countArgs := sel.Count()
	var total int64
	if err := r.gw.Query(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, query.Meta{}, fmt.Errorf("failed to count products: %w", err)
	}

	rowsSQL, rowsArgs := sel.Rows()
	products := []models.Product{}
	if err := r.gw.Query(ctx, &products, rowsSQL, rowsArgs...); err != nil {
		return nil, query.Meta{}, fmt.Errorf("failed to list products: %w", err)
	}
	return products, query.NewMeta(opts.Page, total, len(products)), nil
}

func productFilter(f models.ProductFilter) *query.Filter {
	q := query.NewFilter().
		Contains("name", f.Name).
		Contains("description", f.Description)
	if f.Search != "" {
		term := query.Wildcard(f.Search)
		q.Where("("+query.Like("name")+" OR "+query.Like("description")+")", term, term)
	}
	if f.MinPrice != nil {
		q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q.Where("price <= ?", *f.MaxPrice)
	}
	if f.InStock != nil {
		if *f.InStock {
			q.Where("stock > 0")
		} else {
			q.Where("stock = 0")
		}
	}
	if f.CategoryID > 0 {
		q.Where("category_id = ?", f.CategoryID)
	}
	return q
}

// GetByID retrieves a single product by its ID.
func (r *SQLProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var products []models.Product
	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", productColumns, productsTable)
	if err := r.gw.Query(ctx, &products, stmt, id); err != nil {
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	return &products[0], nil
}

// Create inserts product and fills in its generated ID and timestamps.
func (r *SQLProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC().Truncate(time.Microsecond)
	stmt := fmt.Sprintf(
		"INSERT INTO %s (name, description, price, stock, category_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id",
		productsTable,
	)
	res, err := r.gw.Run(ctx, stmt,
		product.Name, product.Description, product.Price, product.Stock, product.CategoryID, now, now)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = res.InsertID
	product.CreatedAt = now
	product.UpdatedAt = now
	return nil
}

// Update applies changes to the product with the given ID.
func (r *SQLProductRepository) Update(ctx context.Context, id int64, changes *query.Update) error {
	stmt, args, err := changes.Build(productsTable, id, time.Now().UTC().Truncate(time.Microsecond))
	if err != nil {
		return err
	}
	res, err := r.gw.Run(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID.
func (r *SQLProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.gw.Run(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", productsTable), id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	return nil
}
