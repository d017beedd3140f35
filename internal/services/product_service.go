package services

import (
	"context"
	"strings"

	"storefront/internal/models"
	"storefront/internal/query"
	"storefront/internal/repositories"
	"storefront/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles business logic related to products.
type ProductService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	events     EventPublisher
	log        Log
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(products repositories.ProductRepository, categories repositories.CategoryRepository, events EventPublisher, log Log) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		events:     events,
		log:        log,
	}
}

// ListProducts returns one page of products matching filter.
func (s *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter, opts query.Options) ([]models.Product, query.Meta, error) {
	products, meta, err := s.products.List(ctx, filter, opts)
	if err != nil {
		return nil, query.Meta{}, &StorageError{Err: err}
	}
	return products, meta, nil
}

// SearchProducts matches term against names and descriptions, optionally
// bounded by price. The term is required.
func (s *ProductService) SearchProducts(ctx context.Context, term string, minPrice, maxPrice *decimal.Decimal, opts query.Options) ([]models.Product, query.Meta, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, query.Meta{}, &ValidationError{Field: "q", Message: "search term is required"}
	}
	return s.ListProducts(ctx, models.ProductFilter{Search: term, MinPrice: minPrice, MaxPrice: maxPrice}, opts)
}

// InStockProducts lists products with stock, highest stock first.
func (s *ProductService) InStockProducts(ctx context.Context, page query.Page) ([]models.Product, query.Meta, error) {
	inStock := true
	return s.ListProducts(ctx, models.ProductFilter{InStock: &inStock}, query.Options{Sort: "stock", Order: "desc", Page: page})
}

// OutOfStockProducts lists products without stock by name.
func (s *ProductService) OutOfStockProducts(ctx context.Context, page query.Page) ([]models.Product, query.Meta, error) {
	inStock := false
	return s.ListProducts(ctx, models.ProductFilter{InStock: &inStock}, query.Options{Sort: "name", Order: "asc", Page: page})
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "product", id, "")
	}
	return product, nil
}

// CreateProduct validates payload, checks the category reference and
// inserts the product.
func (s *ProductService) CreateProduct(ctx context.Context, payload models.ProductPayload) (*models.Product, error) {
	name, ferr := validation.Name(payload.Name.Value, validation.ProductKind)
	if ferr != nil {
		return nil, fieldError(ferr)
	}
	price, ferr := validation.Price(payload.Price.Value)
	if ferr != nil {
		return nil, fieldError(ferr)
	}
	stock, ferr := validation.Stock(payload.Stock.Value, payload.Stock.Present)
	if ferr != nil {
		return nil, fieldError(ferr)
	}
	description, ferr := validation.Description(payload.Description.Value, validation.ProductDescriptionMax)
	if ferr != nil {
		return nil, fieldError(ferr)
	}
	categoryID, ferr := validation.CategoryRef(payload.CategoryID.Value)
	if ferr != nil {
		return nil, fieldError(ferr)
	}

	if err := s.checkCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		CategoryID:  categoryID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		s.log.Error("Failed to create product", zap.Error(err))
		return nil, &StorageError{Err: err}
	}

	publishEvent(s.events, s.log, "product.created", product.ID, product)
	return product, nil
}

// UpdateProduct changes only the fields present in payload and returns the
// stored product.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, payload models.ProductPayload) (*models.Product, error) {
	changes := query.NewUpdate()
	var categoryID *int64

	if payload.Name.Present {
		name, ferr := validation.Name(payload.Name.Value, validation.ProductKind)
		if ferr != nil {
			return nil, fieldError(ferr)
		}
		changes.Set("name", name)
	}
	if payload.Description.Present {
		description, ferr := validation.Description(payload.Description.Value, validation.ProductDescriptionMax)
		if ferr != nil {
			return nil, fieldError(ferr)
		}
		changes.Set("description", description)
	}
	if payload.Price.Present {
		price, ferr := validation.Price(payload.Price.Value)
		if ferr != nil {
			return nil, fieldError(ferr)
		}
		changes.Set("price", price)
	}
	if payload.Stock.Present {
		stock, ferr := validation.Stock(payload.Stock.Value, true)
		if ferr != nil {
			return nil, fieldError(ferr)
		}
		changes.Set("stock", stock)
	}
	if payload.CategoryID.Present {
		ref, ferr := validation.CategoryRef(payload.CategoryID.Value)
		if ferr != nil {
			return nil, fieldError(ferr)
		}
		categoryID = ref
		changes.Set("category_id", ref)
	}

	if changes.Len() == 0 {
		return nil, &ValidationError{Field: "body", Message: ErrNothingToUpdate}
	}

	if _, err := s.products.GetByID(ctx, id); err != nil {
		return nil, lookupError(err, "product", id, "")
	}
	if err := s.checkCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, id, changes); err != nil {
		s.log.Error("Failed to update product", zap.Int64("id", id), zap.Error(err))
		return nil, lookupError(err, "product", id, "")
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "product", id, "")
	}
	publishEvent(s.events, s.log, "product.updated", id, product)
	return product, nil
}

// DeleteProduct deletes a product and returns the record as it was.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "product", id, "")
	}
	if err := s.products.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete product", zap.Int64("id", id), zap.Error(err))
		return nil, lookupError(err, "product", id, "")
	}

	publishEvent(s.events, s.log, "product.deleted", id, product)
	return product, nil
}

// checkCategory verifies that a non-nil category reference exists.
func (s *ProductService) checkCategory(ctx context.Context, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categories.GetByID(ctx, *categoryID); err != nil {
		return lookupError(err, "category", *categoryID, "category_id")
	}
	return nil
}
