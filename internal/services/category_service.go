package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/query"
	"storefront/internal/repositories"
	"storefront/internal/validation"

	"go.uber.org/zap"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
	events     EventPublisher
	log        Log
}

// NewCategoryService creates a new CategoryService. events may be nil.
func NewCategoryService(categories repositories.CategoryRepository, products repositories.ProductRepository, events EventPublisher, log Log) *CategoryService {
	return &CategoryService{
		categories: categories,
		products:   products,
		events:     events,
		log:        log,
	}
}

func (s *CategoryService) ListCategories(ctx context.Context, filter models.CategoryFilter, opts query.Options) ([]models.Category, query.Meta, error) {
	categories, meta, err := s.categories.List(ctx, filter, opts)
	if err != nil {
		return nil, query.Meta{}, &StorageError{Err: err}
	}
	return categories, meta, nil
}

func (s *CategoryService) CategoriesWithCounts(ctx context.Context, opts query.Options) ([]models.CategoryWithCount, query.Meta, error) {
	categories, meta, err := s.categories.ListWithCounts(ctx, opts)
	if err != nil {
		return nil, query.Meta{}, &StorageError{Err: err}
	}
	return categories, meta, nil
}

func (s *CategoryService) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "category", id, "")
	}
	return category, nil
}

// CategoryProducts lists the products of an existing category. Any category
// set on filter is replaced by id.
func (s *CategoryService) CategoryProducts(ctx context.Context, id int64, filter models.ProductFilter, opts query.Options) ([]models.Product, query.Meta, error) {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return nil, query.Meta{}, lookupError(err, "category", id, "")
	}
	filter.CategoryID = id
	products, meta, err := s.products.List(ctx, filter, opts)
	if err != nil {
		return nil, query.Meta{}, &StorageError{Err: err}
	}
	return products, meta, nil
}

// CreateCategory validates payload and inserts the category. Names are
// unique regardless of case.
func (s *CategoryService) CreateCategory(ctx context.Context, payload models.CategoryPayload) (*models.Category, error) {
	name, ferr := validation.Name(payload.Name.Value, validation.CategoryKind)
	if ferr != nil {
		return nil, fieldError(ferr)
	}
	description, ferr := validation.Description(payload.Description.Value, validation.CategoryDescriptionMax)
	if ferr != nil {
		return nil, fieldError(ferr)
	}

	if err := s.checkName(ctx, name, 0); err != nil {
		return nil, err
	}

	category := &models.Category{Name: name, Description: description}
	if err := s.categories.Create(ctx, category); err != nil {
		s.log.Error("Failed to create category", zap.Error(err))
		return nil, &StorageError{Err: err}
	}

	publishEvent(s.events, s.log, "category.created", category.ID, category)
	return category, nil
}

// UpdateCategory changes only the fields present in payload and returns the
// stored category.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, payload models.CategoryPayload) (*models.Category, error) {
	changes := query.NewUpdate()
	var name string

	if payload.Name.Present {
		var ferr *validation.FieldError
		name, ferr = validation.Name(payload.Name.Value, validation.CategoryKind)
		if ferr != nil {
			return nil, fieldError(ferr)
		}
		changes.Set("name", name)
	}
	if payload.Description.Present {
		description, ferr := validation.Description(payload.Description.Value, validation.CategoryDescriptionMax)
		if ferr != nil {
			return nil, fieldError(ferr)
		}
		changes.Set("description", description)
	}

	if changes.Len() == 0 {
		return nil, &ValidationError{Field: "body", Message: ErrNothingToUpdate}
	}

	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return nil, lookupError(err, "category", id, "")
	}
	if payload.Name.Present {
		if err := s.checkName(ctx, name, id); err != nil {
			return nil, err
		}
	}

	if err := s.categories.Update(ctx, id, changes); err != nil {
		s.log.Error("Failed to update category", zap.Int64("id", id), zap.Error(err))
		return nil, lookupError(err, "category", id, "")
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "category", id, "")
	}
	publishEvent(s.events, s.log, "category.updated", id, category)
	return category, nil
}

// DeleteCategory deletes a category and returns it together with the number
// of products that were attached to it. Those products keep existing without
// a category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) (*models.Category, int64, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, 0, lookupError(err, "category", id, "")
	}
	affected, err := s.categories.CountProducts(ctx, id)
	if err != nil {
		return nil, 0, &StorageError{Err: err}
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete category", zap.Int64("id", id), zap.Error(err))
		return nil, 0, lookupError(err, "category", id, "")
	}

	publishEvent(s.events, s.log, "category.deleted", id, map[string]interface{}{
		"category":         category,
		"affectedProducts": affected,
	})
	return category, affected, nil
}

// checkName rejects a name already used by another category. The check and
// the following write are separate statements.
func (s *CategoryService) checkName(ctx context.Context, name string, excludeID int64) error {
	taken, err := s.categories.NameTaken(ctx, name, excludeID)
	if err != nil {
		return &StorageError{Err: err}
	}
	if taken {
		return &ValidationError{Field: "name", Message: "a category with this name already exists"}
	}
	return nil
}
