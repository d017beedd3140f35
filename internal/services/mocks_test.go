package services_test

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/query"

	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, filter models.ProductFilter, opts query.Options) ([]models.Product, query.Meta, error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return nil, query.Meta{}, args.Error(2)
	}
	return args.Get(0).([]models.Product), args.Get(1).(query.Meta), args.Error(2)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, id int64, changes *query.Update) error {
	args := m.Called(ctx, id, changes)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of repositories.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context, filter models.CategoryFilter, opts query.Options) ([]models.Category, query.Meta, error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return nil, query.Meta{}, args.Error(2)
	}
	return args.Get(0).([]models.Category), args.Get(1).(query.Meta), args.Error(2)
}

func (m *MockCategoryRepository) ListWithCounts(ctx context.Context, opts query.Options) ([]models.CategoryWithCount, query.Meta, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, query.Meta{}, args.Error(2)
	}
	return args.Get(0).([]models.CategoryWithCount), args.Get(1).(query.Meta), args.Error(2)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) CountProducts(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, id int64, changes *query.Update) error {
	args := m.Called(ctx, id, changes)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}
