package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/app"
	"storefront/internal/logger"
	"storefront/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupApp sets up the application on a private in-memory SQLite database.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repositories.Open(repositories.DriverSQLite, dsn, false)
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return app.New(app.Options{DB: db, Log: &logger.Logger{}})
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   string          `json:"error"`
	Field   string          `json:"field"`
	Message string          `json:"message"`
}

func call(t *testing.T, a *fiber.App, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			jsonBody, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(jsonBody)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

type product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Stock       int64   `json:"stock"`
	CategoryID  *int64  `json:"category_id"`
}

type category struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	ProductCount int64   `json:"product_count"`
}

type meta struct {
	Limit            int   `json:"limit"`
	Offset           int   `json:"offset"`
	Total            int64 `json:"total"`
	Count            int   `json:"count"`
	HasMore          bool  `json:"hasMore"`
	Page             int   `json:"page"`
	TotalPages       int   `json:"totalPages"`
	AffectedProducts int64 `json:"affectedProducts"`
}

func decode(t *testing.T, raw json.RawMessage, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, out))
}

func createCategory(t *testing.T, a *fiber.App, name string) category {
	t.Helper()
	status, env := call(t, a, http.MethodPost, "/api/categories", map[string]interface{}{"name": name})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var c category
	decode(t, env.Data, &c)
	return c
}

func createProduct(t *testing.T, a *fiber.App, body map[string]interface{}) product {
	t.Helper()
	status, env := call(t, a, http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusCreated, status, env.Error)
	var p product
	decode(t, env.Data, &p)
	return p
}

func TestCreateProduct_Defaults(t *testing.T) {
	a := setupApp(t)

	status, env := call(t, a, http.MethodPost, "/api/products", map[string]interface{}{"name": "Gouden Ring", "price": 199.99})
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)

	var p product
	decode(t, env.Data, &p)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Gouden Ring", p.Name)
	assert.Equal(t, 199.99, p.Price)
	assert.Equal(t, int64(0), p.Stock)
	assert.Nil(t, p.CategoryID)
	assert.Nil(t, p.Description)

	status, env = call(t, a, http.MethodGet, fmt.Sprintf("/api/products/%d", p.ID), nil)
	assert.Equal(t, http.StatusOK, status)
	var fetched product
	decode(t, env.Data, &fetched)
	assert.Equal(t, p, fetched)
}

func TestCreateProduct_Errors(t *testing.T) {
	a := setupApp(t)

	tests := []struct {
		name   string
		body   interface{}
		status int
		field  string
	}{
		{"missing name", map[string]interface{}{"price": 10}, http.StatusBadRequest, "name"},
		{"negative price", map[string]interface{}{"name": "Gouden Ring", "price": -1}, http.StatusBadRequest, "price"},
		{"negative stock", map[string]interface{}{"name": "Gouden Ring", "price": 1, "stock": -3}, http.StatusBadRequest, "stock"},
		{"unknown category", map[string]interface{}{"name": "Gouden Ring", "price": 1, "category_id": 77}, http.StatusNotFound, "category_id"},
		{"malformed body", `{"name":`, http.StatusBadRequest, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := call(t, a, http.MethodPost, "/api/products", tt.body)
			assert.Equal(t, tt.status, status)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
			assert.Equal(t, tt.field, env.Field)
		})
	}

	_, env := call(t, a, http.MethodGet, "/api/products", nil)
	var m meta
	decode(t, env.Meta, &m)
	assert.Equal(t, int64(0), m.Total, "rejected requests never write")
}

func TestListProducts_PriceRangeSortedDesc(t *testing.T) {
	a := setupApp(t)
	for i, price := range []float64{45, 50, 62.5, 75, 80, 88, 99.99, 100, 120} {
		createProduct(t, a, map[string]interface{}{"name": fmt.Sprintf("Sieraad %d", i), "price": price, "stock": i})
	}

	status, env := call(t, a, http.MethodGet, "/api/products?min_price=50&max_price=100&sort=price&order=desc&limit=5&offset=0", nil)
	require.Equal(t, http.StatusOK, status)

	var products []product
	decode(t, env.Data, &products)
	require.Len(t, products, 5)
	for i, p := range products {
		assert.GreaterOrEqual(t, p.Price, 50.0)
		assert.LessOrEqual(t, p.Price, 100.0)
		if i > 0 {
			assert.GreaterOrEqual(t, products[i-1].Price, p.Price)
		}
	}
	assert.Equal(t, 100.0, products[0].Price)

	var m meta
	decode(t, env.Meta, &m)
	assert.Equal(t, meta{Limit: 5, Offset: 0, Total: 7, Count: 5, HasMore: true, Page: 1, TotalPages: 2}, m)
}

func TestListProducts_UnknownSortAndBadPaging(t *testing.T) {
	a := setupApp(t)
	createProduct(t, a, map[string]interface{}{"name": "Gouden Ring", "price": 10})
	createProduct(t, a, map[string]interface{}{"name": "Armband", "price": 20})

	status, env := call(t, a, http.MethodGet, "/api/products?sort=password&order=sideways&limit=abc&offset=-4&min_price=cheap", nil)
	require.Equal(t, http.StatusOK, status)

	var products []product
	decode(t, env.Data, &products)
	require.Len(t, products, 2)
	assert.Less(t, products[0].ID, products[1].ID)

	var m meta
	decode(t, env.Meta, &m)
	assert.Equal(t, 10, m.Limit)
	assert.Equal(t, 0, m.Offset)

	status, env = call(t, a, http.MethodGet, "/api/products?limit=9223372036854775807&offset=1", nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, env.Data, &products)
	require.Len(t, products, 1)
	m = meta{}
	decode(t, env.Meta, &m)
	assert.Equal(t, meta{Limit: 1000, Offset: 1, Total: 2, Count: 1, HasMore: false, Page: 1, TotalPages: 1}, m)
}

func TestProductViews(t *testing.T) {
	a := setupApp(t)
	createProduct(t, a, map[string]interface{}{"name": "Zilveren Ring", "price": 10, "description": "Sterling zilver"})
	createProduct(t, a, map[string]interface{}{"name": "Gouden Ring", "price": 20, "stock": 2})
	createProduct(t, a, map[string]interface{}{"name": "Armband", "price": 30, "stock": 7, "description": "Gouden schakels"})
	createProduct(t, a, map[string]interface{}{"name": "Broche", "price": 40})

	names := func(path string) []string {
		status, env := call(t, a, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, status, path)
		var products []product
		decode(t, env.Data, &products)
		out := []string{}
		for _, p := range products {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Armband", "Gouden Ring"}, names("/api/products/in-stock"))
	assert.Equal(t, []string{"Broche", "Zilveren Ring"}, names("/api/products/out-of-stock"))
	assert.Equal(t, []string{"Gouden Ring", "Armband"}, names("/api/products/search?q=gouden"))
	assert.Equal(t, []string{"Armband"}, names("/api/products/search?q=gouden&min_price=25"))
	assert.Equal(t, []string{"Gouden Ring", "Armband"}, names("/api/products?in_stock=true"))
	assert.Empty(t, names("/api/products/search?q=%25"))
	assert.Empty(t, names("/api/products/search?q=_"))
	assert.Empty(t, names("/api/products?name=%25"))

	status, env := call(t, a, http.MethodGet, "/api/products/search", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "q", env.Field)
}

func TestUpdateProduct(t *testing.T) {
	a := setupApp(t)
	rings := createCategory(t, a, "Ringen")
	p := createProduct(t, a, map[string]interface{}{
		"name": "Gouden Ring", "price": 199.99, "stock": 3, "description": "18 karaat", "category_id": rings.ID,
	})
	path := fmt.Sprintf("/api/products/%d", p.ID)

	status, env := call(t, a, http.MethodPut, path, map[string]interface{}{"stock": 9, "description": nil})
	require.Equal(t, http.StatusOK, status, env.Error)
	var updated product
	decode(t, env.Data, &updated)
	assert.Equal(t, int64(9), updated.Stock)
	assert.Nil(t, updated.Description)
	assert.Equal(t, "Gouden Ring", updated.Name)
	assert.Equal(t, 199.99, updated.Price)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, rings.ID, *updated.CategoryID)

	status, env = call(t, a, http.MethodPut, path, map[string]interface{}{"category_id": nil})
	require.Equal(t, http.StatusOK, status)
	decode(t, env.Data, &updated)
	assert.Nil(t, updated.CategoryID)

	status, env = call(t, a, http.MethodPut, path, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "at least one field")
	assert.Equal(t, "body", env.Field)

	status, _ = call(t, a, http.MethodPut, path, map[string]interface{}{"category_id": 999})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, a, http.MethodPut, "/api/products/12345", map[string]interface{}{"stock": 1})
	assert.Equal(t, http.StatusNotFound, status)

	status, env = call(t, a, http.MethodPut, "/api/products/abc", map[string]interface{}{"stock": 1})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "id", env.Field)
}

func TestDeleteProduct(t *testing.T) {
	a := setupApp(t)
	p := createProduct(t, a, map[string]interface{}{"name": "Oorbellen", "price": 55.25})
	path := fmt.Sprintf("/api/products/%d", p.ID)

	status, env := call(t, a, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, status)
	var deleted product
	decode(t, env.Data, &deleted)
	assert.Equal(t, p, deleted)

	status, _ = call(t, a, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = call(t, a, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCategoryNames_CaseInsensitiveUnique(t *testing.T) {
	a := setupApp(t)
	rings := createCategory(t, a, "Ringen")
	chains := createCategory(t, a, "Kettingen")

	status, env := call(t, a, http.MethodPost, "/api/categories", map[string]interface{}{"name": "RINGEN"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "name", env.Field)

	status, env = call(t, a, http.MethodPut, fmt.Sprintf("/api/categories/%d", chains.ID), map[string]interface{}{"name": "ringen"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "name", env.Field)

	status, env = call(t, a, http.MethodPut, fmt.Sprintf("/api/categories/%d", rings.ID), map[string]interface{}{"name": "ringen"})
	require.Equal(t, http.StatusOK, status)
	var updated category
	decode(t, env.Data, &updated)
	assert.Equal(t, "ringen", updated.Name)

	status, env = call(t, a, http.MethodPost, "/api/categories", map[string]interface{}{"name": "Ringen 18k"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "digits")
}

func TestUpdateCategory_EmptyBody(t *testing.T) {
	a := setupApp(t)
	createCategory(t, a, "Ringen")
	createCategory(t, a, "Kettingen")
	c := createCategory(t, a, "Armbanden")
	require.Equal(t, int64(3), c.ID)

	status, env := call(t, a, http.MethodPut, "/api/categories/3", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, "provide at least one field to update", env.Error)
	assert.Equal(t, "body", env.Field)
}

func TestDeleteCategory_DetachesProducts(t *testing.T) {
	a := setupApp(t)
	rings := createCategory(t, a, "Ringen")
	chains := createCategory(t, a, "Kettingen")
	gold := createProduct(t, a, map[string]interface{}{"name": "Gouden Ring", "price": 199.99, "category_id": rings.ID})
	silver := createProduct(t, a, map[string]interface{}{"name": "Zilveren Ring", "price": 89.5, "category_id": rings.ID})
	createProduct(t, a, map[string]interface{}{"name": "Parel Ketting", "price": 75, "category_id": chains.ID})

	status, env := call(t, a, http.MethodGet, "/api/categories/with-counts?sort=product_count&order=desc", nil)
	require.Equal(t, http.StatusOK, status)
	var counted []category
	decode(t, env.Data, &counted)
	require.Len(t, counted, 2)
	assert.Equal(t, "Ringen", counted[0].Name)
	assert.Equal(t, int64(2), counted[0].ProductCount)

	status, env = call(t, a, http.MethodGet, fmt.Sprintf("/api/categories/%d/products", rings.ID), nil)
	require.Equal(t, http.StatusOK, status)
	var inCategory []product
	decode(t, env.Data, &inCategory)
	assert.Len(t, inCategory, 2)

	status, env = call(t, a, http.MethodDelete, fmt.Sprintf("/api/categories/%d", rings.ID), nil)
	require.Equal(t, http.StatusOK, status)
	var m meta
	decode(t, env.Meta, &m)
	assert.Equal(t, int64(2), m.AffectedProducts)
	var deleted category
	decode(t, env.Data, &deleted)
	assert.Equal(t, "Ringen", deleted.Name)

	for _, id := range []int64{gold.ID, silver.ID} {
		status, env = call(t, a, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil)
		require.Equal(t, http.StatusOK, status)
		var p product
		decode(t, env.Data, &p)
		assert.Nil(t, p.CategoryID)
	}

	status, _ = call(t, a, http.MethodGet, fmt.Sprintf("/api/categories/%d/products", rings.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = call(t, a, http.MethodDelete, fmt.Sprintf("/api/categories/%d", rings.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMiscRoutes(t *testing.T) {
	a := setupApp(t)

	status, env := call(t, a, http.MethodGet, "/api", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "API is working!", env.Message)

	status, env = call(t, a, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "disabled", health["events"])
}

func TestOversizedIntegers_AreRejected(t *testing.T) {
	a := setupApp(t)
	ring := createProduct(t, a, map[string]interface{}{"name": "Gouden Ring", "price": 199.99, "stock": 3})
	createCategory(t, a, "Ringen")

	status, env := call(t, a, http.MethodPost, "/api/products", `{"name":"Zilveren Ring","price":5,"stock":18446744073709551615}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "stock", env.Field)

	status, env = call(t, a, http.MethodPost, "/api/products", `{"name":"Zilveren Ring","price":5,"category_id":18446744073709551617}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "category_id", env.Field)

	status, env = call(t, a, http.MethodDelete, "/api/products/18446744073709551617", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "id", env.Field)

	status, env = call(t, a, http.MethodGet, fmt.Sprintf("/api/products/%d", ring.ID), nil)
	require.Equal(t, http.StatusOK, status)
	var kept product
	decode(t, env.Data, &kept)
	assert.Equal(t, int64(3), kept.Stock)

	_, env = call(t, a, http.MethodGet, "/api/products", nil)
	var m meta
	decode(t, env.Meta, &m)
	assert.Equal(t, int64(1), m.Total)
}
