package handlers

import (
	"storefront/internal/models"
	"storefront/internal/query"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes. Fixed paths are registered
// before /:id so they are not captured as ids.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/in-stock", h.HandleInStock)
	productRoutes.Get("/out-of-stock", h.HandleOutOfStock)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// productFilter reads the product filter parameters. Malformed numeric
// values are ignored.
func productFilter(c *fiber.Ctx) models.ProductFilter {
	return models.ProductFilter{
		Name:        c.Query("name"),
		Description: c.Query("description"),
		MinPrice:    query.Decimal(c.Query("min_price")),
		MaxPrice:    query.Decimal(c.Query("max_price")),
		InStock:     query.TriState(c.Query("in_stock")),
		CategoryID:  query.PositiveInt(c.Query("category_id")),
	}
}

// HandleListProducts lists products with optional filters, sorting and pagination.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products, meta, err := h.service.ListProducts(c.UserContext(), productFilter(c), listOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, products, meta)
}

// HandleSearchProducts matches q against product names and descriptions.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	products, meta, err := h.service.SearchProducts(
		c.UserContext(),
		c.Query("q"),
		query.Decimal(c.Query("min_price")),
		query.Decimal(c.Query("max_price")),
		listOptions(c),
	)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, products, meta)
}

func (h *ProductHandler) HandleInStock(c *fiber.Ctx) error {
	products, meta, err := h.service.InStockProducts(c.UserContext(), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, products, meta)
}

func (h *ProductHandler) HandleOutOfStock(c *fiber.Ctx) error {
	products, meta, err := h.service.OutOfStockProducts(c.UserContext(), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, products, meta)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, product, nil, "")
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var payload models.ProductPayload
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, err)
	}
	product, err := h.service.CreateProduct(c.UserContext(), payload)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, product, nil, "Product created")
}

// HandleUpdateProduct applies a partial update to an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	var payload models.ProductPayload
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, err)
	}
	product, err := h.service.UpdateProduct(c.UserContext(), id, payload)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, product, nil, "Product updated")
}

// HandleDeleteProduct deletes a product and echoes the deleted record.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.service.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, product, nil, "Product deleted")
}
