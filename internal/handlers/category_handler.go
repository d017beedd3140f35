package handlers

import (
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service *services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service: service,
	}
}

// RegisterRoutes registers the category routes.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleListCategories)
	categoryRoutes.Get("/with-counts", h.HandleWithCounts)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)
	categoryRoutes.Get("/:id/products", h.HandleCategoryProducts)
	categoryRoutes.Post("/", h.HandleCreateCategory)
	categoryRoutes.Put("/:id", h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", h.HandleDeleteCategory)
}

func (h *CategoryHandler) HandleListCategories(c *fiber.Ctx) error {
	filter := models.CategoryFilter{
		Name:        c.Query("name"),
		Description: c.Query("description"),
	}
	categories, meta, err := h.service.ListCategories(c.UserContext(), filter, listOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, categories, meta)
}

func (h *CategoryHandler) HandleWithCounts(c *fiber.Ctx) error {
	categories, meta, err := h.service.CategoriesWithCounts(c.UserContext(), listOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, categories, meta)
}

func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	category, err := h.service.GetCategoryByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, category, nil, "")
}

// HandleCategoryProducts lists the products of one category. The product
// filters apply, except category_id which comes from the path.
func (h *CategoryHandler) HandleCategoryProducts(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	products, meta, err := h.service.CategoryProducts(c.UserContext(), id, productFilter(c), listOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, products, meta)
}

func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var payload models.CategoryPayload
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, err)
	}
	category, err := h.service.CreateCategory(c.UserContext(), payload)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, category, nil, "Category created")
}

func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	var payload models.CategoryPayload
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, err)
	}
	category, err := h.service.UpdateCategory(c.UserContext(), id, payload)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, category, nil, "Category updated")
}

// HandleDeleteCategory deletes a category. Its products are kept without a
// category and their number is reported in meta.affectedProducts.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	category, affected, err := h.service.DeleteCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, category, fiber.Map{"affectedProducts": affected}, "Category deleted")
}
