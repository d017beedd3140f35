package handlers

import (
	"errors"

	"storefront/internal/query"
	"storefront/internal/services"
	"storefront/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Error   string      `json:"error,omitempty"`
	Field   string      `json:"field,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respond(c *fiber.Ctx, status int, data interface{}, meta interface{}, message string) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Data:    data,
		Meta:    meta,
		Message: message,
	})
}

func respondPage(c *fiber.Ctx, data interface{}, meta query.Meta) error {
	return respond(c, fiber.StatusOK, data, meta, "")
}

// respondError maps service errors to status codes. Storage failures carry
// the underlying message.
func respondError(c *fiber.Ctx, err error) error {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		storageErr    *services.StorageError
	)
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(Response{
			Error: validationErr.Message,
			Field: validationErr.Field,
		})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(Response{
			Error: notFoundErr.Error(),
			Field: notFoundErr.Field,
		})
	case errors.As(err, &storageErr):
		return c.Status(fiber.StatusInternalServerError).JSON(Response{
			Error:   "Internal server error",
			Message: storageErr.Error(),
		})
	default:
		return err
	}
}

// ErrorHandler renders errors that escape a handler, such as unknown routes
// or recovered panics, with the same envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	return c.Status(code).JSON(Response{
		Error:   msg,
		Message: err.Error(),
	})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, ferr := validation.ID(c.Params("id"))
	if ferr != nil {
		return 0, &services.ValidationError{Field: ferr.Field, Message: ferr.Reason}
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return &services.ValidationError{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	return nil
}

func listOptions(c *fiber.Ctx) query.Options {
	return query.Options{
		Sort:  c.Query("sort"),
		Order: c.Query("order"),
		Page:  parsePage(c),
	}
}

func parsePage(c *fiber.Ctx) query.Page {
	return query.ParsePage(c.Query("limit"), c.Query("offset"))
}
