package middleware

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDKey is the Locals key holding the request id.
const RequestIDKey = "requestid"

// Log is the logging surface used by the middleware.
type Log interface {
	Error(string, ...zap.Field)
}

// Setup configures all application middleware. Access log lines are written
// to accessLog; a nil writer disables them.
func Setup(app *fiber.App, log Log, accessLog io.Writer) {
	app.Use(requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: RequestIDKey,
	}))

	if accessLog != nil {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${locals:requestid} ${status} - ${method} ${path} - ${latency}\n",
			TimeFormat: "2006-01-02 15:04:05",
			Output:     accessLog,
		}))
	}

	app.Use(ServerErrors(log))
	app.Use(recover.New())

	app.Use(helmet.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept",
		ExposeHeaders: fiber.HeaderXRequestID,
		MaxAge:        86400,
	}))
}

// ServerErrors logs every response with a 5xx status together with its
// request id.
func ServerErrors(log Log) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		if status >= fiber.StatusInternalServerError {
			fields := []zap.Field{
				zap.String("request_id", RequestID(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			log.Error("Request failed", fields...)
		}
		return err
	}
}

// NotFound answers requests that matched no route.
func NotFound(c *fiber.Ctx) error {
	return fiber.ErrNotFound
}

// RequestID returns the id assigned to the current request.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(RequestIDKey).(string)
	return id
}
