package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/http/middleware"
	"portfolio/internal/view"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

func classify(status int) (code, message string) {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST", "bad request"
	case fiber.StatusNotFound:
		return "NOT_FOUND", "resource not found"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED", "method not allowed"
	case fiber.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE", "dependency unavailable"
	default:
		return "INTERNAL_ERROR", "internal server error"
	}
}

// ErrorHandler returns a Fiber global error handler. API, health and metrics
// paths get the JSON envelope; everything else gets the HTML error page when
// a renderer is configured.
func ErrorHandler(siteTitle string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		code, message := classify(status)

		if wantsJSON(c) || c.App().Config().Views == nil {
			return writeError(c, status, code, message)
		}
		c.Status(status)
		if rerr := c.Render("error", view.PageData{
			SiteTitle: siteTitle,
			PageTitle: message,
			Path:      c.Path(),
			Year:      time.Now().Year(),
			Data:      fiber.Map{"Status": status, "Message": message},
		}); rerr != nil {
			return writeError(c, status, code, message)
		}
		return nil
	}
}

func wantsJSON(c *fiber.Ctx) bool {
	p := c.Path()
	for _, prefix := range []string{"/api", "/health", "/healthz", middleware.MetricsPath, "/swagger"} {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}
