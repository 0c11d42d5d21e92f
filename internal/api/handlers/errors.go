package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/shagun/internal/apperror"
)

// ErrorHandler is the single place errors become responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := apperror.StatusCode(err)
	message := apperror.Message(err)

	// Application errors keep their own status even when they wrap a fiber
	// error, e.g. a body parser failure.
	var appErr *apperror.Error
	var fiberErr *fiber.Error
	if !errors.As(err, &appErr) && errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func invalidBody(err error) error {
	return apperror.Wrap(apperror.ErrValidation, "Invalid request body", err)
}
