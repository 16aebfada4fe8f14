package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bookery/internal/domain"
	applog "bookery/internal/log"
	"bookery/internal/validate"
)

// envelope is the JSON shape every endpoint answers with.
type envelope struct {
	Success bool            `json:"success"`
	Data    any             `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Errors  validate.Errors `json:"errors,omitempty"`
}

func respondOK(c *fiber.Ctx, data any, message string) error {
	return c.JSON(envelope{Success: true, Data: data, Message: message})
}

func respondCreated(c *fiber.Ctx, data any, message string) error {
	return c.Status(fiber.StatusCreated).JSON(envelope{Success: true, Data: data, Message: message})
}

func respondFail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(envelope{Success: false, Message: message})
}

func respondInvalid(c *fiber.Ctx, errs validate.Errors) error {
	applog.Security(c, "validation.fail", map[string]any{"fields": len(errs)})
	return c.Status(fiber.StatusUnprocessableEntity).JSON(envelope{Success: false, Errors: errs})
}

// respondErr maps a service failure onto the envelope: not-found and
// conflict kinds become client errors with their own message, anything else
// is a server error carrying the underlying cause behind the given prefix.
func respondErr(c *fiber.Ctx, action, prefix string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return respondFail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return respondFail(c, fiber.StatusConflict, err.Error())
	}
	applog.Error(c, action, err, nil)
	return respondFail(c, fiber.StatusInternalServerError, prefix+": "+err.Error())
}
