// Package response defines the JSON envelope shared by every endpoint.
// Success bodies carry {success, message, data}; failures carry
// {success, error}. Scanner devices parse both shapes, so the key names
// are part of the wire contract.
package response

import "github.com/gofiber/fiber/v2"

// Response is the envelope for every API reply
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a 200 with the success envelope
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 after a claim, attendance, or record is written
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// fail sends the failure envelope with the given status
func fail(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// BadRequest reports invalid input (400)
func BadRequest(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusBadRequest, message)
}

// Unauthorized reports a missing or bad token (401)
func Unauthorized(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusUnauthorized, message)
}

// Forbidden reports an ineligible member or insufficient role (403)
func Forbidden(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusForbidden, message)
}

// NotFound reports an identifier that resolved to nothing (404)
func NotFound(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusNotFound, message)
}

// Conflict reports an already-claimed or already-recorded state (409).
// Scanners treat this as an expected outcome, not a failure.
func Conflict(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusConflict, message)
}

// InternalServerError reports an unexpected failure (500)
func InternalServerError(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusInternalServerError, message)
}
