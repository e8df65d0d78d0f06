package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ordenes-api/internal/application/dto"
	"github.com/jhoicas/ordenes-api/internal/domain"
)

// StatusFor traduce un error a código HTTP.
// NotFound (incluida la versión desactualizada) -> 404; credenciales -> 401;
// errores de fiber conservan su código; cualquier otro error -> 400.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case domain.IsNotFound(err):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusBadRequest
	}
}

// ErrorHandler ErrorHandler de fiber: toda respuesta de error es {"message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(dto.ErrorResponse{Message: err.Error()})
}
