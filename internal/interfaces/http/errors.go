package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

// Códigos de error de la API.
const (
	CodeValidation        = "VALIDATION"
	CodeInvalidBody       = "INVALID_BODY"
	CodeEmptyCart         = "EMPTY_CART"
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeDuplicate         = "DUPLICATE"
	CodeEmailExists       = "EMAIL_EXISTS"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeConnectivity      = "CONNECTIVITY"
	CodeInternal          = "INTERNAL"
)

// writeError traduce un error de aplicación a status HTTP + dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func classify(err error) (int, string) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr), errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, CodeInsufficientStock
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrOutOfStock):
		return fiber.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrEmptyCart):
		return fiber.StatusBadRequest, CodeEmptyCart
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, CodeEmailExists
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, CodeDuplicate
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, CodeForbidden
	case errors.Is(err, domain.ErrConnectivity):
		return fiber.StatusServiceUnavailable, CodeConnectivity
	default:
		return fiber.StatusInternalServerError, CodeInternal
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"})
}

// ErrorHandler maneja los errores que escapan de los handlers (rutas inexistentes, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest:
			code = CodeValidation
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
