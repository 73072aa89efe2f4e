package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/rs/zerolog/log"
)

// writeError traduce un error de dominio a status + ErrorResponse. Los errores no clasificados
// se registran y se devuelven como 500 genérico, sin detalles del almacenamiento.
func writeError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Interface("request_id", c.Locals("requestid")).
			Msg("error no controlado")
	}
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		reqErr    *RequestValidationError
		valErr    *domain.ValidationError
		checkErr  *domain.StockCheckError
		stockErr  *domain.InsufficientStockError
		prodErr   *domain.ProductNotFoundError
		fiberErr  *fiber.Error
		transient *domain.TransientError
	)
	switch {
	case errors.As(err, &reqErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: reqErr.Error(), Details: reqErr.Fields}
	case errors.As(err, &valErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: valErr.Error(),
			Details: []dto.FieldErrorDTO{{Field: valErr.Field, Message: valErr.Message}},
		}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	case errors.As(err, &prodErr):
		return fiber.StatusNotFound, dto.ErrorResponse{
			Code:    "PRODUCT_NOT_FOUND",
			Message: prodErr.Error(),
			Details: fiber.Map{"product_ids": prodErr.IDs},
		}
	case errors.As(err, &checkErr):
		details := make([]dto.StockShortageDTO, 0, len(checkErr.Shortages))
		for _, s := range checkErr.Shortages {
			details = append(details, dto.StockShortageDTO{
				ProductID:   s.ProductID,
				ProductName: s.ProductName,
				Available:   s.Available,
				Requested:   s.Requested,
				Missing:     s.Missing,
			})
		}
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: checkErr.Error(), Details: details}
	case errors.As(err, &stockErr):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: stockErr.Error(),
			Details: []dto.StockShortageDTO{{
				ProductID:   stockErr.ProductID,
				ProductName: stockErr.ProductName,
				Available:   stockErr.Available,
				Requested:   stockErr.Requested,
			}},
		}
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_STATE", Message: domain.ErrAlreadyCancelled.Error()}
	case errors.Is(err, domain.ErrSaleNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: domain.ErrSaleNotFound.Error()}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrUsernameTaken), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"}
	case errors.As(err, &transient), errors.Is(err, domain.ErrTransient):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "TRY_AGAIN", Message: "servicio ocupado, intente de nuevo"}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, dto.ErrorResponse{Code: "HTTP_ERROR", Message: fiberErr.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

// ErrorHandler handler de errores de Fiber para lo que no responden los handlers (rutas inexistentes, panics).
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}
