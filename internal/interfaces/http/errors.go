package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// respondError traduce los errores tipados del núcleo a respuesta HTTP.
// El núcleo nunca se traga errores; esta es la única capa que conoce códigos
// de estado.
func respondError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		details := make([]dto.ShortfallDTO, 0, len(insufficient.Items))
		for _, it := range insufficient.Items {
			details = append(details, dto.ShortfallDTO{ProductID: it.ProductID, Requested: it.Requested, Available: it.Available})
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente", Details: details,
		})
	}
	var invalid *domain.InvalidTransitionError
	if errors.As(err, &invalid) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "INVALID_TRANSITION", Message: invalid.Error(),
		})
	}
	var conflict *domain.ConflictingTransitionError
	if errors.As(err, &conflict) {
		// Reintentable: el cliente debe releer el estado actual de la orden.
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "CONFLICTING_TRANSITION", Message: conflict.Error(),
		})
	}
	var ledger *domain.LedgerWriteError
	if errors.As(err, &ledger) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code: "LEDGER_WRITE_FAILED", Message: "auditoría no disponible, operación revertida",
		})
	}
	switch {
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
