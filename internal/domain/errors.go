package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrProductNotFound = errors.New("producto no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
)

// StockShortfall describe un faltante de stock para un producto.
type StockShortfall struct {
	ProductID string
	Requested int64
	Available int64
}

// InsufficientStockError indica que una o más líneas no pudieron reservarse.
// Incluye TODOS los faltantes detectados, no solo el primero, para que el
// cliente pueda corregir la orden completa en un solo intento.
type InsufficientStockError struct {
	Items []StockShortfall
}

func (e *InsufficientStockError) Error() string {
	ids := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		ids = append(ids, fmt.Sprintf("%s (solicitado %d, disponible %d)", it.ProductID, it.Requested, it.Available))
	}
	return "stock insuficiente: " + strings.Join(ids, ", ")
}

// InvalidTransitionError indica que el cambio de estado pedido no es legal
// desde el estado actual de la orden. No reintentable.
type InvalidTransitionError struct {
	OrderID string
	From    string
	To      string
	Reason  string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("transición inválida de orden %s: %s -> %s", e.OrderID, e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// ConflictingTransitionError indica que el estado de la orden cambió entre la
// lectura y la escritura (transición concurrente). El cliente puede reintentar
// después de releer el estado actual.
type ConflictingTransitionError struct {
	OrderID  string
	Expected string
}

func (e *ConflictingTransitionError) Error() string {
	return fmt.Sprintf("transición en conflicto: la orden %s ya no está en estado %q", e.OrderID, e.Expected)
}

// LedgerWriteError indica que la mutación de stock se aplicó pero el registro
// de auditoría falló tras los reintentos. La operación que lo recibe debe
// haber revertido la mutación: un cambio de stock sin auditar es inaceptable.
type LedgerWriteError struct {
	ProductID string
	OrderID   string
	Err       error
}

func (e *LedgerWriteError) Error() string {
	return fmt.Sprintf("escritura de ledger fallida para producto %s: %v", e.ProductID, e.Err)
}

func (e *LedgerWriteError) Unwrap() error { return e.Err }
