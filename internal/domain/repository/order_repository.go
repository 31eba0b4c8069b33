package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order.
// Los métodos Claim* son check-and-set optimistas sobre el registro de la
// orden: escriben solo si el estado actual coincide con el esperado y
// devuelven false si otra transición ganó la carrera. Son la única
// sincronización requerida para que restauración y entrega ocurran a lo
// sumo una vez por orden.
type OrderRepository interface {
	// Create persiste la orden completa (cabecera + líneas); nunca a medias.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Order, error)

	// CompareAndSetStatus transición de solo estado: status = target solo si
	// el estado almacenado sigue siendo expected.
	CompareAndSetStatus(ctx context.Context, orderID, expected, target string) (bool, error)

	// ClaimCancel marca la orden como cancelada (status, stock_reserved=false,
	// cancelled_at, cancel_reason) solo si el estado sigue siendo expected y
	// la deducción no fue confirmada.
	ClaimCancel(ctx context.Context, orderID, expected string, at time.Time, reason string) (bool, error)

	// ClaimDeliver marca la orden como entregada (status, stock_deducted=true,
	// delivered_at) solo si el estado sigue siendo expected.
	ClaimDeliver(ctx context.Context, orderID, expected string, at time.Time) (bool, error)
}
