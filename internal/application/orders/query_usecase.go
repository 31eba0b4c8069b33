package orders

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// OrderQueryUseCase lecturas de órdenes. Un cliente solo ve sus propias
// órdenes; un administrador ve cualquiera.
type OrderQueryUseCase struct {
	orderRepo repository.OrderRepository
}

// NewOrderQueryUseCase construye el caso de uso.
func NewOrderQueryUseCase(orderRepo repository.OrderRepository) *OrderQueryUseCase {
	return &OrderQueryUseCase{orderRepo: orderRepo}
}

// Get obtiene una orden por ID aplicando la regla de propiedad.
func (uc *OrderQueryUseCase) Get(ctx context.Context, orderID string, actor domain.Actor) (*entity.Order, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.IsAdmin && order.CustomerID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// ListForCustomer lista las órdenes del cliente autenticado, paginadas.
func (uc *OrderQueryUseCase) ListForCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Order, error) {
	if customerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.orderRepo.ListByCustomer(ctx, customerID, limit, offset)
}
