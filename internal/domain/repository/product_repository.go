package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// ConditionalAdjustStock es la ÚNICA vía segura de mutación de stock: ningún
// caller puede hacer leer-modificar-guardar sobre el contador.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)

	// ConditionalAdjustStock aplica stock += delta solo si el resultado queda
	// >= expectedMin (normalmente 0), de forma atómica frente a todos los
	// callers concurrentes del mismo producto. Si la condición no se cumple,
	// no muta nada y devuelve ok=false con el stock vigente en newStock.
	// Devuelve domain.ErrProductNotFound si el producto no existe.
	ConditionalAdjustStock(ctx context.Context, productID string, delta, expectedMin int64) (newStock int64, ok bool, err error)

	// ListLowStock productos con stock > 0 y <= threshold.
	ListLowStock(ctx context.Context, threshold int64) ([]*entity.Product, error)
	// ListOutOfStock productos con stock == 0.
	ListOutOfStock(ctx context.Context) ([]*entity.Product, error)
}
