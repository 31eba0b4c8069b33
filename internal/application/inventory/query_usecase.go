package inventory

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// AvailabilityQuery línea a verificar {producto, cantidad}.
type AvailabilityQuery struct {
	ProductID string
	Quantity  int64
}

// AvailabilityResult veredicto por línea de la verificación previa.
type AvailabilityResult struct {
	ProductID      string
	Available      bool
	AvailableStock int64
	Reason         string
}

// StockQueryUseCase lecturas de disponibilidad y del ledger de auditoría.
//
// CheckAvailability es una verificación previa NO autoritativa: sirve para
// rechazar temprano líneas obviamente indisponibles, pero puede quedar
// obsoleta antes de que la reserva ejecute. La única autoridad es el ajuste
// condicional atómico del servicio de reserva, que re-verifica al reservar.
type StockQueryUseCase struct {
	productRepo repository.ProductRepository
	ledgerRepo  repository.LedgerRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(productRepo repository.ProductRepository, ledgerRepo repository.LedgerRepository) *StockQueryUseCase {
	return &StockQueryUseCase{productRepo: productRepo, ledgerRepo: ledgerRepo}
}

// CheckAvailability verifica cada línea contra el stock vigente (solo lectura).
func (uc *StockQueryUseCase) CheckAvailability(ctx context.Context, items []AvailabilityQuery) ([]AvailabilityResult, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	results := make([]AvailabilityResult, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		p, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			results = append(results, AvailabilityResult{
				ProductID: it.ProductID, Available: false, Reason: "producto no encontrado",
			})
			continue
		}
		r := AvailabilityResult{ProductID: it.ProductID, AvailableStock: p.Stock}
		switch {
		case !p.InStock():
			r.Reason = "sin stock"
		case p.Stock < it.Quantity:
			r.Reason = "stock insuficiente para la cantidad solicitada"
		default:
			r.Available = true
		}
		results = append(results, r)
	}
	return results, nil
}

// LowStock productos con stock bajo (0 < stock <= threshold).
func (uc *StockQueryUseCase) LowStock(ctx context.Context, threshold int64) ([]*entity.Product, error) {
	if threshold <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.productRepo.ListLowStock(ctx, threshold)
}

// OutOfStock productos agotados (stock == 0).
func (uc *StockQueryUseCase) OutOfStock(ctx context.Context) ([]*entity.Product, error) {
	return uc.productRepo.ListOutOfStock(ctx)
}

// LedgerForProduct historial de auditoría de un producto, paginado.
func (uc *StockQueryUseCase) LedgerForProduct(ctx context.Context, productID string, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	applyPageDefaults(&f)
	return uc.ledgerRepo.ListByProduct(ctx, productID, f)
}

// LedgerForOrder historial de auditoría asociado a una orden, paginado.
func (uc *StockQueryUseCase) LedgerForOrder(ctx context.Context, orderID string, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	applyPageDefaults(&f)
	return uc.ledgerRepo.ListByOrder(ctx, orderID, f)
}

func applyPageDefaults(f *repository.LedgerFilter) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
