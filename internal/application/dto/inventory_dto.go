package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// CheckAvailabilityRequest cuerpo de POST /api/stock/check.
type CheckAvailabilityRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1"`
}

// AvailabilityItemDTO veredicto por línea de la verificación previa.
type AvailabilityItemDTO struct {
	ProductID      string `json:"product_id"`
	Available      bool   `json:"available"`
	AvailableStock int64  `json:"available_stock"`
	Reason         string `json:"reason,omitempty"`
}

// AdjustStockRequest cuerpo de POST /api/stock/adjust (delta con signo).
type AdjustStockRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Delta     int64  `json:"delta" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

// SetStockRequest cuerpo de POST /api/stock/recount (valor absoluto).
type SetStockRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Stock     int64  `json:"stock" validate:"min=0"`
	Reason    string `json:"reason" validate:"required"`
}

// ProductStockDTO producto en reportes de disponibilidad.
type ProductStockDTO struct {
	ID      string          `json:"id"`
	SKU     string          `json:"sku"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Stock   int64           `json:"stock"`
	InStock bool            `json:"in_stock"`
}

// LedgerEntryDTO entrada del ledger en respuestas.
type LedgerEntryDTO struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	OrderID        string    `json:"order_id,omitempty"`
	Action         string    `json:"action"`
	QuantityChange int64     `json:"quantity_change"`
	StockBefore    int64     `json:"stock_before"`
	StockAfter     int64     `json:"stock_after"`
	PerformedBy    string    `json:"performed_by"`
	Reason         string    `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ProductToStockDTO mapea la entidad al reporte de disponibilidad.
func ProductToStockDTO(p *entity.Product) ProductStockDTO {
	return ProductStockDTO{
		ID:      p.ID,
		SKU:     p.SKU,
		Name:    p.Name,
		Price:   p.Price,
		Stock:   p.Stock,
		InStock: p.InStock(),
	}
}

// LedgerEntryToDTO mapea una entrada del ledger a su representación HTTP.
func LedgerEntryToDTO(e *entity.LedgerEntry) LedgerEntryDTO {
	return LedgerEntryDTO{
		ID:             e.ID,
		ProductID:      e.ProductID,
		OrderID:        e.OrderID,
		Action:         e.Action,
		QuantityChange: e.QuantityChange,
		StockBefore:    e.StockBefore,
		StockAfter:     e.StockAfter,
		PerformedBy:    e.PerformedBy,
		Reason:         e.Reason,
		CreatedAt:      e.CreatedAt,
	}
}
