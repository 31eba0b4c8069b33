package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderItemRequest línea solicitada al crear una orden.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity" validate:"min=1"`
}

// CreateOrderRequest cuerpo de POST /api/orders.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1"`
}

// UpdateOrderStatusRequest cuerpo de PATCH /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

// OrderItemDTO línea de orden en respuestas.
type OrderItemDTO struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderResponse representación HTTP de una orden.
type OrderResponse struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customer_id"`
	Items         []OrderItemDTO  `json:"items"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	StockReserved bool            `json:"stock_reserved"`
	StockDeducted bool            `json:"stock_deducted"`
	DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason  string          `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ShortfallDTO faltante de stock reportado al rechazar una reserva.
type ShortfallDTO struct {
	ProductID string `json:"product_id"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
}

// OrderToResponse mapea la entidad a su representación HTTP.
func OrderToResponse(o *entity.Order) OrderResponse {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemDTO{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return OrderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		Items:         items,
		Status:        o.Status,
		Total:         o.Total(),
		StockReserved: o.StockReserved,
		StockDeducted: o.StockDeducted,
		DeliveredAt:   o.DeliveredAt,
		CancelledAt:   o.CancelledAt,
		CancelReason:  o.CancelReason,
		CreatedAt:     o.CreatedAt,
	}
}
