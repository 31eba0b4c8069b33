package entity

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// Estados de una orden.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderItem línea de una orden. UnitPrice es el precio congelado al momento
// de la reserva (snapshot), independiente del precio vigente del producto.
type OrderItem struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Order representa una orden de compra. Se crea únicamente después de que
// todas sus líneas fueron reservadas (nunca se persiste a medias).
// StockReserved y StockDeducted son banderas monotónicas: Reserved nace en
// true y solo pasa a false al cancelar antes de la entrega; Deducted solo
// pasa a true al entregar.
type Order struct {
	ID            string
	CustomerID    string
	Items         []OrderItem
	Status        string
	StockReserved bool
	StockDeducted bool
	DeliveredAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrder construye la orden en su estado inicial (pending, stock reservado).
// Valida líneas no vacías, cantidades positivas y ordena por ProductID, el
// mismo orden determinista en que la reserva adquiere stock.
func NewOrder(customerID string, items []OrderItem) (*Order, error) {
	if customerID == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	sorted := make([]OrderItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	now := time.Now()
	return &Order{
		CustomerID:    customerID,
		Items:         sorted,
		Status:        OrderStatusPending,
		StockReserved: true,
		StockDeducted: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Total suma quantity * unitPrice de todas las líneas.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}

// IsValidStatus indica si s es uno de los estados conocidos.
func IsValidStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
