package entity

import (
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// Acciones del ledger de auditoría de stock.
const (
	LedgerActionOrderPlaced     = "order_placed"
	LedgerActionOrderDelivered  = "order_delivered"
	LedgerActionOrderCancelled  = "order_cancelled"
	LedgerActionStockAdded      = "stock_added"
	LedgerActionStockRemoved    = "stock_removed"
	LedgerActionStockAdjustment = "stock_adjustment"
)

// LedgerEntry evento inmutable del ledger de stock (solo append, nunca se
// actualiza ni borra). Para cada producto la cadena encaja: StockAfter de la
// entrada n es StockBefore de la entrada n+1, y la suma de QuantityChange
// reconstruye el stock actual desde el inicial.
type LedgerEntry struct {
	ID             string
	ProductID      string
	OrderID        string // vacío en ajustes administrativos
	Action         string
	QuantityChange int64 // con signo; 0 en order_delivered
	StockBefore    int64
	StockAfter     int64
	PerformedBy    string
	Reason         string
	CreatedAt      time.Time
}

// NewLedgerEntry construye una entrada validando la aritmética de la cadena:
// StockAfter debe ser StockBefore + QuantityChange y nunca negativo.
func NewLedgerEntry(productID, orderID, action string, quantityChange, stockBefore, stockAfter int64, performedBy, reason string) (*LedgerEntry, error) {
	if productID == "" || performedBy == "" {
		return nil, domain.ErrInvalidInput
	}
	if !isValidLedgerAction(action) {
		return nil, domain.ErrInvalidInput
	}
	if stockAfter != stockBefore+quantityChange || stockAfter < 0 || stockBefore < 0 {
		return nil, domain.ErrInvalidInput
	}
	return &LedgerEntry{
		ProductID:      productID,
		OrderID:        orderID,
		Action:         action,
		QuantityChange: quantityChange,
		StockBefore:    stockBefore,
		StockAfter:     stockAfter,
		PerformedBy:    performedBy,
		Reason:         reason,
		CreatedAt:      time.Now(),
	}, nil
}

func isValidLedgerAction(a string) bool {
	switch a {
	case LedgerActionOrderPlaced, LedgerActionOrderDelivered, LedgerActionOrderCancelled,
		LedgerActionStockAdded, LedgerActionStockRemoved, LedgerActionStockAdjustment:
		return true
	}
	return false
}
