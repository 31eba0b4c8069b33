package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// Product representa un producto del catálogo con su stock autoritativo.
// Stock nunca es negativo; InStock se deriva de Stock y jamás se almacena
// por separado. Stock solo se muta a través del ajuste condicional del
// repositorio (reservas, restauraciones y ajustes administrativos).
type Product struct {
	ID        string
	SKU       string // código único
	Name      string
	Price     decimal.Decimal // precio de venta vigente
	Stock     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct construye un producto validando los invariantes de dominio.
func NewProduct(sku, name string, price decimal.Decimal, initialStock int64) (*Product, error) {
	if sku == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	if price.IsNegative() || initialStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	return &Product{
		SKU:       sku,
		Name:      name,
		Price:     price,
		Stock:     initialStock,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// InStock indica disponibilidad; siempre derivado de Stock, nunca almacenado.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
