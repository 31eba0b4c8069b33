package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// LedgerFilter filtros y paginación para consultas del ledger.
type LedgerFilter struct {
	Action string // vacío = todas las acciones
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// LedgerRepository define el puerto del ledger de auditoría: solo append y
// lecturas. No existe Update ni Delete; las entradas son inmutables.
// Para un mismo producto, Append preserva el orden de las mutaciones de
// stock que describe.
type LedgerRepository interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	ListByProduct(ctx context.Context, productID string, f LedgerFilter) ([]*entity.LedgerEntry, error)
	ListByOrder(ctx context.Context, orderID string, f LedgerFilter) ([]*entity.LedgerEntry, error)
}
