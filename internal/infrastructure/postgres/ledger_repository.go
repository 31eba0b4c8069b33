package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del ledger de auditoría sobre PostgreSQL
// (usable con pool o tx). Solo INSERT y SELECT: la tabla stock_ledger no
// recibe UPDATE ni DELETE desde la aplicación.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append persiste una entrada del ledger. La columna seq (bigserial) fija el
// orden total de entradas por producto, el mismo de las mutaciones de stock.
func (r *LedgerRepo) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_ledger (id, product_id, order_id, action, quantity_change, stock_before, stock_after, performed_by, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.ProductID, nullIfEmpty(entry.OrderID), entry.Action,
		entry.QuantityChange, entry.StockBefore, entry.StockAfter,
		entry.PerformedBy, nullIfEmpty(entry.Reason), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// ListByProduct entradas de un producto en orden de aplicación, con filtros.
func (r *LedgerRepo) ListByProduct(ctx context.Context, productID string, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	return r.listBy(ctx, "product_id", productID, f)
}

// ListByOrder entradas asociadas a una orden en orden de aplicación.
func (r *LedgerRepo) ListByOrder(ctx context.Context, orderID string, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	return r.listBy(ctx, "order_id", orderID, f)
}

func (r *LedgerRepo) listBy(ctx context.Context, column, value string, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, product_id, order_id, action, quantity_change, stock_before, stock_after, performed_by, reason, created_at
		FROM stock_ledger WHERE ` + column + ` = $1`
	args := []any{value}
	pos := 2
	if f.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", pos)
		args = append(args, f.Action)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY seq ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		var orderID, reason *string
		if err := rows.Scan(&e.ID, &e.ProductID, &orderID, &e.Action, &e.QuantityChange,
			&e.StockBefore, &e.StockAfter, &e.PerformedBy, &reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if orderID != nil {
			e.OrderID = *orderID
		}
		if reason != nil {
			e.Reason = *reason
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
