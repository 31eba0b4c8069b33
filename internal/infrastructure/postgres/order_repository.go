package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL.
// Usa el pool directamente porque Create necesita una transacción propia
// (cabecera + líneas nunca se persisten a medias).
type OrderRepo struct {
	pool *pgxpool.Pool
}

// NewOrderRepository construye el adaptador de persistencia para órdenes.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create persiste la orden completa: cabecera y líneas en una transacción.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO orders (id, customer_id, status, stock_reserved, stock_deducted, delivered_at, cancelled_at, cancel_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = tx.Exec(ctx, query,
		order.ID, order.CustomerID, order.Status, order.StockReserved, order.StockDeducted,
		order.DeliveredAt, order.CancelledAt, nullIfEmpty(order.CancelReason),
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`
	for _, it := range order.Items {
		if _, err := tx.Exec(ctx, itemQuery, uuid.New().String(), order.ID, it.ProductID, it.Quantity, it.UnitPrice); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByID obtiene la orden con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `
		SELECT id, customer_id, status, stock_reserved, stock_deducted, delivered_at, cancelled_at, cancel_reason, created_at, updated_at
		FROM orders WHERE id = $1`
	var o entity.Order
	var cancelReason *string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CustomerID, &o.Status, &o.StockReserved, &o.StockDeducted,
		&o.DeliveredAt, &o.CancelledAt, &cancelReason, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if cancelReason != nil {
		o.CancelReason = *cancelReason
	}
	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// ListByCustomer lista órdenes de un cliente, más recientes primero.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT id, customer_id, status, stock_reserved, stock_deducted, delivered_at, cancelled_at, cancel_reason, created_at, updated_at
		FROM orders WHERE customer_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		var cancelReason *string
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &o.StockReserved, &o.StockDeducted,
			&o.DeliveredAt, &o.CancelledAt, &cancelReason, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if cancelReason != nil {
			o.CancelReason = *cancelReason
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		items, err := r.loadItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return list, nil
}

// CompareAndSetStatus escribe el nuevo estado solo si el almacenado sigue
// siendo expected (check-and-set optimista en un único UPDATE).
func (r *OrderRepo) CompareAndSetStatus(ctx context.Context, orderID, expected, target string) (bool, error) {
	query := `
		UPDATE orders SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`
	tag, err := r.pool.Exec(ctx, query, orderID, expected, target)
	if err != nil {
		return false, fmt.Errorf("cas status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ClaimCancel reclama la cancelación: estado, bandera de reserva y metadatos
// en un único UPDATE condicional sobre el registro de la orden. El guard
// stock_deducted = false impide cancelar una venta ya confirmada.
func (r *OrderRepo) ClaimCancel(ctx context.Context, orderID, expected string, at time.Time, reason string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $3, stock_reserved = false, cancelled_at = $4, cancel_reason = $5, updated_at = now()
		WHERE id = $1 AND status = $2 AND stock_deducted = false`
	tag, err := r.pool.Exec(ctx, query, orderID, expected, entity.OrderStatusCancelled, at, nullIfEmpty(reason))
	if err != nil {
		return false, fmt.Errorf("claim cancel: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ClaimDeliver reclama la entrega: estado y bandera de deducción en un único
// UPDATE condicional.
func (r *OrderRepo) ClaimDeliver(ctx context.Context, orderID, expected string, at time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET status = $3, stock_deducted = true, delivered_at = $4, updated_at = now()
		WHERE id = $1 AND status = $2`
	tag, err := r.pool.Exec(ctx, query, orderID, expected, entity.OrderStatusDelivered, at)
	if err != nil {
		return false, fmt.Errorf("claim deliver: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	query := `
		SELECT product_id, quantity, unit_price
		FROM order_items WHERE order_id = $1
		ORDER BY product_id ASC`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()
	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
