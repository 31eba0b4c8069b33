package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto nuevo.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	query := `
		INSERT INTO products (id, sku, name, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Price, product.Stock,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sku %s: %w", product.SKU, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, sku, name, price, stock, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ConditionalAdjustStock aplica stock += delta en un único UPDATE con guard:
// la condición stock + delta >= expectedMin se evalúa y aplica atómicamente
// en la base (nunca leer-modificar-guardar). Si la condición no se cumple,
// no se muta nada y se devuelve el stock vigente con ok=false.
func (r *ProductRepo) ConditionalAdjustStock(ctx context.Context, productID string, delta, expectedMin int64) (int64, bool, error) {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= $3
		RETURNING stock`
	var newStock int64
	err := r.q.QueryRow(ctx, query, productID, delta, expectedMin).Scan(&newStock)
	if err == nil {
		return newStock, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf("conditional adjust stock: %w", err)
	}

	// Cero filas: distinguir producto inexistente de condición no cumplida y
	// devolver el stock vigente para reportar disponibilidad.
	var current int64
	err = r.q.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, fmt.Errorf("producto %s: %w", productID, domain.ErrProductNotFound)
		}
		return 0, false, fmt.Errorf("read stock: %w", err)
	}
	return current, false, nil
}

// ListLowStock productos con 0 < stock <= threshold, ordenados de menor a mayor stock.
func (r *ProductRepo) ListLowStock(ctx context.Context, threshold int64) ([]*entity.Product, error) {
	query := `
		SELECT id, sku, name, price, stock, created_at, updated_at
		FROM products WHERE stock > 0 AND stock <= $1
		ORDER BY stock ASC, sku ASC`
	return r.list(ctx, query, threshold)
}

// ListOutOfStock productos agotados (stock = 0).
func (r *ProductRepo) ListOutOfStock(ctx context.Context) ([]*entity.Product, error) {
	query := `
		SELECT id, sku, name, price, stock, created_at, updated_at
		FROM products WHERE stock = 0
		ORDER BY sku ASC`
	return r.list(ctx, query)
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
