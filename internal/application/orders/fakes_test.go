package orders_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

func decimalFromInt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func ledgerFilterAll() repository.LedgerFilter { return repository.LedgerFilter{Limit: 100} }

var (
	_ repository.ProductRepository = (*memProductRepo)(nil)
	_ repository.OrderRepository   = (*memOrderRepo)(nil)
	_ repository.LedgerRepository  = (*memLedgerRepo)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria para probar el núcleo sin base de datos.
// El ajuste condicional se implementa bajo mutex, igual de atómico frente a
// los callers concurrentes que el UPDATE con guard de PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*entity.Product)}
}

func (r *memProductRepo) seed(id string, price int64, stock int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, _ := entity.NewProduct("SKU-"+id, "Producto "+id, decimalFromInt(price), stock)
	p.ID = id
	r.products[id] = p
}

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) ConditionalAdjustStock(_ context.Context, productID string, delta, expectedMin int64) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return 0, false, fmt.Errorf("producto %s: %w", productID, domain.ErrProductNotFound)
	}
	if p.Stock+delta < expectedMin {
		return p.Stock, false, nil
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	return p.Stock, true, nil
}

func (r *memProductRepo) ListLowStock(_ context.Context, threshold int64) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.products {
		if p.Stock > 0 && p.Stock <= threshold {
			cp := *p
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *memProductRepo) ListOutOfStock(_ context.Context) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.products {
		if p.Stock == 0 {
			cp := *p
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *memProductRepo) stockOf(id string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Stock
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]*entity.Order)}
}

func (r *memOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[o.ID]; exists {
		return domain.ErrDuplicate
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) ListByCustomer(_ context.Context, customerID string, limit, offset int) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			cp := *o
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *memOrderRepo) CompareAndSetStatus(_ context.Context, orderID, expected, target string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Status != expected {
		return false, nil
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return true, nil
}

func (r *memOrderRepo) ClaimCancel(_ context.Context, orderID, expected string, at time.Time, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Status != expected || o.StockDeducted {
		return false, nil
	}
	o.Status = entity.OrderStatusCancelled
	o.StockReserved = false
	o.CancelledAt = &at
	o.CancelReason = reason
	o.UpdatedAt = time.Now()
	return true, nil
}

func (r *memOrderRepo) ClaimDeliver(_ context.Context, orderID, expected string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Status != expected {
		return false, nil
	}
	o.Status = entity.OrderStatusDelivered
	o.StockDeducted = true
	o.DeliveredAt = &at
	o.UpdatedAt = time.Now()
	return true, nil
}

// memLedgerRepo ledger en memoria con fallos inyectables por producto para
// ejercitar la política de reintento y rollback.
type memLedgerRepo struct {
	mu      sync.Mutex
	entries []*entity.LedgerEntry
	// failFor hace fallar Append para un producto las próximas n veces (-1 = siempre).
	failFor map[string]int
	seq     int
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{failFor: make(map[string]int)}
}

func (r *memLedgerRepo) Append(_ context.Context, e *entity.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.failFor[e.ProductID]; ok && n != 0 {
		if n > 0 {
			r.failFor[e.ProductID] = n - 1
		}
		return fmt.Errorf("ledger no disponible")
	}
	r.seq++
	cp := *e
	if cp.ID == "" {
		cp.ID = fmt.Sprintf("entry-%d", r.seq)
	}
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memLedgerRepo) ListByProduct(_ context.Context, productID string, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.LedgerEntry
	for _, e := range r.entries {
		if e.ProductID == productID && (f.Action == "" || e.Action == f.Action) {
			cp := *e
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *memLedgerRepo) ListByOrder(_ context.Context, orderID string, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.LedgerEntry
	for _, e := range r.entries {
		if e.OrderID == orderID && (f.Action == "" || e.Action == f.Action) {
			cp := *e
			list = append(list, &cp)
		}
	}
	return list, nil
}

// sumChanges suma QuantityChange del producto (debe cuadrar con stock actual - inicial).
func (r *memLedgerRepo) sumChanges(productID string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, e := range r.entries {
		if e.ProductID == productID {
			sum += e.QuantityChange
		}
	}
	return sum
}

func (r *memLedgerRepo) countByAction(productID, action string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.ProductID == productID && e.Action == action {
			n++
		}
	}
	return n
}
