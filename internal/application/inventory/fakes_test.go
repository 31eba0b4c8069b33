package inventory_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria para las pruebas de consultas y ajustes.
// ──────────────────────────────────────────────────────────────────────────────

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*entity.Product)}
}

func (r *memProductRepo) seed(id string, stock int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, _ := entity.NewProduct("SKU-"+id, "Producto "+id, decimal.NewFromInt(10), stock)
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
	sort.Slice(list, func(i, j int) bool { return list[i].Stock < list[j].Stock })
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

type memLedgerRepo struct {
	mu         sync.Mutex
	entries    []*entity.LedgerEntry
	failAlways bool
}

func newMemLedgerRepo() *memLedgerRepo { return &memLedgerRepo{} }

func (r *memLedgerRepo) Append(_ context.Context, e *entity.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAlways {
		return fmt.Errorf("ledger no disponible")
	}
	cp := *e
	cp.ID = fmt.Sprintf("entry-%d", len(r.entries)+1)
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memLedgerRepo) filter(match func(*entity.LedgerEntry) bool, f repository.LedgerFilter) []*entity.LedgerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.LedgerEntry
	for _, e := range r.entries {
		if match(e) && (f.Action == "" || e.Action == f.Action) {
			cp := *e
			list = append(list, &cp)
		}
	}
	if f.Offset > 0 && f.Offset < len(list) {
		list = list[f.Offset:]
	} else if f.Offset >= len(list) {
		return nil
	}
	if f.Limit > 0 && len(list) > f.Limit {
		list = list[:f.Limit]
	}
	return list
}

func (r *memLedgerRepo) ListByProduct(_ context.Context, productID string, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	return r.filter(func(e *entity.LedgerEntry) bool { return e.ProductID == productID }, f), nil
}

func (r *memLedgerRepo) ListByOrder(_ context.Context, orderID string, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	return r.filter(func(e *entity.LedgerEntry) bool { return e.OrderID == orderID }, f), nil
}

var (
	_ repository.ProductRepository = (*memProductRepo)(nil)
	_ repository.LedgerRepository  = (*memLedgerRepo)(nil)
)
