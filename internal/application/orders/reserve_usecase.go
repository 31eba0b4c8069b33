package orders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// ledgerRetries reintentos acotados de escritura al ledger antes de revertir
// la mutación de stock y fallar la operación completa.
const ledgerRetries = 3

// ReasonReservationRollback marca en el ledger que la entrada compensatoria
// pertenece al rollback de la misma solicitud de reserva, no a una
// cancelación del cliente.
const ReasonReservationRollback = "rollback de reserva (misma solicitud)"

// ReserveItemInput línea solicitada por el caller (carrito/checkout).
type ReserveItemInput struct {
	ProductID string
	Quantity  int64
}

// StockMovementResult resultado por línea de una restauración o confirmación.
type StockMovementResult struct {
	ProductID string
	Quantity  int64
	NewStock  int64
}

// ReserveUseCase implementa el servicio de reserva: decremento atómico de
// stock por línea, todo-o-nada sobre la orden completa (saga con
// compensación explícita, sin asumir transacción multi-documento).
type ReserveUseCase struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	ledgerRepo  repository.LedgerRepository
	log         *logger.Logger
}

// NewReserveUseCase construye el caso de uso.
func NewReserveUseCase(
	productRepo repository.ProductRepository,
	orderRepo   repository.OrderRepository,
	ledgerRepo  repository.LedgerRepository,
	log *logger.Logger,
) *ReserveUseCase {
	return &ReserveUseCase{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		ledgerRepo:  ledgerRepo,
		log:         log,
	}
}

// reservedLine línea ya reservada en este intento, pendiente de compensar si
// el resto de la saga falla.
type reservedLine struct {
	productID string
	quantity  int64
}

// Reserve reserva stock para todas las líneas y crea la orden.
//
// Las líneas se procesan ordenadas por ProductID (orden fijo y determinista)
// para que dos reservas concurrentes sobre el mismo conjunto de productos
// nunca se adquieran en orden cruzado. Cada línea usa el ajuste condicional
// atómico del repositorio; al primer faltante se deja de reservar, se siguen
// verificando (solo lectura) las líneas restantes para reportar TODOS los
// faltantes, se compensa lo ya reservado y se devuelve InsufficientStockError.
// La orden se persiste únicamente cuando todas las líneas quedaron reservadas.
func (uc *ReserveUseCase) Reserve(ctx context.Context, customerID string, items []ReserveItemInput, actor domain.Actor) (*entity.Order, error) {
	if customerID == "" || len(items) == 0 || actor.ID == "" {
		return nil, domain.ErrInvalidInput
	}
	lines, err := mergeAndSortItems(items)
	if err != nil {
		return nil, err
	}

	// Snapshot de precios: la orden congela el precio vigente del producto.
	prices := make(map[string]entity.OrderItem, len(lines))
	for _, it := range lines {
		p, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("producto %s: %w", it.ProductID, domain.ErrProductNotFound)
		}
		prices[it.ProductID] = entity.OrderItem{ProductID: p.ID, Quantity: it.Quantity, UnitPrice: p.Price}
	}

	orderID := uuid.New().String()

	var reserved []reservedLine
	var shortfalls []domain.StockShortfall
	for _, it := range lines {
		if len(shortfalls) > 0 {
			// Ya hay faltantes: no reservar más, solo verificar disponibilidad
			// de lo restante para reportar la lista completa de faltantes.
			p, err := uc.productRepo.GetByID(ctx, it.ProductID)
			if err == nil && p != nil && p.Stock < it.Quantity {
				shortfalls = append(shortfalls, domain.StockShortfall{
					ProductID: it.ProductID, Requested: it.Quantity, Available: p.Stock,
				})
			}
			continue
		}

		newStock, ok, err := uc.productRepo.ConditionalAdjustStock(ctx, it.ProductID, -it.Quantity, 0)
		if err != nil {
			uc.compensate(ctx, orderID, reserved, actor)
			return nil, err
		}
		if !ok {
			shortfalls = append(shortfalls, domain.StockShortfall{
				ProductID: it.ProductID, Requested: it.Quantity, Available: newStock,
			})
			continue
		}

		entry, err := entity.NewLedgerEntry(
			it.ProductID, orderID, entity.LedgerActionOrderPlaced,
			-it.Quantity, newStock+it.Quantity, newStock,
			actor.ID, "reserva de stock por creación de orden",
		)
		if err == nil {
			err = uc.appendWithRetry(ctx, entry)
		}
		if err != nil {
			// Stock mutado sin auditar: revertir esta línea (neto cero, sin
			// entrada) y compensar las anteriores antes de fallar.
			if _, ok, rbErr := uc.productRepo.ConditionalAdjustStock(ctx, it.ProductID, it.Quantity, 0); rbErr != nil || !ok {
				uc.log.Error().Str("product_id", it.ProductID).Str("order_id", orderID).
					Msg("no se pudo revertir la reserva tras fallo de ledger")
			}
			uc.compensate(ctx, orderID, reserved, actor)
			return nil, &domain.LedgerWriteError{ProductID: it.ProductID, OrderID: orderID, Err: err}
		}
		reserved = append(reserved, reservedLine{productID: it.ProductID, quantity: it.Quantity})
	}

	if len(shortfalls) > 0 {
		uc.compensate(ctx, orderID, reserved, actor)
		uc.log.Info().Str("order_id", orderID).Int("faltantes", len(shortfalls)).
			Msg("reserva rechazada por stock insuficiente")
		return nil, &domain.InsufficientStockError{Items: shortfalls}
	}

	orderItems := make([]entity.OrderItem, 0, len(lines))
	for _, it := range lines {
		orderItems = append(orderItems, prices[it.ProductID])
	}
	order, err := entity.NewOrder(customerID, orderItems)
	if err != nil {
		uc.compensate(ctx, orderID, reserved, actor)
		return nil, err
	}
	order.ID = orderID
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		uc.compensate(ctx, orderID, reserved, actor)
		return nil, fmt.Errorf("crear orden: %w", err)
	}

	uc.log.Info().Str("order_id", order.ID).Str("customer_id", customerID).
		Int("lineas", len(order.Items)).Msg("orden creada con stock reservado")
	return order, nil
}

// Restore restaura el stock de todas las líneas de una orden cancelada
// (acción compensatoria). La restauración solo incrementa stock, por lo que
// nunca falla por disponibilidad; el caller ya debe haber ganado el
// check-and-set sobre el estado de la orden, de modo que ocurre a lo sumo
// una vez por orden.
func (uc *ReserveUseCase) Restore(ctx context.Context, order *entity.Order, actor domain.Actor, reason string) ([]StockMovementResult, error) {
	results := make([]StockMovementResult, 0, len(order.Items))
	for _, it := range order.Items {
		newStock, ok, err := uc.productRepo.ConditionalAdjustStock(ctx, it.ProductID, it.Quantity, 0)
		if err != nil {
			return results, err
		}
		if !ok {
			// Un incremento con mínimo 0 siempre cumple la condición.
			return results, fmt.Errorf("restaurar stock de %s: ajuste rechazado", it.ProductID)
		}
		entry, err := entity.NewLedgerEntry(
			it.ProductID, order.ID, entity.LedgerActionOrderCancelled,
			it.Quantity, newStock-it.Quantity, newStock,
			actor.ID, reason,
		)
		if err == nil {
			err = uc.appendWithRetry(ctx, entry)
		}
		if err != nil {
			if _, ok, rbErr := uc.productRepo.ConditionalAdjustStock(ctx, it.ProductID, -it.Quantity, 0); rbErr != nil || !ok {
				uc.log.Error().Str("product_id", it.ProductID).Str("order_id", order.ID).
					Msg("no se pudo revertir la restauración tras fallo de ledger")
			}
			return results, &domain.LedgerWriteError{ProductID: it.ProductID, OrderID: order.ID, Err: err}
		}
		results = append(results, StockMovementResult{ProductID: it.ProductID, Quantity: it.Quantity, NewStock: newStock})
	}
	return results, nil
}

// ConfirmDeduction registra la venta como final al entregar: una entrada
// order_delivered con cambio 0 por línea (el stock físico ya se decrementó
// al reservar; aquí solo se cierra el rastro de auditoría).
func (uc *ReserveUseCase) ConfirmDeduction(ctx context.Context, order *entity.Order, actor domain.Actor) ([]StockMovementResult, error) {
	results := make([]StockMovementResult, 0, len(order.Items))
	for _, it := range order.Items {
		p, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return results, err
		}
		if p == nil {
			return results, fmt.Errorf("producto %s: %w", it.ProductID, domain.ErrProductNotFound)
		}
		entry, err := entity.NewLedgerEntry(
			it.ProductID, order.ID, entity.LedgerActionOrderDelivered,
			0, p.Stock, p.Stock,
			actor.ID, "entrega confirmada; deducción definitiva",
		)
		if err == nil {
			err = uc.appendWithRetry(ctx, entry)
		}
		if err != nil {
			return results, &domain.LedgerWriteError{ProductID: it.ProductID, OrderID: order.ID, Err: err}
		}
		results = append(results, StockMovementResult{ProductID: it.ProductID, Quantity: 0, NewStock: p.Stock})
	}
	return results, nil
}

// compensate deshace las líneas ya reservadas en este intento: incrementa el
// stock y registra la entrada compensatoria marcada como rollback de la misma
// solicitud. Mejor esfuerzo: un fallo aquí se registra en el log y se sigue
// con las demás líneas (el job de reconciliación sobre el ledger repara).
func (uc *ReserveUseCase) compensate(ctx context.Context, orderID string, reserved []reservedLine, actor domain.Actor) {
	for i := len(reserved) - 1; i >= 0; i-- {
		line := reserved[i]
		newStock, ok, err := uc.productRepo.ConditionalAdjustStock(ctx, line.productID, line.quantity, 0)
		if err != nil || !ok {
			uc.log.Error().Str("product_id", line.productID).Str("order_id", orderID).Err(err).
				Msg("compensación de reserva fallida")
			continue
		}
		entry, err := entity.NewLedgerEntry(
			line.productID, orderID, entity.LedgerActionOrderCancelled,
			line.quantity, newStock-line.quantity, newStock,
			actor.ID, ReasonReservationRollback,
		)
		if err == nil {
			err = uc.appendWithRetry(ctx, entry)
		}
		if err != nil {
			uc.log.Error().Str("product_id", line.productID).Str("order_id", orderID).Err(err).
				Msg("entrada compensatoria de ledger fallida")
		}
	}
}

// appendWithRetry escribe al ledger con reintentos acotados.
func (uc *ReserveUseCase) appendWithRetry(ctx context.Context, entry *entity.LedgerEntry) error {
	var err error
	for attempt := 1; attempt <= ledgerRetries; attempt++ {
		if err = uc.ledgerRepo.Append(ctx, entry); err == nil {
			return nil
		}
		uc.log.Warn().Str("product_id", entry.ProductID).Int("intento", attempt).Err(err).
			Msg("reintento de escritura al ledger")
		time.Sleep(time.Duration(attempt) * 25 * time.Millisecond)
	}
	return err
}

// mergeAndSortItems valida las líneas, consolida duplicados del mismo
// producto y las deja en orden determinista por ProductID.
func mergeAndSortItems(items []ReserveItemInput) ([]ReserveItemInput, error) {
	byProduct := make(map[string]int64, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		byProduct[it.ProductID] += it.Quantity
	}
	merged := make([]ReserveItemInput, 0, len(byProduct))
	for id, qty := range byProduct {
		merged = append(merged, ReserveItemInput{ProductID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged, nil
}
