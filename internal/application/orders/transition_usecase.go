package orders

import (
	"context"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	orderdomain "github.com/jhoicas/Pedidos-api/internal/domain/order"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// TransitionUseCase gobierna las transiciones de estado de una orden y el
// efecto de stock que cada una dispara (restauración al cancelar,
// confirmación de deducción al entregar).
//
// Cada transición es una operación lógica única: (a) releer el estado,
// (b) validar legalidad, (c) reclamar el cambio con un check-and-set sobre el
// registro de la orden, (d) aplicar el efecto de stock con su escritura al
// ledger. Si el claim pierde la carrera contra otra transición se devuelve
// ConflictingTransitionError y no se toca el stock.
type TransitionUseCase struct {
	orderRepo   repository.OrderRepository
	reservation *ReserveUseCase
	log         *logger.Logger
}

// NewTransitionUseCase construye el caso de uso.
func NewTransitionUseCase(orderRepo repository.OrderRepository, reservation *ReserveUseCase, log *logger.Logger) *TransitionUseCase {
	return &TransitionUseCase{orderRepo: orderRepo, reservation: reservation, log: log}
}

// Transition intenta mover la orden al estado target.
// Entregar requiere actor administrador. Cancelar una orden ya entregada (o
// con deducción confirmada) falla con InvalidTransitionError; repetir una
// entrega es un no-op que no vuelve a escribir al ledger.
func (uc *TransitionUseCase) Transition(ctx context.Context, orderID, target string, actor domain.Actor, reason string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	effect, err := orderdomain.Validate(order, target, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch effect {
	case orderdomain.EffectNoop:
		return order, nil

	case orderdomain.EffectRestore:
		if reason == "" {
			reason = "cancelación de orden"
		}
		ok, err := uc.orderRepo.ClaimCancel(ctx, order.ID, order.Status, now, reason)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &domain.ConflictingTransitionError{OrderID: order.ID, Expected: order.Status}
		}
		if _, err := uc.reservation.Restore(ctx, order, actor, reason); err != nil {
			// La orden quedó cancelada con la restauración a medias; el
			// ledger es autoritativo y la reconciliación la completa.
			uc.log.Error().Str("order_id", order.ID).Err(err).Msg("restauración de stock incompleta")
			return nil, err
		}
		uc.log.Info().Str("order_id", order.ID).Str("actor", actor.ID).Msg("orden cancelada y stock restaurado")

	case orderdomain.EffectConfirmDeduction:
		ok, err := uc.orderRepo.ClaimDeliver(ctx, order.ID, order.Status, now)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &domain.ConflictingTransitionError{OrderID: order.ID, Expected: order.Status}
		}
		if _, err := uc.reservation.ConfirmDeduction(ctx, order, actor); err != nil {
			uc.log.Error().Str("order_id", order.ID).Err(err).Msg("confirmación de deducción incompleta")
			return nil, err
		}
		uc.log.Info().Str("order_id", order.ID).Str("actor", actor.ID).Msg("orden entregada; deducción confirmada")

	default: // solo estado
		ok, err := uc.orderRepo.CompareAndSetStatus(ctx, order.ID, order.Status, target)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &domain.ConflictingTransitionError{OrderID: order.ID, Expected: order.Status}
		}
	}

	return uc.orderRepo.GetByID(ctx, orderID)
}
