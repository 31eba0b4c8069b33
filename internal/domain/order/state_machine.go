package order

import (
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// StockEffect efecto de stock que dispara una transición de estado.
type StockEffect int

const (
	// EffectNone transición de solo estado, sin efecto sobre stock.
	EffectNone StockEffect = iota
	// EffectRestore restauración compensatoria del stock reservado (cancelación).
	EffectRestore
	// EffectConfirmDeduction confirmación de la deducción como venta final (entrega).
	EffectConfirmDeduction
	// EffectNoop la orden ya está en el estado destino; no se repite nada.
	EffectNoop
)

// statusOnlySource estados desde los cuales son legales las transiciones de
// solo estado (flujo administrativo de despacho hacia processing o shipped).
var statusOnlySource = map[string]bool{
	entity.OrderStatusPending:    true,
	entity.OrderStatusProcessing: true,
	entity.OrderStatusShipped:    true,
}

// Validate decide si la transición de o hacia target es legal y qué efecto de
// stock dispara. delivered y cancelled son terminales respecto al stock.
// Devuelve InvalidTransitionError cuando la transición nunca será legal.
func Validate(o *entity.Order, target string, actor domain.Actor) (StockEffect, error) {
	if !entity.IsValidStatus(target) {
		return EffectNone, domain.ErrInvalidInput
	}

	switch target {
	case entity.OrderStatusCancelled:
		if o.Status == entity.OrderStatusCancelled || o.Status == entity.OrderStatusDelivered {
			return EffectNone, &domain.InvalidTransitionError{
				OrderID: o.ID, From: o.Status, To: target,
				Reason: "la orden ya es terminal",
			}
		}
		if o.StockDeducted {
			// Deducción confirmada: no se puede "des-vender".
			return EffectNone, &domain.InvalidTransitionError{
				OrderID: o.ID, From: o.Status, To: target,
				Reason: "la deducción de stock ya fue confirmada",
			}
		}
		return EffectRestore, nil

	case entity.OrderStatusDelivered:
		if !actor.IsAdmin {
			return EffectNone, domain.ErrForbidden
		}
		if o.Status == entity.OrderStatusDelivered {
			// Entrega repetida: no-op, no se vuelve a registrar en el ledger.
			return EffectNoop, nil
		}
		if o.Status == entity.OrderStatusCancelled {
			return EffectNone, &domain.InvalidTransitionError{
				OrderID: o.ID, From: o.Status, To: target,
				Reason: "una orden cancelada no puede entregarse",
			}
		}
		return EffectConfirmDeduction, nil

	default:
		if target != entity.OrderStatusProcessing && target != entity.OrderStatusShipped {
			return EffectNone, &domain.InvalidTransitionError{
				OrderID: o.ID, From: o.Status, To: target,
			}
		}
		if !statusOnlySource[o.Status] {
			return EffectNone, &domain.InvalidTransitionError{
				OrderID: o.ID, From: o.Status, To: target,
			}
		}
		if o.Status == target {
			// Petición duplicada: ya se aplicó; no se re-aplica en silencio.
			return EffectNone, &domain.ConflictingTransitionError{OrderID: o.ID, Expected: o.Status}
		}
		return EffectNone, nil
	}
}
