package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/order"
)

var (
	customer = domain.Actor{ID: "cliente-001"}
	admin    = domain.Actor{ID: "admin-001", IsAdmin: true}
)

func orderIn(status string, deducted bool) *entity.Order {
	return &entity.Order{
		ID:            "orden-001",
		CustomerID:    "cliente-001",
		Status:        status,
		StockReserved: !deducted,
		StockDeducted: deducted,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones de solo estado
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_SoloEstado(t *testing.T) {
	cases := []struct {
		from, to string
		legal    bool
	}{
		{entity.OrderStatusPending, entity.OrderStatusProcessing, true},
		{entity.OrderStatusPending, entity.OrderStatusShipped, true},
		{entity.OrderStatusProcessing, entity.OrderStatusShipped, true},
		{entity.OrderStatusShipped, entity.OrderStatusProcessing, true},
		{entity.OrderStatusDelivered, entity.OrderStatusProcessing, false},
		{entity.OrderStatusCancelled, entity.OrderStatusShipped, false},
		{entity.OrderStatusProcessing, entity.OrderStatusPending, false},
	}
	for _, tc := range cases {
		t.Run(tc.from+"→"+tc.to, func(t *testing.T) {
			effect, err := order.Validate(orderIn(tc.from, false), tc.to, customer)
			if tc.legal {
				require.NoError(t, err)
				assert.Equal(t, order.EffectNone, effect, "las transiciones de despacho no tocan el stock")
			} else {
				var invalidErr *domain.InvalidTransitionError
				assert.ErrorAs(t, err, &invalidErr)
			}
		})
	}
}

// Repetir el estado actual no es inválido sino un conflicto: el caller puede
// reintentar tras releer.
func TestValidate_MismoEstadoEsConflicto(t *testing.T) {
	_, err := order.Validate(orderIn(entity.OrderStatusProcessing, false), entity.OrderStatusProcessing, customer)
	var conflictErr *domain.ConflictingTransitionError
	assert.ErrorAs(t, err, &conflictErr)
}

func TestValidate_EstadoDestinoDesconocido(t *testing.T) {
	_, err := order.Validate(orderIn(entity.OrderStatusPending, false), "refunded", customer)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_CancelarConReservaActiva(t *testing.T) {
	for _, from := range []string{entity.OrderStatusPending, entity.OrderStatusProcessing, entity.OrderStatusShipped} {
		effect, err := order.Validate(orderIn(from, false), entity.OrderStatusCancelled, customer)
		require.NoError(t, err, "cancelar desde %s debe ser legal", from)
		assert.Equal(t, order.EffectRestore, effect, "cancelar restaura el stock reservado")
	}
}

func TestValidate_CancelarConDeduccionConfirmada(t *testing.T) {
	// shipped con deducción ya confirmada: el stock ya se vendió.
	_, err := order.Validate(orderIn(entity.OrderStatusShipped, true), entity.OrderStatusCancelled, customer)
	var invalidErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "la deducción de stock ya fue confirmada", invalidErr.Reason)
}

func TestValidate_CancelarTerminalEsInvalido(t *testing.T) {
	for _, from := range []string{entity.OrderStatusDelivered, entity.OrderStatusCancelled} {
		_, err := order.Validate(orderIn(from, from == entity.OrderStatusDelivered), entity.OrderStatusCancelled, admin)
		var invalidErr *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &invalidErr, "cancelar desde %s nunca es legal", from)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Entrega
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_EntregarEsSoloAdmin(t *testing.T) {
	_, err := order.Validate(orderIn(entity.OrderStatusShipped, false), entity.OrderStatusDelivered, customer)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	effect, err := order.Validate(orderIn(entity.OrderStatusShipped, false), entity.OrderStatusDelivered, admin)
	require.NoError(t, err)
	assert.Equal(t, order.EffectConfirmDeduction, effect)
}

func TestValidate_EntregaRepetidaEsNoOp(t *testing.T) {
	effect, err := order.Validate(orderIn(entity.OrderStatusDelivered, true), entity.OrderStatusDelivered, admin)
	require.NoError(t, err)
	assert.Equal(t, order.EffectNoop, effect)
}

func TestValidate_CanceladaNoSeEntrega(t *testing.T) {
	_, err := order.Validate(orderIn(entity.OrderStatusCancelled, false), entity.OrderStatusDelivered, admin)
	var invalidErr *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &invalidErr)
}
