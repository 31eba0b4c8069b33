package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

const ledgerRetries = 3

// AdjustStockUseCase ajustes administrativos de stock (recepciones, mermas,
// recuentos). Solo administradores; cada ajuste pasa por el mismo ajuste
// condicional atómico que las reservas y queda registrado en el ledger.
type AdjustStockUseCase struct {
	productRepo repository.ProductRepository
	ledgerRepo  repository.LedgerRepository
	log         *logger.Logger
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(productRepo repository.ProductRepository, ledgerRepo repository.LedgerRepository, log *logger.Logger) *AdjustStockUseCase {
	return &AdjustStockUseCase{productRepo: productRepo, ledgerRepo: ledgerRepo, log: log}
}

// Adjust aplica un delta con signo al stock del producto. Positivo se audita
// como stock_added, negativo como stock_removed; un retiro que dejaría el
// stock negativo se rechaza con InsufficientStockError.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, productID string, delta int64, actor domain.Actor, reason string) (int64, error) {
	if productID == "" || delta == 0 || reason == "" {
		return 0, domain.ErrInvalidInput
	}
	if !actor.IsAdmin {
		return 0, domain.ErrForbidden
	}

	newStock, ok, err := uc.productRepo.ConditionalAdjustStock(ctx, productID, delta, 0)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &domain.InsufficientStockError{Items: []domain.StockShortfall{
			{ProductID: productID, Requested: -delta, Available: newStock},
		}}
	}

	action := entity.LedgerActionStockAdded
	if delta < 0 {
		action = entity.LedgerActionStockRemoved
	}
	if err := uc.appendAudited(ctx, productID, action, delta, newStock, actor, reason); err != nil {
		return 0, err
	}
	uc.log.Info().Str("product_id", productID).Int64("delta", delta).Int64("stock", newStock).
		Str("actor", actor.ID).Msg("ajuste administrativo de stock")
	return newStock, nil
}

// SetStock fija el stock en un valor absoluto (recuento físico) calculando el
// delta contra el valor vigente y auditándolo como stock_adjustment. El delta
// se aplica igualmente vía ajuste condicional: si el stock cambió entre la
// lectura y la escritura, el guard de no-negatividad sigue protegido y el
// recuento puede reintentarse.
func (uc *AdjustStockUseCase) SetStock(ctx context.Context, productID string, target int64, actor domain.Actor, reason string) (int64, error) {
	if productID == "" || target < 0 || reason == "" {
		return 0, domain.ErrInvalidInput
	}
	if !actor.IsAdmin {
		return 0, domain.ErrForbidden
	}

	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, fmt.Errorf("producto %s: %w", productID, domain.ErrProductNotFound)
	}
	delta := target - p.Stock
	if delta == 0 {
		return p.Stock, nil
	}

	// El guard exige que el resultado sea exactamente el recontado: si otro
	// caller movió el stock en el intermedio, el ajuste queda corto o largo y
	// es preferible fallar a fijar un valor que ya no corresponde.
	newStock, ok, err := uc.productRepo.ConditionalAdjustStock(ctx, productID, delta, 0)
	if err != nil {
		return 0, err
	}
	if !ok || newStock != target {
		if ok {
			// Se aplicó sobre una base distinta; revertir y reportar conflicto.
			if _, ok2, rbErr := uc.productRepo.ConditionalAdjustStock(ctx, productID, -delta, 0); rbErr != nil || !ok2 {
				uc.log.Error().Str("product_id", productID).Msg("no se pudo revertir recuento aplicado sobre base obsoleta")
			}
		}
		return 0, fmt.Errorf("recuento de %s: el stock cambió durante el ajuste: %w", productID, domain.ErrInvalidInput)
	}

	if err := uc.appendAudited(ctx, productID, entity.LedgerActionStockAdjustment, delta, newStock, actor, reason); err != nil {
		return 0, err
	}
	uc.log.Info().Str("product_id", productID).Int64("stock", newStock).
		Str("actor", actor.ID).Msg("recuento de stock aplicado")
	return newStock, nil
}

// appendAudited escribe la entrada del ledger con reintentos; si sigue
// fallando revierte la mutación (neto cero) y devuelve LedgerWriteError.
func (uc *AdjustStockUseCase) appendAudited(ctx context.Context, productID, action string, delta, newStock int64, actor domain.Actor, reason string) error {
	entry, err := entity.NewLedgerEntry(productID, "", action, delta, newStock-delta, newStock, actor.ID, reason)
	if err != nil {
		return err
	}
	for attempt := 1; attempt <= ledgerRetries; attempt++ {
		if err = uc.ledgerRepo.Append(ctx, entry); err == nil {
			return nil
		}
		uc.log.Warn().Str("product_id", productID).Int("intento", attempt).Err(err).
			Msg("reintento de escritura al ledger")
		time.Sleep(time.Duration(attempt) * 25 * time.Millisecond)
	}
	if _, ok, rbErr := uc.productRepo.ConditionalAdjustStock(ctx, productID, -delta, 0); rbErr != nil || !ok {
		uc.log.Error().Str("product_id", productID).Msg("no se pudo revertir ajuste tras fallo de ledger")
	}
	return &domain.LedgerWriteError{ProductID: productID, Err: err}
}
