package ledger

import (
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ReplayStock reconstruye el stock de un producto aplicando las entradas del
// ledger en orden cronológico sobre el stock inicial. El ledger es la fuente
// de verdad de auditoría: el stock actual siempre debe poder re-derivarse
// desde aquí (base del job de reconciliación).
// Verifica la cadena: StockAfter de la entrada n debe ser StockBefore de la
// entrada n+1, y cada entrada debe cuadrar aritméticamente.
func ReplayStock(initialStock int64, entries []*entity.LedgerEntry) (int64, error) {
	stock := initialStock
	for i, e := range entries {
		if e.StockBefore != stock {
			return 0, fmt.Errorf("cadena rota en entrada %d (%s): stock_before %d, esperado %d",
				i, e.ID, e.StockBefore, stock)
		}
		if e.StockAfter != e.StockBefore+e.QuantityChange {
			return 0, fmt.Errorf("entrada %d (%s) no cuadra: %d + %d != %d",
				i, e.ID, e.StockBefore, e.QuantityChange, e.StockAfter)
		}
		if e.StockAfter < 0 {
			return 0, fmt.Errorf("entrada %d (%s) dejaría stock negativo", i, e.ID)
		}
		stock = e.StockAfter
	}
	return stock, nil
}
