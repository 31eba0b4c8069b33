package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	appinv "github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// StockHandler maneja consultas de disponibilidad, reportes, ajustes
// administrativos y el ledger de auditoría (protegido).
type StockHandler struct {
	query  *appinv.StockQueryUseCase
	adjust *appinv.AdjustStockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(query *appinv.StockQueryUseCase, adjust *appinv.AdjustStockUseCase) *StockHandler {
	return &StockHandler{query: query, adjust: adjust}
}

// CheckAvailability godoc
// @Summary      Verificación previa de disponibilidad
// @Description  Lectura NO autoritativa: el resultado puede quedar obsoleto
//
//	antes de que la reserva ejecute. La reserva re-verifica.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckAvailabilityRequest  true  "líneas a verificar"
// @Success      200   {array}   dto.AvailabilityItemDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/check [post]
func (h *StockHandler) CheckAvailability(c *fiber.Ctx) error {
	var in dto.CheckAvailabilityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]appinv.AvailabilityQuery, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, appinv.AvailabilityQuery{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	results, err := h.query.CheckAvailability(c.Context(), items)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AvailabilityItemDTO, 0, len(results))
	for _, r := range results {
		out = append(out, dto.AvailabilityItemDTO{
			ProductID: r.ProductID, Available: r.Available,
			AvailableStock: r.AvailableStock, Reason: r.Reason,
		})
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "umbral (default 5)"
// @Success      200  {array}  dto.ProductStockDTO
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	threshold := int64(c.QueryInt("threshold", 5))
	products, err := h.query.LowStock(c.Context(), threshold)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ProductStockDTO, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ProductToStockDTO(p))
	}
	return c.JSON(out)
}

// OutOfStock godoc
// @Summary      Productos agotados
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductStockDTO
// @Router       /api/stock/out [get]
func (h *StockHandler) OutOfStock(c *fiber.Ctx) error {
	products, err := h.query.OutOfStock(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ProductStockDTO, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ProductToStockDTO(p))
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste administrativo de stock (delta con signo)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, delta, reason"
// @Success      200   {object}  map[string]int64
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	newStock, err := h.adjust.Adjust(c.Context(), in.ProductID, in.Delta, GetActor(c), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": in.ProductID, "stock": newStock})
}

// Recount godoc
// @Summary      Fijar stock por recuento físico
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetStockRequest  true  "product_id, stock, reason"
// @Success      200   {object}  map[string]int64
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/stock/recount [post]
func (h *StockHandler) Recount(c *fiber.Ctx) error {
	var in dto.SetStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	newStock, err := h.adjust.SetStock(c.Context(), in.ProductID, in.Stock, GetActor(c), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": in.ProductID, "stock": newStock})
}

// Ledger godoc
// @Summary      Ledger de auditoría de stock
// @Description  Historial inmutable por producto u orden (exactamente uno de
//
//	product_id u order_id), con filtros de acción y fechas.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "ID del producto"
// @Param        order_id    query  string  false  "ID de la orden"
// @Param        action      query  string  false  "acción a filtrar"
// @Param        from        query  string  false  "RFC3339"
// @Param        to          query  string  false  "RFC3339"
// @Param        limit       query  int     false  "máx. 100 (default 20)"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {array}   dto.LedgerEntryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger [get]
func (h *StockHandler) Ledger(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	orderID := c.Query("order_id")
	if (productID == "") == (orderID == "") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "indicar product_id u order_id (exactamente uno)"})
	}

	f := repository.LedgerFilter{
		Action: c.Query("action"),
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
		}
		f.From = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
		}
		f.To = &t
	}

	var (
		list []*entity.LedgerEntry
		err  error
	)
	if productID != "" {
		list, err = h.query.LedgerForProduct(c.Context(), productID, f)
	} else {
		list, err = h.query.LedgerForOrder(c.Context(), orderID, f)
	}
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LedgerEntryDTO, 0, len(list))
	for _, e := range list {
		out = append(out, dto.LedgerEntryToDTO(e))
	}
	return c.JSON(out)
}
