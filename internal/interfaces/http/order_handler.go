package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	appOrders "github.com/jhoicas/Pedidos-api/internal/application/orders"
)

// OrderHandler maneja las peticiones HTTP de órdenes (protegido).
type OrderHandler struct {
	reserve    *appOrders.ReserveUseCase
	transition *appOrders.TransitionUseCase
	query      *appOrders.OrderQueryUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(reserve *appOrders.ReserveUseCase, transition *appOrders.TransitionUseCase, query *appOrders.OrderQueryUseCase) *OrderHandler {
	return &OrderHandler{reserve: reserve, transition: transition, query: query}
}

// Create godoc
// @Summary      Crear orden con reserva de stock
// @Description  Reserva atómicamente el stock de todas las líneas y crea la
//
//	orden. Si alguna línea no tiene stock, responde 409 con la
//	lista completa de faltantes y no crea nada.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "líneas {product_id, quantity}"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor.ID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]appOrders.ReserveItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, appOrders.ReserveItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	order, err := h.reserve.Reserve(c.Context(), actor.ID, items, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OrderToResponse(order))
}

// UpdateStatus godoc
// @Summary      Transición de estado de una orden
// @Description  cancelled restaura el stock reservado; delivered (solo admin)
//
//	confirma la deducción como definitiva.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "status destino y razón opcional"
// @Success      200   {object}  dto.OrderResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor.ID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	orderID := c.Params("id")
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.transition.Transition(c.Context(), orderID, in.Status, actor, in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OrderToResponse(order))
}

// Get godoc
// @Summary      Obtener una orden
// @Description  Un cliente solo puede consultar sus propias órdenes.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	order, err := h.query.Get(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OrderToResponse(order))
}

// List godoc
// @Summary      Listar las órdenes del cliente autenticado
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx. 100 (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	actor := GetActor(c)
	list, err := h.query.ListForCustomer(c.Context(), actor.ID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.OrderToResponse(o))
	}
	return c.JSON(out)
}
