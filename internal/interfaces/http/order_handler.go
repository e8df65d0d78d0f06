package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ordenes-api/internal/application/dto"
	"github.com/jhoicas/ordenes-api/internal/application/order"
	"github.com/jhoicas/ordenes-api/internal/domain"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

// OrderHandler expone el ciclo de vida de las órdenes.
type OrderHandler struct {
	uc       *order.UseCase
	receipts order.ReceiptRenderer
}

// NewOrderHandler construye el handler. receipts puede ser nil (sin comprobante PDF).
func NewOrderHandler(uc *order.UseCase, receipts order.ReceiptRenderer) *OrderHandler {
	return &OrderHandler{uc: uc, receipts: receipts}
}

// List godoc
// @Summary      Listar órdenes (resumen, sin productos)
// @Tags         orders
// @Produce      json
// @Success      200  {array}  dto.OrderSummaryResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.GetOrders(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.OrderSummaryResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.NewOrderSummary(o))
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear orden
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "userId y productos"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	o, err := h.uc.AddOrder(c.UserContext(), in.UserID, dto.LineInputs(in.Products))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewOrderResponse(o))
}

// GetByID godoc
// @Summary      Obtener orden con sus productos
// @Tags         orders
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.uc.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderResponse(o))
}

// Update godoc
// @Summary      Modificar orden (parcial: solo los productos enviados)
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderRequest  true  "userId, version y productos"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	o, err := h.uc.UpdateOrder(c.UserContext(), c.Params("id"), in.UserID, *in.Version, dto.LineInputs(in.Products))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderResponse(o))
}

// Delete godoc
// @Summary      Eliminar orden PENDING y devolver el stock
// @Tags         orders
// @Param        id   path  string  true  "ID de la orden"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteOrder(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateStatus godoc
// @Summary      Cambiar estado (PENDING -> PROCESSING -> COMPLETED)
// @Tags         orders
// @Produce      json
// @Param        id      path  string  true  "ID de la orden"
// @Param        status  path  string  true  "Nuevo estado"  Enums(PROCESSING, COMPLETED)
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /orders/{id}/status/{status} [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	status, err := entity.ParseOrderStatus(c.Params("status"))
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	o, err := h.uc.UpdateOrderStatus(c.UserContext(), c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderResponse(o))
}

// Receipt godoc
// @Summary      Comprobante PDF de la orden
// @Tags         orders
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	if h.receipts == nil {
		return fiber.ErrNotFound
	}
	r, err := h.uc.GetReceipt(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	pdf, err := h.receipts.RenderReceipt(c.UserContext(), *r)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="orden-%s.pdf"`, r.Order.ID))
	return c.Send(pdf)
}
