package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jugueteria-api/internal/application/cart"
	"github.com/jhoicas/jugueteria-api/internal/application/dto"
	"github.com/jhoicas/jugueteria-api/pkg/logger"
	"github.com/jhoicas/jugueteria-api/pkg/metrics"
)

// CartHandler carrito de la sesión. Todas las rutas van detrás de RequireAuth(RequireSession).
type CartHandler struct {
	uc      *cart.CartUseCase
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.CartUseCase, m *metrics.Metrics, log *logger.Logger) *CartHandler {
	return &CartHandler{uc: uc, metrics: m, log: log}
}

// View godoc
// @Summary      Ver carrito
// @Tags         carrito
// @Produce      json
// @Success      200  {array}   dto.CartLineResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/carrito [get]
func (h *CartHandler) View(c *fiber.Ctx) error {
	return c.JSON(h.uc.View(GetSession(c)))
}

// Add godoc
// @Summary      Agregar producto al carrito
// @Tags         carrito
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.AddToCartRequest  true  "idProducto, cantidad"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/carrito/agregar [post]
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in dto.AddToCartRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lines, err := h.uc.Add(c.Context(), GetSession(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.metrics.CartOp(metrics.CartAdd)
	return c.JSON(dto.CartResponse{Mensaje: "Producto agregado al carrito", Carrito: lines})
}

// Remove godoc
// @Summary      Quitar producto del carrito
// @Tags         carrito
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.RemoveFromCartRequest  true  "idProducto"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/carrito/eliminar [post]
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	var in dto.RemoveFromCartRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lines, err := h.uc.Remove(c.Context(), GetSession(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.metrics.CartOp(metrics.CartRemove)
	return c.JSON(dto.CartResponse{Mensaje: "Producto eliminado del carrito", Carrito: lines})
}

// Clear godoc
// @Summary      Vaciar carrito
// @Tags         carrito
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/carrito/vaciar [post]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(c.Context(), GetSession(c)); err != nil {
		return writeError(c, h.log, err)
	}
	h.metrics.CartOp(metrics.CartClear)
	return c.JSON(dto.MessageResponse{Mensaje: "Carrito vaciado correctamente"})
}

// Quote godoc
// @Summary      Cotización PDF del carrito
// @Tags         carrito
// @Produce      application/pdf
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/carrito/cotizacion [get]
func (h *CartHandler) Quote(c *fiber.Ctx) error {
	pdf, err := h.uc.Quote(c.Context(), GetSession(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.metrics.CartOp(metrics.CartQuote)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="cotizacion-%s.pdf"`, c.Context().Time().Format("20060102")))
	return c.Send(pdf)
}
