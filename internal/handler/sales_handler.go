package handler

import (
	"fmt"

	"go-stock-ledger/internal/service"
	"go-stock-ledger/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type SalesHandler struct {
	service service.LedgerService
}

func NewSalesHandler(s service.LedgerService) *SalesHandler {
	return &SalesHandler{service: s}
}

// CreateSale handles POST /sales: decrement stock and, when a price was
// supplied, accrue amount*price to the revenue aggregate. Echoes the
// normalized command (price omitted when not given).
func (h *SalesHandler) CreateSale(c *fiber.Ctx) error {
	cmd, err := validation.ParseSaleCommand(c.Body())
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.service.Sell(cmd)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderLocation, fmt.Sprintf("%s:80/sales/%s", c.Hostname(), result.Name))
	return c.JSON(result)
}

// GetSales handles GET /sales: the running revenue total.
func (h *SalesHandler) GetSales(c *fiber.Ctx) error {
	total, err := h.service.GetRevenue()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"sales": total})
}
