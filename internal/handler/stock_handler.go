package handler

import (
	"errors"
	"fmt"

	"go-stock-ledger/internal/service"
	"go-stock-ledger/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// errorBody is the single generic failure payload. The ledger does not
// distinguish error causes to the client.
var errorBody = fiber.Map{"message": "ERROR"}

// respondError collapses the error taxonomy at the boundary: every
// request-level failure is a 400, anything else is a 500.
func respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, validation.ErrMalformed) ||
		errors.Is(err, service.ErrNotFound) ||
		errors.Is(err, service.ErrInsufficientStock) {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(errorBody)
}

type StockHandler struct {
	service service.LedgerService
}

func NewStockHandler(s service.LedgerService) *StockHandler {
	return &StockHandler{service: s}
}

// CreateStock handles POST /stocks: add stock, creating the row on first
// use. Echoes the normalized command.
func (h *StockHandler) CreateStock(c *fiber.Ctx) error {
	cmd, err := validation.ParseStockCommand(c.Body())
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.service.AddStock(cmd)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderLocation, fmt.Sprintf("%s:80/stocks/%s", c.Hostname(), result.Name))
	return c.JSON(result)
}

// GetStocks handles GET /stocks: every product with stock remaining.
func (h *StockHandler) GetStocks(c *fiber.Ctx) error {
	stock, err := h.service.ListStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stock)
}

// GetStock handles GET /stocks/:item. Zero-amount products still resolve
// here; only the list view hides them.
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	product, err := h.service.GetStock(c.Params("item"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{product.Name: product.Amount})
}

// DeleteStocks handles DELETE /stocks: clears all stock and resets
// revenue. Responds 200 with an empty body.
func (h *StockHandler) DeleteStocks(c *fiber.Ctx) error {
	if err := h.service.ResetAll(); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).SendString("")
}
