package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"umkm-pos/internal/model"
	"umkm-pos/internal/repository"
	"umkm-pos/internal/service"
	"umkm-pos/pkg/apperror"
)

type SalesHandler struct {
	service service.SalesService
}

func NewSalesHandler(s service.SalesService) *SalesHandler {
	return &SalesHandler{service: s}
}

// Quote prices a cart without saving anything.
// POST /api/v1/cart/quote
func (h *SalesHandler) Quote(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	quote, err := h.service.Quote(c.UserContext(), a, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(quote)
}

// Checkout records a paid sale.
// POST /api/v1/transactions
func (h *SalesHandler) Checkout(c *fiber.Ctx) error {
	return h.record(c, h.service.Checkout)
}

// Hold saves the cart for later ("simpan").
// POST /api/v1/transactions/held
func (h *SalesHandler) Hold(c *fiber.Ctx) error {
	return h.record(c, h.service.Hold)
}

type recordFunc func(ctx context.Context, a service.Actor, req *service.CheckoutRequest) (*model.Transaction, error)

func (h *SalesHandler) record(c *fiber.Ctx, op recordFunc) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	trx, err := op(c.UserContext(), a, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Transaction recorded successfully",
		"data":    trx,
	})
}

// GetTransactions lists sales, newest first.
// GET /api/v1/transactions?status=&from=&to=&limit=
func (h *SalesHandler) GetTransactions(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}

	filter := repository.TransactionFilter{
		Status: model.PaymentStatus(c.Query("status")),
		Limit:  c.QueryInt("limit", 100),
	}
	if raw := c.Query("from"); raw != "" {
		if filter.From, err = time.Parse("2006-01-02", raw); err != nil {
			return apperror.Respond(c, apperror.BadRequest("Invalid from date, use YYYY-MM-DD"))
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return apperror.Respond(c, apperror.BadRequest("Invalid to date, use YYYY-MM-DD"))
		}
		filter.To = to.AddDate(0, 0, 1)
	}

	transactions, err := h.service.List(c.UserContext(), a, filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(transactions)
}

// GET /api/v1/transactions/:id
func (h *SalesHandler) GetTransaction(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	trx, err := h.service.Get(c.UserContext(), a, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(trx)
}
