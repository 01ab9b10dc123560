package client

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"umkm-pos/internal/cart"
	"umkm-pos/internal/model"
)

// Sale is a checkout or hold request.
type Sale struct {
	Items         []cart.Item         `json:"items"`
	PaymentMethod model.PaymentMethod `json:"payment_method,omitempty"`
	LocationName  string              `json:"location_name,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
}

// Quote prices items without recording anything.
func (c *Client) Quote(ctx context.Context, items []cart.Item) (*cart.Quote, error) {
	token := c.token()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	var q cart.Quote
	if err := c.do(ctx, fiber.MethodPost, "/cart/quote", token, fiber.Map{"items": items}, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// Checkout records a paid sale.
func (c *Client) Checkout(ctx context.Context, sale *Sale) (*model.Transaction, error) {
	return c.record(ctx, "/transactions", sale)
}

// Hold saves the cart as a held transaction.
func (c *Client) Hold(ctx context.Context, sale *Sale) (*model.Transaction, error) {
	return c.record(ctx, "/transactions/held", sale)
}

func (c *Client) record(ctx context.Context, path string, sale *Sale) (*model.Transaction, error) {
	token := c.token()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	var resp struct {
		Data model.Transaction `json:"data"`
	}
	if err := c.do(ctx, fiber.MethodPost, path, token, sale, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
