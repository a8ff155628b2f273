package api

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListTransactions(ctx context.Context) ([]Transaction, error) {
	var out []Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	var out Transaction
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/transactions/%d", id), nil, &out)
	return out, err
}

func (c *Client) CreateTransaction(ctx context.Context, in TransactionInput) (Transaction, error) {
	var out Transaction
	err := c.do(ctx, http.MethodPost, "/transactions", in, &out)
	return out, err
}

func (c *Client) UpdateTransaction(ctx context.Context, id int64, in TransactionInput) (Transaction, error) {
	var out Transaction
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/transactions/%d", id), in, &out)
	return out, err
}

func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil, nil)
}
