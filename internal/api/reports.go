package api

import (
	"context"
	"net/http"
)

// Report endpoints are server-computed aggregates. Callers fall back to the
// local aggregation engine when one of these is unavailable.

func (c *Client) Summary(ctx context.Context) (Summary, error) {
	var out Summary
	err := c.do(ctx, http.MethodGet, "/reports/summary", nil, &out)
	return out, err
}

func (c *Client) Trends(ctx context.Context) (Trends, error) {
	var out Trends
	err := c.do(ctx, http.MethodGet, "/reports/trends", nil, &out)
	return out, err
}

func (c *Client) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var out DashboardStats
	err := c.do(ctx, http.MethodGet, "/reports/dashboard-stats", nil, &out)
	return out, err
}

func (c *Client) CategoryExpenses(ctx context.Context) (Categories, error) {
	var out Categories
	err := c.do(ctx, http.MethodGet, "/reports/categories", nil, &out)
	return out, err
}
