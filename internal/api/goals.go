package api

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListGoals(ctx context.Context) ([]Goal, error) {
	var out []Goal
	if err := c.do(ctx, http.MethodGet, "/goals", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateGoal(ctx context.Context, in GoalInput) (Goal, error) {
	var out Goal
	err := c.do(ctx, http.MethodPost, "/goals", in, &out)
	return out, err
}

func (c *Client) UpdateGoal(ctx context.Context, id int64, in GoalInput) (Goal, error) {
	var out Goal
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/goals/%d", id), in, &out)
	return out, err
}

func (c *Client) DeleteGoal(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/goals/%d", id), nil, nil)
}
