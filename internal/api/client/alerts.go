package client

import (
	"context"
	"time"

	domain "github.com/donaldgifford/slash/pkg/types"
)

// AlertReport is one user's alert evaluation result.
type AlertReport struct {
	Username      string             `json:"username"`
	Recipient     string             `json:"recipient"`
	Items         []domain.AlertItem `json:"items"`
	Delivered     bool               `json:"delivered"`
	DeliveryError string             `json:"delivery_error,omitempty"`
}

// PassSummary totals an all-users alert pass.
type PassSummary struct {
	Status    string        `json:"status"`
	Users     int           `json:"users"`
	Failed    int           `json:"failed"`
	Alerts    int           `json:"alerts"`
	Delivered int           `json:"delivered"`
	Duration  time.Duration `json:"duration"`
}

// EvaluateAlerts runs alert evaluation for one user.
func (c *Client) EvaluateAlerts(ctx context.Context, username string) (*AlertReport, error) {
	var r AlertReport
	if err := c.post(ctx, userPath(username, "/alerts"), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// RunAlertPass triggers alert evaluation for every user.
func (c *Client) RunAlertPass(ctx context.Context) (*PassSummary, error) {
	var s PassSummary
	if err := c.post(ctx, "/api/v1/alerts/run", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
