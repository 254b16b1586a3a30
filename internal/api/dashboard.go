package api

import (
	"context"
	"net/url"

	"github.com/scamshield/scamshield/internal/models"
)

// DashboardStats fetches the aggregate platform statistics.
func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.get(ctx, "/dashboard-stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Merchants lists registered API consumers for the connected wallet.
func (c *Client) Merchants(ctx context.Context) ([]models.Merchant, error) {
	var merchants []models.Merchant
	if err := c.get(ctx, "/merchants/", nil, &merchants); err != nil {
		return nil, err
	}
	return merchants, nil
}

// GenerateAPIKey rotates the API key for a merchant and returns the new key.
func (c *Client) GenerateAPIKey(ctx context.Context, merchantID string) (string, error) {
	var resp struct {
		APIKey string `json:"api_key"`
	}
	if err := c.postJSON(ctx, "/merchants/"+url.PathEscape(merchantID)+"/generate_api_key/", struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.APIKey, nil
}

// ScammerCheck looks up whether an address has verified reports against it.
func (c *Client) ScammerCheck(ctx context.Context, address string) (*models.ScammerCheck, error) {
	q := url.Values{}
	q.Set("address", address)

	var check models.ScammerCheck
	if err := c.get(ctx, "/scammer-check/", q, &check); err != nil {
		return nil, err
	}
	return &check, nil
}
