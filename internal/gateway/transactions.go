/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ppob-wallet-go/internal/models"
)

// GetBalance returns the authoritative server-side balance.
func (c *Client) GetBalance(ctx context.Context) (int64, error) {
	var data struct {
		Balance int64 `json:"balance"`
	}
	if err := c.do(ctx, http.MethodGet, "/balance", nil, nil, &data, true); err != nil {
		return 0, fmt.Errorf("unable to get balance: %w", err)
	}
	return data.Balance, nil
}

// GetBanners lists the promotional banners in server order.
func (c *Client) GetBanners(ctx context.Context) ([]models.Banner, error) {
	var data []models.Banner
	if err := c.do(ctx, http.MethodGet, "/banner", nil, nil, &data, true); err != nil {
		return nil, fmt.Errorf("unable to get banners: %w", err)
	}
	return data, nil
}

// GetServices lists the payable service catalog in server order.
func (c *Client) GetServices(ctx context.Context) ([]models.Service, error) {
	var data []models.Service
	if err := c.do(ctx, http.MethodGet, "/services", nil, nil, &data, true); err != nil {
		return nil, fmt.Errorf("unable to get services: %w", err)
	}
	return data, nil
}

// TopUp credits the balance and returns the new server-reported balance.
func (c *Client) TopUp(ctx context.Context, amount int64) (int64, error) {
	body := struct {
		TopUpAmount int64 `json:"top_up_amount"`
	}{TopUpAmount: amount}

	var data struct {
		Balance int64 `json:"balance"`
	}
	if err := c.do(ctx, http.MethodPost, "/topup", nil, body, &data, true); err != nil {
		return 0, fmt.Errorf("unable to top up: %w", err)
	}
	return data.Balance, nil
}

// CreateTransaction pays for a service. The success payload is opaque;
// callers depend only on success or failure.
func (c *Client) CreateTransaction(ctx context.Context, serviceCode string) error {
	body := struct {
		ServiceCode string `json:"service_code"`
	}{ServiceCode: serviceCode}

	if err := c.do(ctx, http.MethodPost, "/transaction", nil, body, nil, true); err != nil {
		return fmt.Errorf("unable to create transaction: %w", err)
	}
	return nil
}

// GetTransactionHistory fetches one server-paginated history slice. A nil
// limit requests the server default (everything from the offset onwards).
func (c *Client) GetTransactionHistory(ctx context.Context, offset int, limit *int) (models.HistoryPage, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	if limit != nil {
		query.Set("limit", strconv.Itoa(*limit))
	}

	var data models.HistoryPage
	if err := c.do(ctx, http.MethodGet, "/transaction/history", query, nil, &data, true); err != nil {
		return models.HistoryPage{}, fmt.Errorf("unable to get transaction history: %w", err)
	}
	return data, nil
}
