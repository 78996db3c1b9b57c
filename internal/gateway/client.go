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

// Package gateway is the HTTP client for the remote wallet API. Every
// response carries a JSON envelope {status, message, data}; any non-2xx
// response is surfaced as *APIError with the server-supplied message.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ppob-wallet-go/internal/models"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// TokenSource supplies the bearer token attached to authenticated calls.
// Token persistence lives outside the engine; the gateway only consumes it.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a fixed in-memory token, mainly for tests.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

// APIError is a non-2xx response from the wallet gateway.
type APIError struct {
	HTTPStatus int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway error (http %d, status %d): %s", e.HTTPStatus, e.Code, e.Message)
}

// envelope is the uniform wire shape of every gateway response.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL    string
	httpClient http.Client
	tokens     TokenSource
}

func NewClient(cfg models.GatewayConfig, tokens TokenSource) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("gateway base URL cannot be empty")
	}

	httpClient, err := createCustomHttpClient(cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}, nil
}

func createCustomHttpClient(timeout time.Duration) (http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return http.Client{}, err
	}

	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}

// do issues a single JSON request and decodes the envelope. Exactly one
// network call per invocation; there is no retry and no abort once issued.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any, authed bool) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("unable to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, query, contentType, reader, out, authed)
}

// send issues a request with an already-encoded body. Multipart uploads come
// through here directly.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out any, authed bool) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("unable to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if authed {
		token, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("unable to load token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	zap.L().Debug("Calling wallet gateway",
		zap.String("method", method),
		zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Warn("Failed to close response body", zap.Error(err))
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("unable to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &APIError{HTTPStatus: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("unable to decode response envelope: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		zap.L().Warn("Gateway returned error",
			zap.String("path", path),
			zap.Int("http_status", resp.StatusCode),
			zap.Int("status", env.Status),
			zap.String("message", env.Message))
		return &APIError{HTTPStatus: resp.StatusCode, Code: env.Status, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("unable to decode response data: %w", err)
		}
	}

	return nil
}
