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

// Package dispatcher wraps every gateway call in a uniform lifecycle:
// a start transition, exactly one network call, and a fulfilled or rejected
// transition into the store. No operation is ever retried automatically.
package dispatcher

import (
	"context"
	"errors"

	"ppob-wallet-go/internal/gateway"
	"ppob-wallet-go/internal/models"
	"ppob-wallet-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind identifies an operation family.
type Kind string

const (
	KindBalance     Kind = "balance"
	KindBanners     Kind = "banners"
	KindServices    Kind = "services"
	KindTopUp       Kind = "topup"
	KindTransaction Kind = "transaction"
	KindHistory     Kind = "history"
)

// Success messages written into the store on fulfilled mutating operations.
const (
	MessageTopUpSuccess       = "Top Up berhasil"
	MessageTransactionSuccess = "Transaksi berhasil"
)

// FallbackErrorMessage is shown when the gateway gives no usable message.
const FallbackErrorMessage = "Terjadi kesalahan, silakan coba lagi"

// Outcome is the per-invocation result. The store keeps the shared status
// flags for views; workflow controllers key on the operation id instead so
// interleaved completions cannot be attributed to the wrong operation.
type Outcome struct {
	ID   uuid.UUID
	Kind Kind
	Err  error
}

func (o Outcome) Failed() bool { return o.Err != nil }

// Message returns the display text for a failed outcome.
func (o Outcome) Message() string {
	return errorMessage(o.Err)
}

// Gateway is the slice of the wallet API the dispatcher consumes.
// *gateway.Client satisfies it; tests substitute fakes.
type Gateway interface {
	GetBalance(ctx context.Context) (int64, error)
	GetBanners(ctx context.Context) ([]models.Banner, error)
	GetServices(ctx context.Context) ([]models.Service, error)
	TopUp(ctx context.Context, amount int64) (int64, error)
	CreateTransaction(ctx context.Context, serviceCode string) error
	GetTransactionHistory(ctx context.Context, offset int, limit *int) (models.HistoryPage, error)
}

var _ Gateway = (*gateway.Client)(nil)

type Dispatcher struct {
	gateway Gateway
	store   *store.Store
}

func New(gw Gateway, st *store.Store) *Dispatcher {
	return &Dispatcher{gateway: gw, store: st}
}

// Store exposes the store the dispatcher transitions into.
func (d *Dispatcher) Store() *store.Store { return d.store }

// FetchBalance refreshes the balance slice from the server.
func (d *Dispatcher) FetchBalance(ctx context.Context) Outcome {
	op := newOutcome(KindBalance)
	d.store.BeginLoading()

	balance, err := d.gateway.GetBalance(ctx)
	if err != nil {
		return d.reject(op, err)
	}

	d.store.ApplyBalance(balance)
	return op
}

// FetchBanners fills the banner slice. Banner fetches do not toggle the
// shared loading flag; callers tolerate the asymmetry.
func (d *Dispatcher) FetchBanners(ctx context.Context) Outcome {
	op := newOutcome(KindBanners)

	banners, err := d.gateway.GetBanners(ctx)
	if err != nil {
		return d.reject(op, err)
	}

	d.store.ApplyBanners(banners)
	return op
}

// FetchServices fills the service catalog. Like banners, no loading toggle.
func (d *Dispatcher) FetchServices(ctx context.Context) Outcome {
	op := newOutcome(KindServices)

	services, err := d.gateway.GetServices(ctx)
	if err != nil {
		return d.reject(op, err)
	}

	d.store.ApplyServices(services)
	return op
}

// TopUp credits the balance. On success the store adopts the new
// server-reported balance and a success message.
func (d *Dispatcher) TopUp(ctx context.Context, amount int64) Outcome {
	op := newOutcome(KindTopUp)
	d.store.BeginLoading()

	zap.L().Info("Dispatching top-up",
		zap.String("operation_id", op.ID.String()),
		zap.Int64("amount", amount))

	balance, err := d.gateway.TopUp(ctx, amount)
	if err != nil {
		return d.reject(op, err)
	}

	d.store.ApplyTopUp(balance, MessageTopUpSuccess)
	return op
}

// CreateTransaction pays for a service by code.
func (d *Dispatcher) CreateTransaction(ctx context.Context, serviceCode string) Outcome {
	op := newOutcome(KindTransaction)
	d.store.BeginLoading()

	zap.L().Info("Dispatching transaction",
		zap.String("operation_id", op.ID.String()),
		zap.String("service_code", serviceCode))

	if err := d.gateway.CreateTransaction(ctx, serviceCode); err != nil {
		return d.reject(op, err)
	}

	d.store.ApplyTransaction(MessageTransactionSuccess)
	return op
}

// FetchHistory appends one history page to the accumulated record list.
func (d *Dispatcher) FetchHistory(ctx context.Context, offset int, limit *int) Outcome {
	op := newOutcome(KindHistory)
	d.store.BeginLoading()

	page, err := d.gateway.GetTransactionHistory(ctx, offset, limit)
	if err != nil {
		return d.reject(op, err)
	}

	d.store.ApplyHistoryPage(page)
	return op
}

func newOutcome(kind Kind) Outcome {
	return Outcome{ID: uuid.New(), Kind: kind}
}

func (d *Dispatcher) reject(op Outcome, err error) Outcome {
	op.Err = err
	message := errorMessage(err)

	zap.L().Warn("Operation rejected",
		zap.String("operation_id", op.ID.String()),
		zap.String("kind", string(op.Kind)),
		zap.Error(err))

	d.store.Fail(message)
	return op
}

// errorMessage prefers the server-supplied message and falls back to a
// generic one for transport-level failures.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return FallbackErrorMessage
}
