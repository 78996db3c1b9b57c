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

// Package workflow is the confirmation/guard/result state machine shared by
// the top-up and payment flows: Idle -> Confirming -> Submitting -> Result
// -> Idle, parameterized by a guard predicate and a target amount. Guard
// violations short-circuit to the failure result without ever issuing the
// mutating call.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ppob-wallet-go/internal/dispatcher"
	"ppob-wallet-go/internal/store"

	"go.uber.org/zap"
)

// Top-up amount bounds, in Rupiah.
const (
	MinTopUpAmount int64 = 10_000
	MaxTopUpAmount int64 = 1_000_000
)

// Guard violation messages. The error text is the user-facing message.
var (
	ErrAmountNotPositive   = errors.New("Nominal top up harus lebih dari 0")
	ErrAmountBelowMinimum  = errors.New("Nominal top up minimal Rp 10.000")
	ErrAmountAboveMaximum  = errors.New("Nominal top up maksimal Rp 1.000.000")
	ErrInsufficientBalance = errors.New("Saldo tidak mencukupi untuk melakukan transaksi")
	ErrServiceNotFound     = errors.New("Layanan tidak ditemukan")
)

// ErrInvalidTransition reports a call that is not legal in the current state.
var ErrInvalidTransition = errors.New("invalid workflow transition")

type State int

const (
	StateIdle State = iota
	StateConfirming
	StateSubmitting
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfirming:
		return "confirming"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Navigator is where the user lands after dismissing a result.
type Navigator interface {
	Home()
}

// NopNavigator stays put; used by tests and non-interactive callers.
type NopNavigator struct{}

func (NopNavigator) Home() {}

// Result is the single tagged variant consumed by the result presentation:
// success carries the amount and description, failure carries the reason.
// BalanceStale marks a success whose follow-up balance refresh failed, so
// the store may still hold the pre-submission balance.
type Result struct {
	Success      bool
	Amount       int64
	Description  string
	Reason       string
	BalanceStale bool
}

// Deps are the collaborators every flow needs.
type Deps struct {
	Store      *store.Store
	Dispatcher *dispatcher.Dispatcher
	Navigator  Navigator
}

// Flow is one run of the four-state machine. A flow is single-use: after
// Dismiss it returns to Idle and a new flow is built for the next attempt.
type Flow struct {
	mutex sync.Mutex
	deps  Deps
	state State

	guard       func() error
	submit      func(ctx context.Context) dispatcher.Outcome
	amount      int64
	description string

	result Result
}

// NewTopUpFlow builds a flow for crediting rawAmount to the balance.
// The amount must already be digits only (presentation strips separators).
func NewTopUpFlow(deps Deps, amount int64) *Flow {
	f := &Flow{
		deps:        deps,
		amount:      amount,
		description: "Top Up Saldo sebesar",
	}
	f.guard = func() error { return topUpGuard(amount) }
	f.submit = func(ctx context.Context) dispatcher.Outcome {
		return deps.Dispatcher.TopUp(ctx, amount)
	}
	return f
}

// NewPaymentFlow builds a flow paying for the service with the given code.
// The service must already be resolved into the store's catalog.
func NewPaymentFlow(deps Deps, serviceCode string) *Flow {
	f := &Flow{deps: deps}
	f.guard = func() error {
		svc, ok := deps.Store.ServiceByCode(serviceCode)
		if !ok {
			return ErrServiceNotFound
		}
		f.amount = svc.ServiceTariff
		f.description = fmt.Sprintf("Pembayaran %s sebesar", svc.ServiceName)
		if deps.Store.Balance() < svc.ServiceTariff {
			return ErrInsufficientBalance
		}
		return nil
	}
	f.submit = func(ctx context.Context) dispatcher.Outcome {
		return deps.Dispatcher.CreateTransaction(ctx, serviceCode)
	}
	return f
}

func topUpGuard(amount int64) error {
	switch {
	case amount <= 0:
		return ErrAmountNotPositive
	case amount < MinTopUpAmount:
		return ErrAmountBelowMinimum
	case amount > MaxTopUpAmount:
		return ErrAmountAboveMaximum
	}
	return nil
}

func (f *Flow) State() State {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.state
}

// Amount is the validated target amount (the tariff for payments).
func (f *Flow) Amount() int64 {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.amount
}

func (f *Flow) Description() string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.description
}

// Result reports the outcome once the flow reached a result state.
func (f *Flow) Result() (Result, bool) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.state != StateSuccess && f.state != StateFailure {
		return Result{}, false
	}
	return f.result, true
}

// Begin runs the guard and moves Idle -> Confirming. A violation moves
// straight to the failure result; the returned error is the fixed message
// and no network call has been issued.
func (f *Flow) Begin() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.state != StateIdle {
		return fmt.Errorf("%w: begin from %s", ErrInvalidTransition, f.state)
	}

	if err := f.guard(); err != nil {
		f.state = StateFailure
		f.result = Result{Reason: err.Error(), Amount: f.amount, Description: f.description}
		return err
	}

	f.state = StateConfirming
	return nil
}

// Cancel abandons a confirming flow with no side effect.
func (f *Flow) Cancel() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.state != StateConfirming {
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, f.state)
	}
	f.state = StateIdle
	return nil
}

// Confirm moves Confirming -> Submitting, issues the mutating call and
// waits for that operation's outcome, observed through the store's status
// transitions. The guard is re-evaluated first: when both the guard and the
// pending call could apply, the guard wins and no call is issued. On
// success the balance is refreshed from the server before the success
// result is reported.
func (f *Flow) Confirm(ctx context.Context) Result {
	f.mutex.Lock()
	if f.state != StateConfirming {
		f.mutex.Unlock()
		return Result{Reason: fmt.Sprintf("%v: confirm from %s", ErrInvalidTransition, f.state)}
	}

	if err := f.guard(); err != nil {
		f.state = StateFailure
		f.result = Result{Reason: err.Error(), Amount: f.amount, Description: f.description}
		f.mutex.Unlock()
		return f.result
	}

	f.state = StateSubmitting
	submit := f.submit
	f.mutex.Unlock()

	sub := f.deps.Store.Subscribe()
	defer f.deps.Store.Unsubscribe(sub)

	outcomeCh := make(chan dispatcher.Outcome, 1)
	go func() { outcomeCh <- submit(ctx) }()

	outcome := f.awaitOutcome(ctx, sub, outcomeCh)

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if outcome.Failed() {
		zap.L().Warn("Workflow submission failed",
			zap.String("operation_id", outcome.ID.String()),
			zap.String("kind", string(outcome.Kind)),
			zap.Error(outcome.Err))
		f.state = StateFailure
		f.result = Result{Reason: outcome.Message(), Amount: f.amount, Description: f.description}
		return f.result
	}

	// Refresh the balance from the server; the store never computes it.
	// The submission already succeeded, so a failed refresh only means the
	// stored balance may be stale.
	balanceStale := false
	if refresh := f.deps.Dispatcher.FetchBalance(ctx); refresh.Failed() {
		zap.L().Warn("Balance refresh failed after successful submission",
			zap.String("operation_id", refresh.ID.String()),
			zap.Error(refresh.Err))
		balanceStale = true
	}

	zap.L().Info("Workflow submission succeeded",
		zap.String("operation_id", outcome.ID.String()),
		zap.String("kind", string(outcome.Kind)),
		zap.Int64("amount", f.amount))

	f.state = StateSuccess
	f.result = Result{Success: true, Amount: f.amount, Description: f.description, BalanceStale: balanceStale}
	return f.result
}

// awaitOutcome reacts to store status transitions and resolves once the
// submitted operation's own outcome arrives, so a concurrent operation's
// flags are never misattributed to this flow.
func (f *Flow) awaitOutcome(ctx context.Context, sub chan struct{}, outcomeCh chan dispatcher.Outcome) dispatcher.Outcome {
	for {
		select {
		case <-sub:
			status := f.deps.Store.Status()
			if !status.IsSuccess && !status.IsError {
				continue // loading toggle, keep observing
			}
			return <-outcomeCh
		case outcome := <-outcomeCh:
			return outcome
		case <-ctx.Done():
			// No abort contract once issued; wait for the call to settle.
			return <-outcomeCh
		}
	}
}

// Dismiss acknowledges the result, clears the shared status flags and
// returns the user to the home view.
func (f *Flow) Dismiss() error {
	f.mutex.Lock()
	if f.state != StateSuccess && f.state != StateFailure {
		f.mutex.Unlock()
		return fmt.Errorf("%w: dismiss from %s", ErrInvalidTransition, f.state)
	}
	f.state = StateIdle
	nav := f.deps.Navigator
	f.mutex.Unlock()

	f.deps.Store.Reset()
	if nav != nil {
		nav.Home()
	}
	return nil
}
