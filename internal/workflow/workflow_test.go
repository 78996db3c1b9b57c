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

package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ppob-wallet-go/internal/dispatcher"
	"ppob-wallet-go/internal/models"
	"ppob-wallet-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway keeps a mutable server-side balance so the post-submit
// balance refresh observes the mutation.
type fakeGateway struct {
	mutex        sync.Mutex
	balance      int64
	balanceErr   error
	topUpErr     error
	txErr        error
	topUpCalls   int
	txCalls      int
	balanceCalls int
}

func (f *fakeGateway) GetBalance(ctx context.Context) (int64, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.balanceCalls++
	if f.balanceErr != nil {
		return 0, f.balanceErr
	}
	return f.balance, nil
}

func (f *fakeGateway) GetBanners(ctx context.Context) ([]models.Banner, error) {
	return nil, nil
}

func (f *fakeGateway) GetServices(ctx context.Context) ([]models.Service, error) {
	return nil, nil
}

func (f *fakeGateway) TopUp(ctx context.Context, amount int64) (int64, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.topUpCalls++
	if f.topUpErr != nil {
		return 0, f.topUpErr
	}
	f.balance += amount
	return f.balance, nil
}

func (f *fakeGateway) CreateTransaction(ctx context.Context, serviceCode string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.txCalls++
	if f.txErr != nil {
		return f.txErr
	}
	return nil
}

func (f *fakeGateway) GetTransactionHistory(ctx context.Context, offset int, limit *int) (models.HistoryPage, error) {
	return models.HistoryPage{}, nil
}

// recordingNavigator counts Home transitions.
type recordingNavigator struct {
	homeCalls int
}

func (n *recordingNavigator) Home() { n.homeCalls++ }

func newTestDeps(gw *fakeGateway) (Deps, *store.Store, *recordingNavigator) {
	st := store.New()
	nav := &recordingNavigator{}
	return Deps{
		Store:      st,
		Dispatcher: dispatcher.New(gw, st),
		Navigator:  nav,
	}, st, nav
}

func TestTopUpGuardViolations(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		wantErr error
	}{
		{"zero amount", 0, ErrAmountNotPositive},
		{"negative amount", -5_000, ErrAmountNotPositive},
		{"below minimum", 9_999, ErrAmountBelowMinimum},
		{"above maximum", 1_000_001, ErrAmountAboveMaximum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{}
			deps, _, _ := newTestDeps(gw)

			flow := NewTopUpFlow(deps, tt.amount)
			err := flow.Begin()

			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, StateFailure, flow.State())

			result, ok := flow.Result()
			require.True(t, ok)
			assert.False(t, result.Success)
			assert.Equal(t, tt.wantErr.Error(), result.Reason)

			// The guard short-circuits; no network call is ever issued.
			assert.Zero(t, gw.topUpCalls)
		})
	}
}

func TestTopUpBoundsAreInclusive(t *testing.T) {
	for _, amount := range []int64{MinTopUpAmount, MaxTopUpAmount} {
		gw := &fakeGateway{}
		deps, _, _ := newTestDeps(gw)

		flow := NewTopUpFlow(deps, amount)
		require.NoError(t, flow.Begin())
		assert.Equal(t, StateConfirming, flow.State())
	}
}

func TestTopUpRoundTrip(t *testing.T) {
	gw := &fakeGateway{balance: 5_000}
	deps, st, _ := newTestDeps(gw)

	flow := NewTopUpFlow(deps, 15_000)
	require.NoError(t, flow.Begin())

	result := flow.Confirm(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, int64(15_000), result.Amount)
	assert.Equal(t, "Top Up Saldo sebesar", result.Description)
	assert.Equal(t, StateSuccess, flow.State())

	// The store adopted the refreshed server balance.
	assert.Equal(t, int64(20_000), st.Balance())
	assert.Equal(t, 1, gw.topUpCalls)
}

func TestTopUpRejectedByServer(t *testing.T) {
	gw := &fakeGateway{topUpErr: errors.New("boom")}
	deps, _, _ := newTestDeps(gw)

	flow := NewTopUpFlow(deps, 50_000)
	require.NoError(t, flow.Begin())

	result := flow.Confirm(context.Background())

	assert.False(t, result.Success)
	assert.Equal(t, dispatcher.FallbackErrorMessage, result.Reason)
	assert.Equal(t, StateFailure, flow.State())
	assert.Equal(t, 1, gw.topUpCalls)
}

func TestPaymentInsufficientBalance(t *testing.T) {
	gw := &fakeGateway{}
	deps, st, _ := newTestDeps(gw)

	st.ApplyServices([]models.Service{{ServiceCode: "PULSA", ServiceName: "Pulsa", ServiceTariff: 50_000}})
	st.ApplyBalance(30_000)

	flow := NewPaymentFlow(deps, "PULSA")
	err := flow.Begin()

	require.ErrorIs(t, err, ErrInsufficientBalance)

	result, ok := flow.Result()
	require.True(t, ok)
	assert.Equal(t, "Saldo tidak mencukupi untuk melakukan transaksi", result.Reason)

	// No call issued; the balance is untouched.
	assert.Zero(t, gw.txCalls)
	assert.Equal(t, int64(30_000), st.Balance())
}

func TestPaymentUnknownService(t *testing.T) {
	gw := &fakeGateway{}
	deps, st, _ := newTestDeps(gw)
	st.ApplyBalance(100_000)

	flow := NewPaymentFlow(deps, "VOUCHER")
	err := flow.Begin()

	require.ErrorIs(t, err, ErrServiceNotFound)
	assert.Zero(t, gw.txCalls)
}

func TestPaymentRoundTrip(t *testing.T) {
	gw := &fakeGateway{balance: 100_000}
	deps, st, _ := newTestDeps(gw)

	st.ApplyServices([]models.Service{{ServiceCode: "PLN", ServiceName: "Listrik", ServiceTariff: 10_000}})
	st.ApplyBalance(100_000)

	flow := NewPaymentFlow(deps, "PLN")
	require.NoError(t, flow.Begin())

	assert.Equal(t, int64(10_000), flow.Amount())
	assert.Equal(t, "Pembayaran Listrik sebesar", flow.Description())

	result := flow.Confirm(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, int64(10_000), result.Amount)
	assert.Equal(t, 1, gw.txCalls)
	assert.Equal(t, 1, gw.balanceCalls)
}

func TestSuccessWithFailedBalanceRefresh(t *testing.T) {
	gw := &fakeGateway{balance: 100_000, balanceErr: errors.New("boom")}
	deps, st, _ := newTestDeps(gw)

	st.ApplyServices([]models.Service{{ServiceCode: "PLN", ServiceName: "Listrik", ServiceTariff: 10_000}})
	st.ApplyBalance(100_000)

	flow := NewPaymentFlow(deps, "PLN")
	require.NoError(t, flow.Begin())

	result := flow.Confirm(context.Background())

	// The payment itself went through; only the refresh failed.
	assert.True(t, result.Success)
	assert.True(t, result.BalanceStale)
	assert.Equal(t, StateSuccess, flow.State())
	assert.Equal(t, 1, gw.txCalls)

	// The store still holds the pre-payment balance.
	assert.Equal(t, int64(100_000), st.Balance())
}

func TestSuccessfulRefreshIsNotStale(t *testing.T) {
	gw := &fakeGateway{balance: 5_000}
	deps, _, _ := newTestDeps(gw)

	flow := NewTopUpFlow(deps, 20_000)
	require.NoError(t, flow.Begin())

	result := flow.Confirm(context.Background())

	assert.True(t, result.Success)
	assert.False(t, result.BalanceStale)
}

func TestConfirmReRunsGuard(t *testing.T) {
	gw := &fakeGateway{}
	deps, st, _ := newTestDeps(gw)

	st.ApplyServices([]models.Service{{ServiceCode: "PULSA", ServiceName: "Pulsa", ServiceTariff: 40_000}})
	st.ApplyBalance(50_000)

	flow := NewPaymentFlow(deps, "PULSA")
	require.NoError(t, flow.Begin())

	// The balance drops while the user stares at the confirmation screen.
	st.ApplyBalance(10_000)

	result := flow.Confirm(context.Background())

	assert.False(t, result.Success)
	assert.Equal(t, ErrInsufficientBalance.Error(), result.Reason)
	assert.Zero(t, gw.txCalls)
}

func TestCancelHasNoSideEffect(t *testing.T) {
	gw := &fakeGateway{}
	deps, st, _ := newTestDeps(gw)
	st.ApplyBalance(25_000)

	flow := NewTopUpFlow(deps, 50_000)
	require.NoError(t, flow.Begin())
	require.NoError(t, flow.Cancel())

	assert.Equal(t, StateIdle, flow.State())
	assert.Zero(t, gw.topUpCalls)
	assert.Equal(t, int64(25_000), st.Balance())

	_, ok := flow.Result()
	assert.False(t, ok)
}

func TestDismissResetsStatusAndNavigatesHome(t *testing.T) {
	gw := &fakeGateway{balance: 5_000}
	deps, st, nav := newTestDeps(gw)

	flow := NewTopUpFlow(deps, 20_000)
	require.NoError(t, flow.Begin())
	flow.Confirm(context.Background())

	require.NoError(t, flow.Dismiss())

	assert.Equal(t, StateIdle, flow.State())
	assert.Equal(t, models.RequestStatus{}, st.Status())
	assert.Equal(t, 1, nav.homeCalls)
}

func TestInvalidTransitions(t *testing.T) {
	gw := &fakeGateway{}
	deps, _, _ := newTestDeps(gw)

	flow := NewTopUpFlow(deps, 50_000)

	assert.ErrorIs(t, flow.Cancel(), ErrInvalidTransition)
	assert.ErrorIs(t, flow.Dismiss(), ErrInvalidTransition)

	require.NoError(t, flow.Begin())
	assert.ErrorIs(t, flow.Begin(), ErrInvalidTransition)
}
