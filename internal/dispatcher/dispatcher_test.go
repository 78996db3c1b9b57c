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

package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"ppob-wallet-go/internal/gateway"
	"ppob-wallet-go/internal/models"
	"ppob-wallet-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway counts calls and returns canned responses or errors.
type fakeGateway struct {
	balance      int64
	banners      []models.Banner
	services     []models.Service
	historyPage  models.HistoryPage
	err          error
	balanceCalls int
	topUpCalls   int
	txCalls      int
	historyCalls int
}

func (f *fakeGateway) GetBalance(ctx context.Context) (int64, error) {
	f.balanceCalls++
	return f.balance, f.err
}

func (f *fakeGateway) GetBanners(ctx context.Context) ([]models.Banner, error) {
	return f.banners, f.err
}

func (f *fakeGateway) GetServices(ctx context.Context) ([]models.Service, error) {
	return f.services, f.err
}

func (f *fakeGateway) TopUp(ctx context.Context, amount int64) (int64, error) {
	f.topUpCalls++
	if f.err != nil {
		return 0, f.err
	}
	return f.balance + amount, nil
}

func (f *fakeGateway) CreateTransaction(ctx context.Context, serviceCode string) error {
	f.txCalls++
	return f.err
}

func (f *fakeGateway) GetTransactionHistory(ctx context.Context, offset int, limit *int) (models.HistoryPage, error) {
	f.historyCalls++
	return f.historyPage, f.err
}

func newTestDispatcher(gw *fakeGateway) (*Dispatcher, *store.Store) {
	st := store.New()
	return New(gw, st), st
}

func TestFetchBalanceFulfilled(t *testing.T) {
	gw := &fakeGateway{balance: 150_000}
	d, st := newTestDispatcher(gw)

	outcome := d.FetchBalance(context.Background())

	require.False(t, outcome.Failed())
	assert.Equal(t, KindBalance, outcome.Kind)
	assert.NotEqual(t, outcome.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, int64(150_000), st.Balance())
	assert.False(t, st.Status().IsLoading)
	assert.Equal(t, 1, gw.balanceCalls)
}

func TestFetchBalanceToggleLoading(t *testing.T) {
	gw := &fakeGateway{balance: 10_000}
	d, st := newTestDispatcher(gw)

	sub := st.Subscribe()
	defer st.Unsubscribe(sub)

	done := make(chan Outcome, 1)
	go func() { done <- d.FetchBalance(context.Background()) }()

	// The first observable transition is the loading toggle.
	sawLoading := false
	deadline := time.After(time.Second)
	for !sawLoading {
		select {
		case <-sub:
			if st.Status().IsLoading {
				sawLoading = true
			}
		case outcome := <-done:
			// The operation completed before we sampled the flag; the
			// terminal state must still show loading cleared.
			require.False(t, outcome.Failed())
			assert.False(t, st.Status().IsLoading)
			return
		case <-deadline:
			t.Fatal("no loading transition observed")
		}
	}
	<-done
}

func TestFetchBannersSkipsLoadingFlag(t *testing.T) {
	gw := &fakeGateway{banners: []models.Banner{{BannerName: "Promo"}}}
	d, st := newTestDispatcher(gw)

	outcome := d.FetchBanners(context.Background())

	require.False(t, outcome.Failed())
	assert.Len(t, st.Banners(), 1)
	assert.Equal(t, models.RequestStatus{}, st.Status())
}

func TestFetchServicesSkipsLoadingFlag(t *testing.T) {
	gw := &fakeGateway{services: []models.Service{{ServiceCode: "PULSA"}}}
	d, st := newTestDispatcher(gw)

	outcome := d.FetchServices(context.Background())

	require.False(t, outcome.Failed())
	assert.Len(t, st.Services(), 1)
	assert.Equal(t, models.RequestStatus{}, st.Status())
}

func TestTopUpFulfilled(t *testing.T) {
	gw := &fakeGateway{balance: 20_000}
	d, st := newTestDispatcher(gw)

	outcome := d.TopUp(context.Background(), 50_000)

	require.False(t, outcome.Failed())
	assert.Equal(t, KindTopUp, outcome.Kind)
	assert.Equal(t, int64(70_000), st.Balance())

	status := st.Status()
	assert.True(t, status.IsSuccess)
	assert.Equal(t, MessageTopUpSuccess, status.Message)
	assert.Equal(t, 1, gw.topUpCalls)
}

func TestCreateTransactionFulfilled(t *testing.T) {
	gw := &fakeGateway{}
	d, st := newTestDispatcher(gw)

	outcome := d.CreateTransaction(context.Background(), "PULSA")

	require.False(t, outcome.Failed())
	status := st.Status()
	assert.True(t, status.IsSuccess)
	assert.Equal(t, MessageTransactionSuccess, status.Message)
	assert.Equal(t, 1, gw.txCalls)
}

func TestRejectedWithServerMessage(t *testing.T) {
	gw := &fakeGateway{err: &gateway.APIError{HTTPStatus: 400, Code: 102, Message: "Parameter amount hanya boleh angka"}}
	d, st := newTestDispatcher(gw)

	outcome := d.TopUp(context.Background(), 50_000)

	require.True(t, outcome.Failed())
	assert.Equal(t, "Parameter amount hanya boleh angka", outcome.Message())

	status := st.Status()
	assert.True(t, status.IsError)
	assert.False(t, status.IsLoading)
	assert.Equal(t, "Parameter amount hanya boleh angka", status.Message)

	// Never retried automatically.
	assert.Equal(t, 1, gw.topUpCalls)
}

func TestRejectedWithFallbackMessage(t *testing.T) {
	gw := &fakeGateway{err: errors.New("dial tcp: connection refused")}
	d, st := newTestDispatcher(gw)

	outcome := d.FetchBalance(context.Background())

	require.True(t, outcome.Failed())
	assert.Equal(t, FallbackErrorMessage, outcome.Message())
	assert.Equal(t, FallbackErrorMessage, st.Status().Message)
	assert.Equal(t, 1, gw.balanceCalls)
}

func TestRejectedKeepsPreviousData(t *testing.T) {
	gw := &fakeGateway{balance: 90_000}
	d, st := newTestDispatcher(gw)

	require.False(t, d.FetchBalance(context.Background()).Failed())
	require.Equal(t, int64(90_000), st.Balance())

	gw.err = errors.New("boom")
	outcome := d.FetchBalance(context.Background())

	require.True(t, outcome.Failed())
	assert.Equal(t, int64(90_000), st.Balance())
}

func TestFetchHistoryAccumulates(t *testing.T) {
	limit := 2
	gw := &fakeGateway{historyPage: models.HistoryPage{
		Records: []models.TransactionRecord{
			{InvoiceNumber: "INV001", TransactionType: models.TransactionTypeTopUp, TotalAmount: 10_000},
			{InvoiceNumber: "INV002", TransactionType: models.TransactionTypePayment, TotalAmount: 5_000},
		},
		Offset: 0,
		Limit:  &limit,
	}}
	d, st := newTestDispatcher(gw)

	outcome := d.FetchHistory(context.Background(), 0, &limit)
	require.False(t, outcome.Failed())

	// A second page appends rather than replacing.
	gw.historyPage.Records = []models.TransactionRecord{
		{InvoiceNumber: "INV003", TransactionType: models.TransactionTypeTopUp, TotalAmount: 7_000},
	}
	gw.historyPage.Offset = 2

	outcome = d.FetchHistory(context.Background(), 2, &limit)
	require.False(t, outcome.Failed())

	page := st.History()
	require.Len(t, page.Records, 3)
	assert.Equal(t, 2, page.Offset)
	assert.Equal(t, 2, gw.historyCalls)
}

func TestOutcomeIDsAreUnique(t *testing.T) {
	gw := &fakeGateway{}
	d, _ := newTestDispatcher(gw)

	first := d.FetchBanners(context.Background())
	second := d.FetchBanners(context.Background())

	assert.NotEqual(t, first.ID, second.ID)
}
