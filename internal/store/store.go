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

// Package store holds the client-side wallet state: balance, banners,
// services, accumulated transaction history and the shared request status.
// It is the single source of truth for every view; all mutation goes through
// the named transition methods, never through direct field access.
package store

import (
	"sync"

	"ppob-wallet-go/internal/models"
)

// Store is the transaction state store. Reads are synchronous snapshots of
// the last applied transition. The mutex serializes transitions so two
// concurrent completions never interleave a partial update; the status flags
// themselves remain last-write-wins across operations, which callers that
// run concurrent mutating operations must tolerate.
type Store struct {
	mutex    sync.RWMutex
	balance  int64
	banners  []models.Banner
	services []models.Service
	history  models.HistoryPage
	status   models.RequestStatus

	watchers map[chan struct{}]struct{}
}

func New() *Store {
	return &Store{
		watchers: make(map[chan struct{}]struct{}),
	}
}

// Subscribe registers a watcher notified after every applied transition.
// The channel has a buffer of one; a slow watcher coalesces notifications
// instead of blocking a transition.
func (s *Store) Subscribe() chan struct{} {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ch := make(chan struct{}, 1)
	s.watchers[ch] = struct{}{}
	return ch
}

func (s *Store) Unsubscribe(ch chan struct{}) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.watchers, ch)
}

// notify must be called with the mutex held.
func (s *Store) notify() {
	for ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// --- Reads ---

func (s *Store) Balance() int64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.balance
}

func (s *Store) Banners() []models.Banner {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]models.Banner, len(s.banners))
	copy(out, s.banners)
	return out
}

func (s *Store) Services() []models.Service {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]models.Service, len(s.services))
	copy(out, s.services)
	return out
}

// ServiceByCode resolves a service from the catalog by its unique code.
func (s *Store) ServiceByCode(code string) (models.Service, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, svc := range s.services {
		if svc.ServiceCode == code {
			return svc, true
		}
	}
	return models.Service{}, false
}

func (s *Store) History() models.HistoryPage {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := models.HistoryPage{
		Records: make([]models.TransactionRecord, len(s.history.Records)),
		Offset:  s.history.Offset,
	}
	copy(out.Records, s.history.Records)
	if s.history.Limit != nil {
		limit := *s.history.Limit
		out.Limit = &limit
	}
	return out
}

func (s *Store) Status() models.RequestStatus {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.status
}

// --- Transitions ---

// BeginLoading marks an operation start. Only balance, top-up,
// create-transaction and history fetches toggle the shared loading flag;
// banner and service fetches never call this.
func (s *Store) BeginLoading() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.status.IsLoading = true
	s.notify()
}

// ApplyBalance overwrites the balance with the server-reported value.
// The balance is never computed locally, so the store cannot drift.
func (s *Store) ApplyBalance(balance int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.status.IsLoading = false
	s.balance = balance
	s.notify()
}

func (s *Store) ApplyBanners(banners []models.Banner) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.banners = banners
	s.notify()
}

func (s *Store) ApplyServices(services []models.Service) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.services = services
	s.notify()
}

// ApplyTopUp records a successful top-up: the balance slice adopts the
// server-reported value and the status flags report success.
func (s *Store) ApplyTopUp(balance int64, message string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.status.IsLoading = false
	s.status.IsSuccess = true
	s.status.Message = message
	s.balance = balance
	s.notify()
}

// ApplyTransaction records a successful payment. The gateway's payload is
// opaque beyond success, so only the status flags change.
func (s *Store) ApplyTransaction(message string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.status.IsLoading = false
	s.status.IsSuccess = true
	s.status.Message = message
	s.notify()
}

// ApplyHistoryPage concatenates a fetched page onto the accumulated record
// list and adopts the server-echoed cursor. Records are never deduplicated;
// avoiding stale-cursor refetches is the caller's responsibility.
func (s *Store) ApplyHistoryPage(page models.HistoryPage) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.status.IsLoading = false
	s.history.Records = append(s.history.Records, page.Records...)
	s.history.Offset = page.Offset
	s.history.Limit = page.Limit
	s.notify()
}

// Fail records a rejected operation. Only the status slice changes; every
// data slice keeps its last value.
func (s *Store) Fail(message string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.status.IsLoading = false
	s.status.IsError = true
	s.status.Message = message
	s.notify()
}

// Reset clears the status flags. Callers must reset before interpreting a
// subsequent operation's outcome.
func (s *Store) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.status = models.RequestStatus{}
	s.notify()
}

// ResetHistory restores the history slice to its initial empty state.
// Idempotent; invoked on both history view entry and teardown.
func (s *Store) ResetHistory() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.history = models.HistoryPage{}
	s.notify()
}
