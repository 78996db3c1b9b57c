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

// Package watcher polls the wallet gateway for new transactions and
// mirrors unseen ones into the session cache. Each poll is a fresh history
// session: the store's accumulation is reset before fetching so the cursor
// never goes stale.
package watcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"ppob-wallet-go/internal/cache"
	"ppob-wallet-go/internal/dispatcher"
	"ppob-wallet-go/internal/store"

	"go.uber.org/zap"
)

// Config contains configuration for the history watcher.
type Config struct {
	Dispatcher      *dispatcher.Dispatcher
	Store           *store.Store
	Cache           *cache.Service
	PollingInterval time.Duration
	LookbackWindow  time.Duration
	CleanupInterval time.Duration
	PageSize        int
}

// Watcher periodically fetches the transaction history and records new
// entries into the session cache.
type Watcher struct {
	dispatcher *dispatcher.Dispatcher
	store      *store.Store
	cache      *cache.Service

	// State management for seen records
	seen            map[string]time.Time
	mutex           sync.RWMutex
	pollingInterval time.Duration
	lookbackWindow  time.Duration
	cleanupInterval time.Duration
	pageSize        int

	// Control channels
	stopChan chan struct{}
	doneChan chan struct{}
}

func New(cfg Config) *Watcher {
	return &Watcher{
		dispatcher:      cfg.Dispatcher,
		store:           cfg.Store,
		cache:           cfg.Cache,
		seen:            make(map[string]time.Time),
		pollingInterval: cfg.PollingInterval,
		lookbackWindow:  cfg.LookbackWindow,
		cleanupInterval: cfg.CleanupInterval,
		pageSize:        cfg.PageSize,
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
	}
}

// Start begins polling. It returns immediately; Stop shuts the watcher
// down and waits for the current poll to finish.
func (w *Watcher) Start(ctx context.Context) {
	zap.L().Info("Starting history watcher",
		zap.Duration("polling_interval", w.pollingInterval),
		zap.Duration("lookback_window", w.lookbackWindow),
		zap.Int("page_size", w.pageSize))

	go w.cleanupLoop(ctx)
	go w.pollLoop(ctx)
}

func (w *Watcher) Stop() {
	close(w.stopChan)
	<-w.doneChan
	zap.L().Info("History watcher stopped")
}

func (w *Watcher) pollLoop(ctx context.Context) {
	defer close(w.doneChan)

	ticker := time.NewTicker(w.pollingInterval)
	defer ticker.Stop()

	// First poll immediately instead of waiting one interval.
	w.poll(ctx)

	for {
		select {
		case <-ticker.C:
			w.poll(ctx)
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// poll fetches one history page from offset zero and caches unseen records.
func (w *Watcher) poll(ctx context.Context) {
	w.store.ResetHistory()

	limit := w.pageSize
	outcome := w.dispatcher.FetchHistory(ctx, 0, &limit)
	if outcome.Failed() {
		zap.L().Warn("History poll failed",
			zap.String("operation_id", outcome.ID.String()),
			zap.Error(outcome.Err))
		w.store.Reset()
		return
	}

	records := w.store.History().Records
	fresh := 0
	for _, rec := range records {
		key := cache.RecordKey(rec)
		if w.isSeen(key) {
			continue
		}

		_, err := w.cache.RecordTransaction(ctx, rec)
		if err != nil && !isDuplicate(err) {
			zap.L().Error("Failed to cache transaction",
				zap.String("record_key", key),
				zap.Error(err))
			continue
		}
		w.markSeen(key)
		if err == nil {
			fresh++
		}
	}

	if fresh > 0 {
		zap.L().Info("Cached new transactions",
			zap.Int("new", fresh),
			zap.Int("fetched", len(records)))
	}
}

func isDuplicate(err error) bool {
	return errors.Is(err, cache.ErrDuplicateRecord)
}

func (w *Watcher) isSeen(key string) bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()

	_, exists := w.seen[key]
	return exists
}

func (w *Watcher) markSeen(key string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.seen[key] = time.Now()
}

// cleanupLoop periodically prunes seen-record entries older than the
// lookback window.
func (w *Watcher) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.cleanupSeen()
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) cleanupSeen() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	cutoff := time.Now().UTC().Add(-w.lookbackWindow)
	cleaned := 0

	for key, seenAt := range w.seen {
		if seenAt.Before(cutoff) {
			delete(w.seen, key)
			cleaned++
		}
	}

	if cleaned > 0 {
		zap.L().Debug("Cleaned up seen records",
			zap.Int("cleaned", cleaned),
			zap.Int("remaining", len(w.seen)))
	}
}
