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

// Package history turns the store's flat, accumulated record list into
// month-bucketed derived views. Everything is recomputed on read; record
// lists are small per session, so there is no index to invalidate.
package history

import (
	"sync"

	"ppob-wallet-go/internal/models"
	"ppob-wallet-go/internal/store"
)

// View is the month-filtered projection of the accumulated history.
// The selection is a single optional value; "no selection" is its own
// state, never an invalid flag/name combination.
type View struct {
	mutex    sync.Mutex
	store    *store.Store
	selected string // empty means no month selected
}

func NewView(st *store.Store) *View {
	return &View{store: st}
}

// Toggle selects a month, or clears the selection when the month is
// already selected.
func (v *View) Toggle(month string) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if v.selected == month {
		v.selected = ""
		return
	}
	v.selected = month
}

// Selected reports the current selection, if any.
func (v *View) Selected() (string, bool) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.selected, v.selected != ""
}

// Records returns the accumulated records, filtered to the selected month
// when one is selected.
func (v *View) Records() []models.TransactionRecord {
	records := v.store.History().Records

	selected, ok := v.Selected()
	if !ok {
		return records
	}

	filtered := make([]models.TransactionRecord, 0, len(records))
	for _, record := range records {
		if MonthOf(record.CreatedOn) == selected {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// ActiveMonths returns the set of months that have at least one record.
func (v *View) ActiveMonths() map[string]bool {
	active := make(map[string]bool)
	for _, record := range v.store.History().Records {
		active[MonthOf(record.CreatedOn)] = true
	}
	return active
}

// Reset clears the selection and the store's accumulated history. Invoked
// on history view entry and again on teardown; idempotent.
func (v *View) Reset() {
	v.mutex.Lock()
	v.selected = ""
	v.mutex.Unlock()

	v.store.ResetHistory()
}
