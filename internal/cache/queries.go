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

package cache

const (
	queryCheckDuplicateRecord = `
		SELECT id FROM transactions WHERE record_key = ? LIMIT 1`

	queryLastRunningBalance = `
		SELECT running_balance
		FROM transactions
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT 1`

	queryInsertTransaction = `
		INSERT INTO transactions (
			id, record_key, invoice_number, transaction_type, description,
			total_amount, net_amount, running_balance, created_on
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetTransactions = `
		SELECT id, record_key, invoice_number, transaction_type, description,
		       total_amount, net_amount, running_balance, created_on, recorded_at
		FROM transactions
		ORDER BY created_on DESC
		LIMIT ? OFFSET ?`

	queryMostRecentCreatedOn = `
		SELECT MAX(created_on) FROM transactions`

	queryInsertBalanceSnapshot = `
		INSERT INTO balance_snapshots (id, balance) VALUES (?, ?)`

	queryLastBalanceSnapshot = `
		SELECT id, balance, fetched_at
		FROM balance_snapshots
		ORDER BY fetched_at DESC, rowid DESC
		LIMIT 1`
)
