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

package models

import "time"

// Transaction types as reported by the wallet gateway.
const (
	TransactionTypeTopUp   = "TOPUP"
	TransactionTypePayment = "PAYMENT"
)

// Banner is a promotional banner from the gateway. Purely informational.
type Banner struct {
	BannerName  string `json:"banner_name"`
	BannerImage string `json:"banner_image"`
}

// Service is a payable item with a fixed tariff. Immutable once fetched;
// looked up by ServiceCode when a payment flow starts.
type Service struct {
	ServiceCode   string `json:"service_code"`
	ServiceName   string `json:"service_name"`
	ServiceIcon   string `json:"service_icon"`
	ServiceTariff int64  `json:"service_tariff"`
}

// TransactionRecord is one entry of the server-side transaction history.
// Immutable once received; ordering is server-assigned.
type TransactionRecord struct {
	InvoiceNumber   string    `json:"invoice_number"`
	TransactionType string    `json:"transaction_type"`
	TotalAmount     int64     `json:"total_amount"`
	Description     string    `json:"description"`
	CreatedOn       time.Time `json:"created_on"`
}

// HistoryPage accumulates paginated history fetches. Records grow
// monotonically until an explicit reset; Offset and Limit always hold the
// values last echoed by the server, never client-computed ones.
type HistoryPage struct {
	Records []TransactionRecord `json:"records"`
	Offset  int                 `json:"offset"`
	Limit   *int                `json:"limit"`
}

// RequestStatus is the shared status flag set for all asynchronous
// operations. At most one of IsError/IsSuccess is meaningful at a time;
// both are cleared by an explicit reset before a subsequent operation's
// outcome is interpreted.
type RequestStatus struct {
	IsLoading bool
	IsError   bool
	IsSuccess bool
	Message   string
}

// Profile is the authenticated user's profile.
type Profile struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ProfileImage string `json:"profile_image"`
}
