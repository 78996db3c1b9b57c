package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CachedTransaction is a transaction record mirrored into the session cache,
// with a signed net amount and the running balance across cached records.
type CachedTransaction struct {
	Id              string          `db:"id"`
	RecordKey       string          `db:"record_key"`
	InvoiceNumber   string          `db:"invoice_number"`
	TransactionType string          `db:"transaction_type"`
	Description     string          `db:"description"`
	TotalAmount     int64           `db:"total_amount"`
	NetAmount       decimal.Decimal `db:"net_amount"`
	RunningBalance  decimal.Decimal `db:"running_balance"`
	CreatedOn       time.Time       `db:"created_on"`
	RecordedAt      time.Time       `db:"recorded_at"`
}

// BalanceSnapshot is a server-reported balance stored in the session cache.
type BalanceSnapshot struct {
	Id        string    `db:"id"`
	Balance   int64     `db:"balance"`
	FetchedAt time.Time `db:"fetched_at"`
}
