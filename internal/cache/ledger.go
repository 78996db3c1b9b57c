package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ppob-wallet-go/internal/models"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecordKey is the deduplication key for a history record: the invoice
// number when present, otherwise a deterministic digest of the record's
// immutable fields.
func RecordKey(rec models.TransactionRecord) string {
	if rec.InvoiceNumber != "" {
		return rec.InvoiceNumber
	}
	return fmt.Sprintf("%s|%d|%s", rec.TransactionType, rec.TotalAmount, rec.CreatedOn.UTC().Format(time.RFC3339Nano))
}

// netAmount signs a record's amount: top-ups credit, payments debit.
func netAmount(rec models.TransactionRecord) decimal.Decimal {
	amount := decimal.NewFromInt(rec.TotalAmount)
	if rec.TransactionType == models.TransactionTypePayment {
		return amount.Neg()
	}
	return amount
}

// RecordTransaction mirrors one history record into the cache, carrying a
// running balance across cached records. Returns ErrDuplicateRecord when
// the record key was already cached.
func (s *Service) RecordTransaction(ctx context.Context, rec models.TransactionRecord) (*models.CachedTransaction, error) {
	key := RecordKey(rec)

	var existingId string
	err := s.db.QueryRowContext(ctx, queryCheckDuplicateRecord, key).Scan(&existingId)
	if err == nil {
		return nil, fmt.Errorf("%w: record key %s already cached", ErrDuplicateRecord, key)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check for duplicate record: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin cache transaction: %w", err)
	}
	defer tx.Rollback()

	running := decimal.Zero
	var runningStr string
	err = tx.QueryRowContext(ctx, queryLastRunningBalance).Scan(&runningStr)
	if err == nil {
		running, err = decimal.NewFromString(runningStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse running balance %q: %w", runningStr, err)
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read running balance: %w", err)
	}

	net := netAmount(rec)
	running = running.Add(net)

	cached := &models.CachedTransaction{
		Id:              uuid.New().String(),
		RecordKey:       key,
		InvoiceNumber:   rec.InvoiceNumber,
		TransactionType: rec.TransactionType,
		Description:     rec.Description,
		TotalAmount:     rec.TotalAmount,
		NetAmount:       net,
		RunningBalance:  running,
		CreatedOn:       rec.CreatedOn,
	}

	_, err = tx.ExecContext(ctx, queryInsertTransaction,
		cached.Id, cached.RecordKey, cached.InvoiceNumber, cached.TransactionType,
		cached.Description, cached.TotalAmount, cached.NetAmount.String(),
		cached.RunningBalance.String(), cached.CreatedOn)
	if err != nil {
		// Another process sharing the cache file can insert the same record
		// between the duplicate check and this insert; the UNIQUE constraint
		// on record_key is the authoritative check.
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: record key %s already cached", ErrDuplicateRecord, key)
		}
		return nil, fmt.Errorf("failed to insert cached transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cache transaction: %w", err)
	}

	return cached, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// RecordHistory mirrors a batch of fetched records, skipping already-cached
// ones. Returns the number of newly cached records.
func (s *Service) RecordHistory(ctx context.Context, records []models.TransactionRecord) (int, error) {
	recorded := 0
	for _, rec := range records {
		_, err := s.RecordTransaction(ctx, rec)
		if err != nil {
			if errors.Is(err, ErrDuplicateRecord) {
				continue
			}
			return recorded, err
		}
		recorded++
	}

	if recorded > 0 {
		zap.L().Debug("Cached history records",
			zap.Int("recorded", recorded),
			zap.Int("seen", len(records)))
	}
	return recorded, nil
}

// SaveBalance stores a server-reported balance snapshot.
func (s *Service) SaveBalance(ctx context.Context, balance int64) error {
	_, err := s.db.ExecContext(ctx, queryInsertBalanceSnapshot, uuid.New().String(), balance)
	if err != nil {
		return fmt.Errorf("failed to save balance snapshot: %w", err)
	}
	return nil
}

// LastKnownBalance returns the most recent cached balance snapshot, or
// ErrNoSnapshot when nothing has been cached yet.
func (s *Service) LastKnownBalance(ctx context.Context) (*models.BalanceSnapshot, error) {
	var snap models.BalanceSnapshot
	err := s.db.QueryRowContext(ctx, queryLastBalanceSnapshot).Scan(&snap.Id, &snap.Balance, &snap.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read balance snapshot: %w", err)
	}
	return &snap, nil
}

// Transactions returns cached records, newest first.
func (s *Service) Transactions(ctx context.Context, limit, offset int) ([]models.CachedTransaction, error) {
	rows, err := s.db.QueryContext(ctx, queryGetTransactions, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached transactions: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var cached []models.CachedTransaction
	for rows.Next() {
		var tx models.CachedTransaction
		var netStr, runningStr string
		err := rows.Scan(&tx.Id, &tx.RecordKey, &tx.InvoiceNumber, &tx.TransactionType,
			&tx.Description, &tx.TotalAmount, &netStr, &runningStr,
			&tx.CreatedOn, &tx.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cached transaction: %w", err)
		}

		tx.NetAmount, err = decimal.NewFromString(netStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse net amount %q: %w", netStr, err)
		}
		tx.RunningBalance, err = decimal.NewFromString(runningStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse running balance %q: %w", runningStr, err)
		}

		cached = append(cached, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cached transactions: %w", err)
	}

	return cached, nil
}

// MostRecentCreatedOn returns the newest cached record timestamp, or the
// zero time when the cache is empty.
func (s *Service) MostRecentCreatedOn(ctx context.Context) (time.Time, error) {
	var timestamp sql.NullTime
	err := s.db.QueryRowContext(ctx, queryMostRecentCreatedOn).Scan(&timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read most recent record time: %w", err)
	}
	if !timestamp.Valid {
		return time.Time{}, nil
	}
	return timestamp.Time, nil
}
