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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"ppob-wallet-go/internal/common"
	"ppob-wallet-go/internal/config"
	"ppob-wallet-go/internal/history"

	"go.uber.org/zap"
)

type historyRequest struct {
	month string
	pages int
	limit int
}

func parseAndValidateFlags() (*historyRequest, error) {
	monthFlag := flag.String("month", "", "Filter by Indonesian month name, e.g. Januari")
	pagesFlag := flag.Int("pages", 1, "Number of pages to accumulate")
	limitFlag := flag.Int("limit", 5, "Records per page (0 lets the server decide)")
	flag.Parse()

	if *pagesFlag < 1 {
		return nil, fmt.Errorf("--pages must be at least 1")
	}
	if *limitFlag < 0 {
		return nil, fmt.Errorf("--limit cannot be negative")
	}

	if *monthFlag != "" {
		valid := false
		for _, m := range history.Months {
			if strings.EqualFold(m, *monthFlag) {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("unknown month %q, expected one of %s",
				*monthFlag, strings.Join(history.Months[:], ", "))
		}
	}

	return &historyRequest{
		month: *monthFlag,
		pages: *pagesFlag,
		limit: *limitFlag,
	}, nil
}

// accumulate fetches the requested number of pages, advancing the offset by
// the number of records fetched so far. A short page ends the accumulation.
func accumulate(ctx context.Context, services *common.Services, req *historyRequest) error {
	var limit *int
	if req.limit > 0 {
		limit = &req.limit
	}

	for page := 0; page < req.pages; page++ {
		offset := len(services.Store.History().Records)
		outcome := services.Dispatcher.FetchHistory(ctx, offset, limit)
		if outcome.Failed() {
			return outcome.Err
		}

		fetched := len(services.Store.History().Records) - offset
		if fetched == 0 || (limit != nil && fetched < *limit) {
			break
		}
	}
	return nil
}

func printRecords(view *history.View) {
	records := view.Records()
	if len(records) == 0 {
		if month, ok := view.Selected(); ok {
			fmt.Printf("Tidak ada transaksi pada bulan %s.\n", month)
		} else {
			fmt.Println("Belum ada transaksi.")
		}
		return
	}

	for i, rec := range records {
		fmt.Printf("%s%s%s  %-10s %s\n",
			common.BoxPrefix(i == len(records)-1),
			common.TransactionSign(rec.TransactionType),
			common.FormatRupiah(rec.TotalAmount),
			rec.TransactionType,
			common.FormatDate(rec.CreatedOn))
		if rec.Description != "" {
			fmt.Printf("   %s\n", rec.Description)
		}
	}
}

func printActiveMonths(view *history.View) {
	active := view.ActiveMonths()
	if len(active) == 0 {
		return
	}

	var months []string
	for _, m := range history.Months {
		if active[m] {
			months = append(months, m)
		}
	}
	fmt.Printf("\nBulan dengan transaksi: %s\n", strings.Join(months, ", "))
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	req, err := parseAndValidateFlags()
	if err != nil {
		zap.L().Fatal("Invalid flags", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	view := history.NewView(services.Store)

	// Entering the history view always starts from a clean accumulation,
	// and leaving tears it down again.
	view.Reset()
	defer view.Reset()

	if err := accumulate(ctx, services, req); err != nil {
		common.PrintHeader("RIWAYAT TRANSAKSI", common.DefaultWidth)
		fmt.Printf("Error: %s\n", services.Store.Status().Message)
		common.PrintSeparator("=", common.DefaultWidth)
		zap.L().Error("History fetch failed", zap.Error(err))
		os.Exit(1)
	}

	if req.month != "" {
		view.Toggle(req.month)
	}

	// Mirror the fetched records into the session cache.
	fetched := services.Store.History().Records
	if recorded, err := services.Cache.RecordHistory(ctx, fetched); err != nil {
		zap.L().Warn("Failed to cache history records", zap.Error(err))
	} else if recorded > 0 {
		zap.L().Info("Cached new transactions", zap.Int("new", recorded))
	}

	common.PrintHeader("RIWAYAT TRANSAKSI", common.DefaultWidth)
	if month, ok := view.Selected(); ok {
		fmt.Printf("Filter: %s\n\n", month)
	}
	printRecords(view)
	printActiveMonths(view)
	common.PrintSeparator("=", common.DefaultWidth)
}
