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
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"ppob-wallet-go/internal/common"
	"ppob-wallet-go/internal/config"
	"ppob-wallet-go/internal/workflow"

	"go.uber.org/zap"
)

func parseAndValidateFlags() (string, bool, error) {
	serviceFlag := flag.String("service", "", "Service code to pay for (required), e.g. PULSA, PLN")
	yesFlag := flag.Bool("yes", false, "Skip the confirmation prompt")
	flag.Parse()

	if *serviceFlag == "" {
		return "", false, fmt.Errorf("required flag: --service")
	}
	return strings.ToUpper(strings.TrimSpace(*serviceFlag)), *yesFlag, nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func printResult(result workflow.Result) {
	if result.Success {
		common.PrintHeader("PEMBAYARAN BERHASIL", common.DefaultWidth)
		fmt.Printf("%s %s\n", result.Description, common.FormatRupiah(result.Amount))
	} else {
		common.PrintHeader("PEMBAYARAN GAGAL", common.DefaultWidth)
		if result.Description != "" {
			fmt.Printf("%s %s\n", result.Description, common.FormatRupiah(result.Amount))
		}
		fmt.Printf("Alasan: %s\n", result.Reason)
	}
	common.PrintSeparator("=", common.DefaultWidth)
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	serviceCode, skipPrompt, err := parseAndValidateFlags()
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

	// The payment guard resolves the service from the catalog and checks the
	// balance, so both must be fresh before the flow begins.
	if outcome := services.Dispatcher.FetchServices(ctx); outcome.Failed() {
		zap.L().Fatal("Failed to fetch service catalog", zap.Error(outcome.Err))
	}
	if outcome := services.Dispatcher.FetchBalance(ctx); outcome.Failed() {
		zap.L().Fatal("Failed to fetch balance", zap.Error(outcome.Err))
	}

	flow := workflow.NewPaymentFlow(workflow.Deps{
		Store:      services.Store,
		Dispatcher: services.Dispatcher,
		Navigator:  workflow.NopNavigator{},
	}, serviceCode)

	if err := flow.Begin(); err != nil {
		result, _ := flow.Result()
		printResult(result)
		if dismissErr := flow.Dismiss(); dismissErr != nil {
			zap.L().Warn("Failed to dismiss result", zap.Error(dismissErr))
		}
		os.Exit(1)
	}

	common.PrintHeader("KONFIRMASI PEMBAYARAN", common.DefaultWidth)
	fmt.Printf("Saldo anda: %s\n", common.FormatRupiah(services.Store.Balance()))
	fmt.Printf("%s %s\n\n", flow.Description(), common.FormatRupiah(flow.Amount()))

	if !skipPrompt {
		if !confirm("Lanjutkan pembayaran?") {
			if err := flow.Cancel(); err != nil {
				zap.L().Warn("Failed to cancel flow", zap.Error(err))
			}
			fmt.Println("Dibatalkan.")
			return
		}
	}

	result := flow.Confirm(ctx)
	printResult(result)

	if result.Success {
		if result.BalanceStale {
			fmt.Println("Saldo belum dapat diperbarui, silakan buka halaman utama.")
		} else {
			fmt.Printf("Saldo anda: %s\n", common.FormatRupiah(services.Store.Balance()))
			if err := services.Cache.SaveBalance(ctx, services.Store.Balance()); err != nil {
				zap.L().Warn("Failed to snapshot balance", zap.Error(err))
			}
		}
	}

	if err := flow.Dismiss(); err != nil {
		zap.L().Warn("Failed to dismiss result", zap.Error(err))
	}

	if !result.Success {
		os.Exit(1)
	}
}
