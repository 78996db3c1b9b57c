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

func parseAndValidateFlags() (int64, bool, error) {
	amountFlag := flag.String("amount", "", "Top-up amount in Rupiah (required), e.g. 50000 or 50.000")
	yesFlag := flag.Bool("yes", false, "Skip the confirmation prompt")
	flag.Parse()

	if *amountFlag == "" {
		return 0, false, fmt.Errorf("required flag: --amount")
	}

	amount, err := common.ParseAmount(*amountFlag)
	if err != nil {
		return 0, false, err
	}
	return amount, *yesFlag, nil
}

func printPresets(presetsFile string) {
	presets, err := common.LoadPresetAmounts(presetsFile)
	if err != nil {
		zap.L().Warn("Failed to load preset amounts", zap.Error(err))
		presets = common.DefaultPresetAmounts
	}

	fmt.Println("Nominal cepat:")
	for i, preset := range presets {
		fmt.Printf("%s%s\n", common.BoxPrefix(i == len(presets)-1), common.FormatRupiah(preset))
	}
	fmt.Println()
}

// confirm prompts on stdin. Anything but "y" cancels.
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
		common.PrintHeader("TOP UP BERHASIL", common.DefaultWidth)
		fmt.Printf("%s %s\n", result.Description, common.FormatRupiah(result.Amount))
	} else {
		common.PrintHeader("TOP UP GAGAL", common.DefaultWidth)
		fmt.Printf("%s %s\n", result.Description, common.FormatRupiah(result.Amount))
		fmt.Printf("Alasan: %s\n", result.Reason)
	}
	common.PrintSeparator("=", common.DefaultWidth)
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	amount, skipPrompt, err := parseAndValidateFlags()
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

	common.PrintHeader("TOP UP SALDO", common.DefaultWidth)
	printPresets(cfg.Watcher.PresetsFile)

	flow := workflow.NewTopUpFlow(workflow.Deps{
		Store:      services.Store,
		Dispatcher: services.Dispatcher,
		Navigator:  workflow.NopNavigator{},
	}, amount)

	if err := flow.Begin(); err != nil {
		// Guard violation: the flow is already in its failure state and no
		// network call was made.
		result, _ := flow.Result()
		printResult(result)
		if dismissErr := flow.Dismiss(); dismissErr != nil {
			zap.L().Warn("Failed to dismiss result", zap.Error(dismissErr))
		}
		os.Exit(1)
	}

	if !skipPrompt {
		if !confirm(fmt.Sprintf("%s %s?", flow.Description(), common.FormatRupiah(flow.Amount()))) {
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
