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
	"errors"
	"fmt"
	"sync"

	"ppob-wallet-go/internal/cache"
	"ppob-wallet-go/internal/common"
	"ppob-wallet-go/internal/config"
	"ppob-wallet-go/internal/models"

	"go.uber.org/zap"
)

// fetchDashboard fans out the four home-screen fetches. Banner and service
// failures are tolerated; a balance failure falls back to the cached snapshot.
func fetchDashboard(ctx context.Context, services *common.Services) (*models.Profile, bool) {
	var (
		wg         sync.WaitGroup
		profile    *models.Profile
		balanceOK  = true
		profileErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		profile, profileErr = services.Gateway.GetProfile(ctx)
	}()
	go func() {
		defer wg.Done()
		if outcome := services.Dispatcher.FetchBalance(ctx); outcome.Failed() {
			balanceOK = false
		}
	}()
	go func() {
		defer wg.Done()
		if outcome := services.Dispatcher.FetchBanners(ctx); outcome.Failed() {
			zap.L().Warn("Banner fetch failed", zap.Error(outcome.Err))
		}
	}()
	go func() {
		defer wg.Done()
		if outcome := services.Dispatcher.FetchServices(ctx); outcome.Failed() {
			zap.L().Warn("Service catalog fetch failed", zap.Error(outcome.Err))
		}
	}()
	wg.Wait()

	if profileErr != nil {
		zap.L().Fatal("Failed to fetch profile; is the session token still valid?", zap.Error(profileErr))
	}

	return profile, balanceOK
}

func printBalance(ctx context.Context, services *common.Services, balanceOK bool) {
	if balanceOK {
		balance := services.Dispatcher.Store().Balance()
		fmt.Printf("Saldo anda: %s\n", common.FormatRupiah(balance))

		if err := services.Cache.SaveBalance(ctx, balance); err != nil {
			zap.L().Warn("Failed to snapshot balance", zap.Error(err))
		}
		return
	}

	// Fresh balance unavailable; show the last snapshot if the session
	// cache has one.
	snapshot, err := services.Cache.LastKnownBalance(ctx)
	if err != nil {
		if !errors.Is(err, cache.ErrNoSnapshot) {
			zap.L().Warn("Failed to read balance snapshot", zap.Error(err))
		}
		fmt.Println("Saldo anda: (tidak tersedia)")
		return
	}
	fmt.Printf("Saldo anda: %s (terakhir diketahui %s)\n",
		common.FormatRupiah(snapshot.Balance), common.FormatDate(snapshot.FetchedAt))
}

func printCatalog(services *common.Services) {
	banners := services.Dispatcher.Store().Banners()
	if len(banners) > 0 {
		fmt.Println("\nTemukan promo menarik")
		for i, banner := range banners {
			fmt.Printf("%s%s\n", common.BoxPrefix(i == len(banners)-1), banner.BannerName)
		}
	}

	catalog := services.Dispatcher.Store().Services()
	if len(catalog) > 0 {
		fmt.Println("\nLayanan tersedia")
		for i, svc := range catalog {
			fmt.Printf("%s%-12s %-28s %s\n",
				common.BoxPrefix(i == len(catalog)-1),
				svc.ServiceCode, svc.ServiceName, common.FormatRupiah(svc.ServiceTariff))
		}
	}
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	profile, balanceOK := fetchDashboard(ctx, services)

	common.PrintHeader("SIMS PPOB", common.DefaultWidth)
	fmt.Printf("Selamat datang, %s %s\n\n", profile.FirstName, profile.LastName)
	printBalance(ctx, services, balanceOK)
	printCatalog(services)
	common.PrintSeparator("=", common.DefaultWidth)
}
