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

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"ppob-wallet-go/internal/models"
)

func Load() (*models.Config, error) {
	requestTimeout, err := getEnvDuration("WALLET_API_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	pollingInterval, err := getEnvDuration("WATCHER_POLLING_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	lookbackWindow, err := getEnvDuration("WATCHER_LOOKBACK_WINDOW", 6*time.Hour)
	if err != nil {
		return nil, err
	}

	cleanupInterval, err := getEnvDuration("WATCHER_CLEANUP_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := getEnvDuration("CACHE_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("CACHE_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("CACHE_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Gateway: models.GatewayConfig{
			BaseURL:        getEnvString("WALLET_API_BASE_URL", "https://take-home-test-api.nutech-integrasi.com"),
			RequestTimeout: requestTimeout,
		},
		Cache: models.CacheConfig{
			Path:            getEnvString("CACHE_DATABASE_PATH", "wallet-session.db"),
			MaxOpenConns:    getEnvInt("CACHE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("CACHE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Watcher: models.WatcherConfig{
			PollingInterval: pollingInterval,
			LookbackWindow:  lookbackWindow,
			CleanupInterval: cleanupInterval,
			PageSize:        getEnvInt("WATCHER_PAGE_SIZE", 50),
			PresetsFile:     getEnvString("PRESETS_FILE", ""),
		},
		TokenFile: getEnvString("TOKEN_FILE", ".wallet-token"),
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
