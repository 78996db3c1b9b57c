package models

import "time"

// Config represents the application configuration
type Config struct {
	Gateway   GatewayConfig
	Cache     CacheConfig
	Watcher   WatcherConfig
	TokenFile string
}

// GatewayConfig holds remote wallet gateway settings
type GatewayConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// CacheConfig holds session ledger cache settings
type CacheConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// WatcherConfig holds history watcher settings
type WatcherConfig struct {
	PollingInterval time.Duration
	LookbackWindow  time.Duration
	CleanupInterval time.Duration
	PageSize        int
	PresetsFile     string
}
