package common

import (
	"context"
	"log"
	"strings"

	"ppob-wallet-go/internal/auth"
	"ppob-wallet-go/internal/cache"
	"ppob-wallet-go/internal/dispatcher"
	"ppob-wallet-go/internal/gateway"
	"ppob-wallet-go/internal/models"
	"ppob-wallet-go/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

// Services wires the engine together for the command-line tools.
type Services struct {
	Tokens     *auth.FileTokenStore
	Gateway    *gateway.Client
	Store      *store.Store
	Dispatcher *dispatcher.Dispatcher
	Cache      *cache.Service
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	tokens := auth.NewFileTokenStore(cfg.TokenFile)

	gatewayClient, err := gateway.NewClient(cfg.Gateway, tokens)
	if err != nil {
		return nil, err
	}

	cacheService, err := cache.NewService(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	stateStore := store.New()

	return &Services{
		Tokens:     tokens,
		Gateway:    gatewayClient,
		Store:      stateStore,
		Dispatcher: dispatcher.New(gatewayClient, stateStore),
		Cache:      cacheService,
	}, nil
}

// InitializeGatewayOnly builds just the gateway client and token store.
// Used by the login tool, which has no state or cache to manage.
func InitializeGatewayOnly(cfg *models.Config) (*gateway.Client, *auth.FileTokenStore, error) {
	tokens := auth.NewFileTokenStore(cfg.TokenFile)
	gatewayClient, err := gateway.NewClient(cfg.Gateway, tokens)
	if err != nil {
		return nil, nil, err
	}
	return gatewayClient, tokens, nil
}

func (cs *Services) Close() {
	if cs.Cache != nil {
		cs.Cache.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
