// Package app wires configuration, storage, clients and services together.
package app

import (
	"fmt"

	"github.com/bobmcallan/coinfolio/internal/clients/coingecko"
	"github.com/bobmcallan/coinfolio/internal/common"
	"github.com/bobmcallan/coinfolio/internal/interfaces"
	"github.com/bobmcallan/coinfolio/internal/server"
	"github.com/bobmcallan/coinfolio/internal/services/history"
	"github.com/bobmcallan/coinfolio/internal/services/holdings"
	"github.com/bobmcallan/coinfolio/internal/storage"
)

// App holds the composed application.
type App struct {
	Config   *common.Config
	Logger   *common.Logger
	Storage  interfaces.StorageManager
	Oracle   interfaces.PriceOracle
	Holdings interfaces.HoldingsService
	History  interfaces.HistoryService
	Server   *server.Server
}

// New loads configuration and builds the full service graph.
func New(configPaths ...string) (*App, error) {
	config, err := common.LoadConfig(configPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)
	logger.Info().
		Str("environment", config.Environment).
		Str("version", common.GetVersion()).
		Msg("Starting coinfolio")

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	oracleOpts := []coingecko.ClientOption{
		coingecko.WithLogger(logger),
		coingecko.WithRateLimit(config.Clients.CoinGecko.RateLimit),
	}
	if config.Clients.CoinGecko.BaseURL != "" {
		oracleOpts = append(oracleOpts, coingecko.WithBaseURL(config.Clients.CoinGecko.BaseURL))
	}
	oracle := coingecko.NewClient(config.Clients.CoinGecko.APIKey, oracleOpts...)

	holdingsService := holdings.NewService(storageManager, oracle, logger)
	historyService := history.NewService(storageManager, oracle, logger).
		WithCacheTTL(config.History.GetCacheTTL())

	srv := server.NewServer(config, logger, storageManager, holdingsService, historyService)

	return &App{
		Config:   config,
		Logger:   logger,
		Storage:  storageManager,
		Oracle:   oracle,
		Holdings: holdingsService,
		History:  historyService,
		Server:   srv,
	}, nil
}

// Close releases application resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
