// Package storage provides the top-level StorageManager that coordinates
// the 2 storage areas: the ledger database and the derived-result cache.
package storage

import (
	"fmt"

	"github.com/bobmcallan/coinfolio/internal/common"
	"github.com/bobmcallan/coinfolio/internal/interfaces"
	"github.com/bobmcallan/coinfolio/internal/storage/badger"
)

// Manager implements interfaces.StorageManager using 2 storage areas.
type Manager struct {
	ledgerDB *badger.Store
	cacheDB  *badger.Store

	ledger     interfaces.LedgerStore
	portfolios interfaces.PortfolioStore
	users      interfaces.UserStore
	cache      interfaces.CacheStore

	logger *common.Logger
}

// NewManager creates a new StorageManager with the 2 storage areas.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ledgerDB, err := badger.NewStore(logger, config.Storage.Ledger.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger store: %w", err)
	}

	cacheDB, err := badger.NewStore(logger, config.Storage.Cache.Path)
	if err != nil {
		ledgerDB.Close()
		return nil, fmt.Errorf("failed to create cache store: %w", err)
	}

	logger.Info().
		Str("ledger", config.Storage.Ledger.Path).
		Str("cache", config.Storage.Cache.Path).
		Msg("Storage manager initialized (2 areas)")

	return &Manager{
		ledgerDB:   ledgerDB,
		cacheDB:    cacheDB,
		ledger:     badger.NewLedgerStorage(ledgerDB, logger),
		portfolios: badger.NewPortfolioStorage(ledgerDB, logger),
		users:      badger.NewUserStorage(ledgerDB, logger),
		cache:      badger.NewCacheStorage(cacheDB, logger),
		logger:     logger,
	}, nil
}

func (m *Manager) Ledger() interfaces.LedgerStore {
	return m.ledger
}

func (m *Manager) Portfolios() interfaces.PortfolioStore {
	return m.portfolios
}

func (m *Manager) Users() interfaces.UserStore {
	return m.users
}

func (m *Manager) Cache() interfaces.CacheStore {
	return m.cache
}

// Close closes both storage areas; the last error wins.
func (m *Manager) Close() error {
	var lastErr error
	if m.ledgerDB != nil {
		if err := m.ledgerDB.Close(); err != nil {
			lastErr = err
		}
		m.ledgerDB = nil
	}
	if m.cacheDB != nil {
		if err := m.cacheDB.Close(); err != nil {
			lastErr = err
		}
		m.cacheDB = nil
	}
	return lastErr
}

// Ensure Manager implements StorageManager
var _ interfaces.StorageManager = (*Manager)(nil)
