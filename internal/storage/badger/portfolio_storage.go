package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/coinfolio/internal/common"
	"github.com/bobmcallan/coinfolio/internal/models"
)

type portfolioStorage struct {
	store  *Store
	logger *common.Logger
}

// NewPortfolioStorage creates a new PortfolioStore backed by BadgerHold.
func NewPortfolioStorage(store *Store, logger *common.Logger) *portfolioStorage {
	return &portfolioStorage{store: store, logger: logger}
}

func (s *portfolioStorage) SavePortfolio(_ context.Context, p *models.Portfolio) error {
	if err := s.store.db.Upsert(p.ID, p); err != nil {
		return fmt.Errorf("failed to save portfolio '%s': %w", p.ID, err)
	}
	s.logger.Debug().Str("id", p.ID).Str("name", p.Name).Msg("Portfolio saved")
	return nil
}

func (s *portfolioStorage) GetPortfolio(_ context.Context, id string) (*models.Portfolio, error) {
	var p models.Portfolio
	err := s.store.db.Get(id, &p)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get portfolio '%s': %w", id, err)
	}
	return &p, nil
}

func (s *portfolioStorage) ListPortfolios(_ context.Context, userID string) ([]*models.Portfolio, error) {
	var portfolios []*models.Portfolio
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID")
	if err := s.store.db.Find(&portfolios, query); err != nil {
		return nil, fmt.Errorf("failed to list portfolios for user '%s': %w", userID, err)
	}
	sort.Slice(portfolios, func(i, j int) bool {
		return portfolios[i].CreatedAt.Before(portfolios[j].CreatedAt)
	})
	return portfolios, nil
}

func (s *portfolioStorage) DeletePortfolio(_ context.Context, id string) error {
	err := s.store.db.Delete(id, models.Portfolio{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete portfolio '%s': %w", id, err)
	}
	// Remove the portfolio's ledger entries as well.
	delQuery := badgerhold.Where("PortfolioID").Eq(id).Index("PortfolioID")
	if err := s.store.db.DeleteMatching(models.Transaction{}, delQuery); err != nil {
		return fmt.Errorf("failed to delete transactions for portfolio '%s': %w", id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Portfolio deleted")
	return nil
}
