// Package portfolio manages the single local hypothetical portfolio.
package portfolio

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/findosh/finlearn/internal/models"
	"github.com/findosh/finlearn/internal/services/analytics"
	"github.com/findosh/finlearn/internal/services/importer"
	"github.com/findosh/finlearn/internal/storage"
)

// Store persists positions
type Store interface {
	storage.PositionStore
}

// Service implements the portfolio builder operations
type Service struct {
	store       Store
	instruments analytics.InstrumentLookup
	analytics   *analytics.Service
	log         zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(store Store, instruments analytics.InstrumentLookup, analyticsSvc *analytics.Service, log zerolog.Logger) *Service {
	return &Service{
		store:       store,
		instruments: instruments,
		analytics:   analyticsSvc,
		log:         log.With().Str("component", "portfolio").Logger(),
	}
}

// AddPosition adds a catalog instrument to the portfolio. Each instrument
// may be held by one position only.
func (s *Service) AddPosition(instrumentID string, shares float64) (*models.Position, error) {
	if err := models.ValidateShares(shares); err != nil {
		return nil, err
	}
	if _, ok := s.instruments.Instrument(instrumentID); !ok {
		return nil, fmt.Errorf("%s: %w", instrumentID, models.ErrUnknownInstrument)
	}

	existing, err := s.store.GetByInstrumentID(instrumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing position: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%s: %w", instrumentID, models.ErrDuplicatePosition)
	}

	p := models.NewPosition(instrumentID, shares)
	if err := s.store.Create(p); err != nil {
		return nil, fmt.Errorf("failed to save position: %w", err)
	}

	s.log.Info().
		Str("position_id", p.ID.String()).
		Str("instrument", instrumentID).
		Float64("shares", shares).
		Msg("Position added")
	return p, nil
}

// UpdateShares changes the share count of an existing position
func (s *Service) UpdateShares(id uuid.UUID, shares float64) (*models.Position, error) {
	if err := models.ValidateShares(shares); err != nil {
		return nil, err
	}
	if err := s.store.UpdateShares(id, shares); err != nil {
		return nil, fmt.Errorf("failed to update position: %w", err)
	}

	p, err := s.store.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load position: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%s: %w", id, models.ErrPositionNotFound)
	}

	s.log.Info().Str("position_id", id.String()).Float64("shares", shares).Msg("Position updated")
	return p, nil
}

// Import applies rows read from a CSV export in one transaction. Instruments
// already held take the imported share count, the others are added as new
// positions. Unknown instruments and invalid share counts are skipped; any
// storage failure leaves the portfolio unchanged.
func (s *Service) Import(rows []importer.Row) (*models.ImportResult, error) {
	var result *models.ImportResult
	err := s.store.WithTx(func(tx storage.PositionStore) error {
		txSvc := *s
		txSvc.store = tx
		var err error
		result, err = txSvc.applyImport(rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import portfolio: %w", err)
	}

	s.log.Info().
		Int("added", result.Added).
		Int("updated", result.Updated).
		Int("skipped", len(result.Skipped)).
		Msg("Portfolio imported")
	return result, nil
}

func (s *Service) applyImport(rows []importer.Row) (*models.ImportResult, error) {
	result := &models.ImportResult{}
	for _, row := range rows {
		existing, err := s.store.GetByInstrumentID(row.InstrumentID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing position: %w", err)
		}

		if existing != nil {
			if _, err := s.UpdateShares(existing.ID, row.Shares); err != nil {
				return nil, err
			}
			result.Updated++
			continue
		}

		if _, err := s.AddPosition(row.InstrumentID, row.Shares); err != nil {
			if errors.Is(err, models.ErrUnknownInstrument) || errors.Is(err, models.ErrInvalidShares) {
				result.Skipped = append(result.Skipped, fmt.Sprintf("line %d: %v", row.Line, err))
				continue
			}
			return nil, err
		}
		result.Added++
	}
	return result, nil
}

// RemovePosition deletes one position
func (s *Service) RemovePosition(id uuid.UUID) error {
	if err := s.store.Delete(id); err != nil {
		return fmt.Errorf("failed to remove position: %w", err)
	}
	s.log.Info().Str("position_id", id.String()).Msg("Position removed")
	return nil
}

// Clear removes all positions
func (s *Service) Clear() error {
	if err := s.store.DeleteAll(); err != nil {
		return fmt.Errorf("failed to clear portfolio: %w", err)
	}
	s.log.Info().Msg("Portfolio cleared")
	return nil
}

// Positions returns all positions in the order they were added
func (s *Service) Positions() ([]*models.Position, error) {
	positions, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}

// Summary values the portfolio at the latest catalog prices
func (s *Service) Summary() (*models.PortfolioSummary, error) {
	positions, err := s.Positions()
	if err != nil {
		return nil, err
	}
	return s.analytics.Summarize(positions)
}

// Performance aggregates the portfolio history and its metrics
func (s *Service) Performance() (*models.PortfolioPerformance, error) {
	positions, err := s.Positions()
	if err != nil {
		return nil, err
	}
	return s.analytics.Performance(positions)
}

// Export builds the downloadable snapshot of the portfolio
func (s *Service) Export(now time.Time) (*models.PortfolioExport, error) {
	positions, err := s.Positions()
	if err != nil {
		return nil, err
	}

	summary, err := s.analytics.Summarize(positions)
	if err != nil {
		return nil, err
	}
	perf, err := s.analytics.Performance(positions)
	if err != nil {
		return nil, err
	}

	export := &models.PortfolioExport{
		GeneratedAt: now.UTC(),
		TotalValue:  summary.TotalValue,
		Positions:   make([]models.ExportPosition, 0, len(summary.Positions)),
		Metrics:     perf.Metrics,
		Performance: perf.History,
	}
	for _, p := range summary.Positions {
		export.Positions = append(export.Positions, models.ExportPosition{
			Instrument: p.Name,
			Ticker:     p.Ticker,
			Shares:     p.Shares,
			Value:      p.Value,
			Weight:     p.Weight,
		})
	}
	return export, nil
}
