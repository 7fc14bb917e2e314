// Package analytics aggregates portfolio positions over the instrument
// catalog and derives valuation and performance figures.
package analytics

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/findosh/finlearn/internal/finmath"
	"github.com/findosh/finlearn/internal/models"
)

// InstrumentLookup resolves catalog instruments by ID
type InstrumentLookup interface {
	Instrument(id string) (*models.Instrument, bool)
}

// Service provides portfolio analytics calculations
type Service struct {
	instruments InstrumentLookup
	log         zerolog.Logger
}

// NewService creates a new analytics service
func NewService(instruments InstrumentLookup, log zerolog.Logger) *Service {
	return &Service{
		instruments: instruments,
		log:         log.With().Str("component", "analytics").Logger(),
	}
}

// holding is a position resolved against the catalog
type holding struct {
	position   *models.Position
	instrument *models.Instrument
	prices     map[string]float64
}

func (s *Service) resolve(positions []*models.Position) ([]holding, error) {
	holdings := make([]holding, 0, len(positions))
	seen := make(map[string]bool, len(positions))

	for _, p := range positions {
		if seen[p.InstrumentID] {
			return nil, fmt.Errorf("%s: %w", p.InstrumentID, models.ErrDuplicatePosition)
		}
		seen[p.InstrumentID] = true

		inst, ok := s.instruments.Instrument(p.InstrumentID)
		if !ok {
			return nil, fmt.Errorf("%s: %w", p.InstrumentID, models.ErrUnknownInstrument)
		}
		holdings = append(holdings, holding{position: p, instrument: inst})
	}
	return holdings, nil
}

// Aggregate sums the value of all positions on every date where each
// position has a close price. Dates missing a price for any position, or
// whose total is not positive, are skipped. TotalReturn is measured against
// the first retained date.
func (s *Service) Aggregate(positions []*models.Position) ([]models.PerformancePoint, error) {
	holdings, err := s.resolve(positions)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return []models.PerformancePoint{}, nil
	}

	dates := make(map[string]models.Date)
	for i := range holdings {
		h := &holdings[i]
		h.prices = make(map[string]float64, len(h.instrument.PriceHistory))
		for _, p := range h.instrument.PriceHistory {
			key := p.Date.String()
			h.prices[key] = p.Close
			dates[key] = p.Date
		}
	}

	keys := make([]string, 0, len(dates))
	for key := range dates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	history := make([]models.PerformancePoint, 0, len(keys))
	skipped := 0
	var baseline float64

	for _, key := range keys {
		total, complete := 0.0, true
		for _, h := range holdings {
			price, ok := h.prices[key]
			if !ok {
				complete = false
				break
			}
			total += price * h.position.Shares
		}
		if !complete || total <= 0 {
			skipped++
			continue
		}

		if len(history) == 0 {
			baseline = total
		}
		history = append(history, models.PerformancePoint{
			Date:        dates[key],
			Value:       total,
			TotalReturn: (total - baseline) / baseline * 100,
		})
	}

	s.log.Debug().
		Int("positions", len(holdings)).
		Int("dates", len(history)).
		Int("skipped", skipped).
		Msg("Aggregated portfolio history")

	return history, nil
}

// Performance returns the aggregated history with its metrics. Metrics are
// omitted when no date could be aggregated.
func (s *Service) Performance(positions []*models.Position) (*models.PortfolioPerformance, error) {
	history, err := s.Aggregate(positions)
	if err != nil {
		return nil, err
	}

	perf := &models.PortfolioPerformance{History: history}
	if len(history) > 0 {
		metrics := finmath.PortfolioMetrics(perf.PriceSeries())
		perf.Metrics = &metrics
	}
	return perf, nil
}

// Summarize values every position at the latest catalog close and computes
// its weight in percent of the total
func (s *Service) Summarize(positions []*models.Position) (*models.PortfolioSummary, error) {
	holdings, err := s.resolve(positions)
	if err != nil {
		return nil, err
	}

	values := make([]decimal.Decimal, len(holdings))
	total := decimal.Zero
	for i, h := range holdings {
		values[i] = decimal.NewFromFloat(h.instrument.LatestPrice()).Mul(decimal.NewFromFloat(h.position.Shares))
		total = total.Add(values[i])
	}

	hundred := decimal.NewFromInt(100)
	summary := &models.PortfolioSummary{
		Positions:  make([]models.PositionSummary, 0, len(holdings)),
		TotalValue: total.Round(2).InexactFloat64(),
	}
	for i, h := range holdings {
		weight := decimal.Zero
		if total.IsPositive() {
			weight = values[i].Div(total).Mul(hundred)
		}
		summary.Positions = append(summary.Positions, models.PositionSummary{
			ID:           h.position.ID,
			InstrumentID: h.instrument.ID,
			Ticker:       h.instrument.Ticker,
			Name:         h.instrument.Name,
			Shares:       h.position.Shares,
			Price:        h.instrument.LatestPrice(),
			Value:        values[i].Round(2).InexactFloat64(),
			Weight:       weight.Round(2).InexactFloat64(),
		})
	}
	return summary, nil
}

// InstrumentMetrics computes the metrics of one instrument's price history
// restricted to the given period
func (s *Service) InstrumentMetrics(id string, period models.Period) (*models.PortfolioMetrics, error) {
	inst, ok := s.instruments.Instrument(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, models.ErrUnknownInstrument)
	}
	metrics := finmath.PortfolioMetrics(period.Window(inst.PriceHistory))
	return &metrics, nil
}
