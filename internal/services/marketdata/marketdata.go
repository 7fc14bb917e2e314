package marketdata

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/findosh/finlearn/internal/models"
	"github.com/findosh/finlearn/internal/services/analytics"
)

// Quote is the latest bar of a catalog instrument
type Quote struct {
	InstrumentID  string          `json:"instrument_id"`
	Ticker        string          `json:"ticker"`
	Currency      string          `json:"currency"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Volume        int64           `json:"volume"`
	AsOf          models.Date     `json:"as_of"`
	LastUpdated   time.Time       `json:"last_updated"`
}

// Service serves quotes derived from the static catalog
type Service struct {
	instruments analytics.InstrumentLookup
	cache       map[string]*Quote
	cacheTTL    time.Duration
	mu          sync.RWMutex
	now         func() time.Time
}

// Config holds service configuration
type Config struct {
	CacheTTL time.Duration
}

// NewService creates a new market data service
func NewService(instruments analytics.InstrumentLookup, cfg Config) *Service {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	return &Service{
		instruments: instruments,
		cache:       make(map[string]*Quote),
		cacheTTL:    cfg.CacheTTL,
		now:         time.Now,
	}
}

// GetQuote returns the quote of one instrument
func (s *Service) GetQuote(id string) (*Quote, error) {
	s.mu.RLock()
	if cached, ok := s.cache[id]; ok {
		if s.now().Sub(cached.LastUpdated) < s.cacheTTL {
			s.mu.RUnlock()
			return cached, nil
		}
	}
	s.mu.RUnlock()

	inst, ok := s.instruments.Instrument(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, models.ErrUnknownInstrument)
	}
	quote := s.buildQuote(inst)

	s.mu.Lock()
	s.cache[id] = quote
	s.mu.Unlock()

	return quote, nil
}

// GetQuotes returns quotes keyed by instrument ID. Unknown IDs fail the
// whole request.
func (s *Service) GetQuotes(ids []string) (map[string]*Quote, error) {
	quotes := make(map[string]*Quote, len(ids))
	for _, id := range ids {
		quote, err := s.GetQuote(id)
		if err != nil {
			return nil, err
		}
		quotes[id] = quote
	}
	return quotes, nil
}

func (s *Service) buildQuote(inst *models.Instrument) *Quote {
	quote := &Quote{
		InstrumentID: inst.ID,
		Ticker:       inst.Ticker,
		Currency:     inst.Currency,
		LastUpdated:  s.now(),
	}
	if len(inst.PriceHistory) == 0 {
		return quote
	}

	last := inst.PriceHistory[len(inst.PriceHistory)-1]
	quote.Price = decimal.NewFromFloat(last.Close)
	quote.Open = decimal.NewFromFloat(last.Open)
	quote.High = decimal.NewFromFloat(last.High)
	quote.Low = decimal.NewFromFloat(last.Low)
	quote.Volume = last.Volume
	quote.AsOf = last.Date

	if len(inst.PriceHistory) > 1 {
		prev := decimal.NewFromFloat(inst.PreviousPrice())
		change := quote.Price.Sub(prev)
		quote.Change = change.Round(2)
		if !prev.IsZero() {
			quote.ChangePercent = change.Div(prev).Mul(decimal.NewFromInt(100)).Round(2)
		}
	}
	return quote
}
