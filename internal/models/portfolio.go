package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Position is a hypothetical holding of one catalog instrument.
// A portfolio holds at most one position per instrument.
type Position struct {
	ID           uuid.UUID `json:"id"`
	InstrumentID string    `json:"instrument_id"`
	Shares       float64   `json:"shares"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewPosition creates a new position with generated ID
func NewPosition(instrumentID string, shares float64) *Position {
	now := time.Now().UTC()
	return &Position{
		ID:           uuid.New(),
		InstrumentID: instrumentID,
		Shares:       shares,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ValidateShares rejects non-positive or non-finite share counts
func ValidateShares(shares float64) error {
	if math.IsNaN(shares) || math.IsInf(shares, 0) || shares <= 0 {
		return ErrInvalidShares
	}
	return nil
}

// PositionSummary is a position valued at the latest catalog price
type PositionSummary struct {
	ID           uuid.UUID `json:"id"`
	InstrumentID string    `json:"instrument_id"`
	Ticker       string    `json:"ticker"`
	Name         string    `json:"name"`
	Shares       float64   `json:"shares"`
	Price        float64   `json:"price"`
	Value        float64   `json:"value"`
	Weight       float64   `json:"weight"` // percent of total value
}

// PortfolioSummary values all positions
type PortfolioSummary struct {
	Positions  []PositionSummary `json:"positions"`
	TotalValue float64           `json:"total_value"`
}

// ExportPosition is one row of the portfolio export document
type ExportPosition struct {
	Instrument string  `json:"instrument"`
	Ticker     string  `json:"ticker"`
	Shares     float64 `json:"shares"`
	Value      float64 `json:"value"`
	Weight     float64 `json:"weight"`
}

// PortfolioExport is the downloadable snapshot of a portfolio
type PortfolioExport struct {
	GeneratedAt time.Time          `json:"generated_at"`
	TotalValue  float64            `json:"total_value"`
	Positions   []ExportPosition   `json:"positions"`
	Metrics     *PortfolioMetrics  `json:"metrics"`
	Performance []PerformancePoint `json:"performance"`
}

// FileName returns the suggested download name
func (e *PortfolioExport) FileName() string {
	return "portfolio-" + NewDate(e.GeneratedAt).String() + ".json"
}

// ImportResult counts the positions an import created or changed
type ImportResult struct {
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped,omitempty"`
}
