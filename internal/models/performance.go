package models

// PortfolioMetrics holds aggregate statistics of a price series.
// All fields are percentages except SharpeRatio.
type PortfolioMetrics struct {
	TotalReturn float64 `json:"total_return"`
	CAGR        float64 `json:"cagr"`
	Volatility  float64 `json:"volatility"`  // annualized standard deviation of period returns
	MaxDrawdown float64 `json:"max_drawdown"` // worst peak-to-trough decline
	SharpeRatio float64 `json:"sharpe_ratio"` // CAGR / volatility, risk-free rate zero
}

// PerformancePoint is one retained date of an aggregated portfolio series
type PerformancePoint struct {
	Date        Date    `json:"date"`
	Value       float64 `json:"value"`
	TotalReturn float64 `json:"total_return"` // percent versus the first retained date
}

// PortfolioPerformance is the aggregated history with its metrics.
// Metrics is nil when no date could be aggregated.
type PortfolioPerformance struct {
	History []PerformancePoint `json:"history"`
	Metrics *PortfolioMetrics  `json:"metrics,omitempty"`
}

// PriceSeries turns the aggregated values into a close-only price series
func (p *PortfolioPerformance) PriceSeries() []PricePoint {
	series := make([]PricePoint, len(p.History))
	for i, point := range p.History {
		series[i] = PricePoint{Date: point.Date, Close: point.Value}
	}
	return series
}

// Period selects a trailing window of a price history
type Period string

// Period constants
const (
	Period1Month Period = "1m"
	Period3Month Period = "3m"
	Period6Month Period = "6m"
	Period1Year  Period = "1y"
	Period3Year  Period = "3y"
	PeriodAll    Period = "all"
)

// ParsePeriod maps a query value to a Period, defaulting to PeriodAll
func ParsePeriod(s string) Period {
	switch p := Period(s); p {
	case Period1Month, Period3Month, Period6Month, Period1Year, Period3Year:
		return p
	default:
		return PeriodAll
	}
}

// months returns the window length, 0 for PeriodAll
func (p Period) months() int {
	switch p {
	case Period1Month:
		return 1
	case Period3Month:
		return 3
	case Period6Month:
		return 6
	case Period1Year:
		return 12
	case Period3Year:
		return 36
	default:
		return 0
	}
}

// Window returns the points of history that fall within the period,
// counted back from the last point rather than from today since the
// catalog is static.
func (p Period) Window(history []PricePoint) []PricePoint {
	n := p.months()
	if n == 0 || len(history) == 0 {
		return history
	}
	start := history[len(history)-1].Date.AddDate(0, -n, 0)
	for i, point := range history {
		if !point.Date.Time.Before(start) {
			return history[i:]
		}
	}
	return nil
}
