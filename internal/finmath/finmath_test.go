package finmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findosh/finlearn/internal/models"
)

func series(closes ...float64) []models.PricePoint {
	start := models.MustParseDate("2024-01-01")
	points := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = models.PricePoint{Date: models.NewDate(start.AddDate(0, 0, i)), Close: c}
	}
	return points
}

func TestCompoundGrowth_Identity(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		monthly   float64
		rate      float64
		years     int
	}{
		{"savings plan", 10000, 500, 7, 20},
		{"no contribution", 5000, 0, 3.5, 10},
		{"no principal", 0, 250, 6, 30},
		{"one year", 1000, 100, 12, 1},
		{"tiny rate", 1234.56, 78.9, 0.01, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CompoundGrowth(tt.principal, tt.monthly, tt.rate, tt.years)

			assert.Equal(t, result.TotalContributions+result.TotalInterest, result.FinalAmount)
			require.Len(t, result.YearlyBreakdown, tt.years)

			prev := -1.0
			for i, row := range result.YearlyBreakdown {
				assert.Equal(t, i+1, row.Year)
				assert.Equal(t, row.TotalContributions+row.TotalInterest, row.Balance)
				assert.GreaterOrEqual(t, row.TotalContributions, prev)
				prev = row.TotalContributions
			}
		})
	}
}

func TestCompoundGrowth_Values(t *testing.T) {
	result := CompoundGrowth(1000, 0, 12, 1)
	assert.InDelta(t, 1000*math.Pow(1.01, 12), result.FinalAmount, 1e-9)
	assert.Equal(t, 1000.0, result.TotalContributions)

	// first month carries no contribution: 11 payments in year one
	result = CompoundGrowth(0, 100, 6, 1)
	assert.InDelta(t, 1100.0, result.TotalContributions, 1e-9)
	assert.Greater(t, result.TotalInterest, 0.0)

	result = CompoundGrowth(0, 100, 6, 2)
	assert.InDelta(t, 2300.0, result.TotalContributions, 1e-9)
	assert.InDelta(t, 1100.0, result.YearlyBreakdown[0].TotalContributions, 1e-9)
}

func TestCompoundGrowth_Idempotent(t *testing.T) {
	a := CompoundGrowth(10000, 500, 7, 25)
	b := CompoundGrowth(10000, 500, 7, 25)
	assert.Equal(t, a, b)
}

func TestSimpleReturn(t *testing.T) {
	assert.Equal(t, 25.0, SimpleReturn(10000, 12500))
	assert.Equal(t, -50.0, SimpleReturn(200, 100))
	assert.Equal(t, SimpleReturn(3, 7), SimpleReturn(3, 7))
	assert.True(t, math.IsInf(SimpleReturn(0, 100), 1))
}

func TestCAGR(t *testing.T) {
	assert.InDelta(t, 10.0, CAGR(10000, 16105.1, 5), 1e-4)
	assert.InDelta(t, 0.0, CAGR(500, 500, 3), 1e-12)
	assert.InDelta(t, 100.0, CAGR(100, 200, 1), 1e-9)
	assert.Equal(t, CAGR(10000, 15000, 5), CAGR(10000, 15000, 5))
	assert.True(t, math.IsNaN(CAGR(100, -50, 2)))
}

func TestRealReturn(t *testing.T) {
	result := RealReturn(10000, 15000, 2.5, 5)

	assert.InDelta(t, CAGR(10000, 15000, 5), result.NominalReturn, 1e-12)
	assert.Equal(t, result.NominalReturn-result.RealReturn, result.InflationImpact)
	assert.Less(t, result.RealReturn, result.NominalReturn)

	expected := ((1+result.NominalReturn/100)/1.025 - 1) * 100
	assert.InDelta(t, expected, result.RealReturn, 1e-12)

	deflation := RealReturn(10000, 15000, -1, 5)
	assert.Greater(t, deflation.RealReturn, deflation.NominalReturn)
	assert.Equal(t, result, RealReturn(10000, 15000, 2.5, 5))
}

func TestPortfolioMetrics_Degenerate(t *testing.T) {
	assert.Equal(t, models.PortfolioMetrics{}, PortfolioMetrics(nil))
	assert.Equal(t, models.PortfolioMetrics{}, PortfolioMetrics(series()))
	assert.Equal(t, models.PortfolioMetrics{}, PortfolioMetrics(series(100)))
}

func TestPortfolioMetrics_MaxDrawdown(t *testing.T) {
	tests := []struct {
		name     string
		closes   []float64
		expected float64
	}{
		{"monotone increase", []float64{100, 101, 105, 110, 130}, 0},
		{"dip and recovery", []float64{100, 50, 100}, 50},
		{"later deeper trough", []float64{100, 90, 120, 60, 150}, 50},
		{"steady decline", []float64{200, 150, 100}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := PortfolioMetrics(series(tt.closes...))
			assert.InDelta(t, tt.expected, m.MaxDrawdown, 1e-9)
		})
	}
}

func TestPortfolioMetrics_Values(t *testing.T) {
	history := series(100, 110, 99, 121)
	m := PortfolioMetrics(history)

	assert.InDelta(t, 21.0, m.TotalReturn, 1e-9)
	assert.InDelta(t, CAGR(100, 121, 4.0/365), m.CAGR, 1e-6)

	returns := []float64{0.1, -0.1, 121.0/99 - 1}
	mean := (returns[0] + returns[1] + returns[2]) / 3
	var ss float64
	for _, r := range returns {
		ss += (r - mean) * (r - mean)
	}
	expectedVol := math.Sqrt(ss/2) * math.Sqrt(252) * 100
	assert.InDelta(t, expectedVol, m.Volatility, 1e-9)
	assert.InDelta(t, 10.0, m.MaxDrawdown, 1e-9)
	assert.InDelta(t, m.CAGR/m.Volatility, m.SharpeRatio, 1e-12)
}

func TestPortfolioMetrics_FlatSeries(t *testing.T) {
	m := PortfolioMetrics(series(100, 100, 100))

	assert.Equal(t, 0.0, m.TotalReturn)
	assert.Equal(t, 0.0, m.Volatility)
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.Equal(t, 0.0, m.MaxDrawdown)
}

func TestPortfolioMetrics_TwoPoints(t *testing.T) {
	m := PortfolioMetrics(series(100, 110))

	assert.InDelta(t, 10.0, m.TotalReturn, 1e-9)
	assert.Equal(t, 0.0, m.Volatility)
	assert.Equal(t, 0.0, m.SharpeRatio)
}

func TestPeriodReturns(t *testing.T) {
	assert.Nil(t, PeriodReturns(series(100)))
	returns := PeriodReturns(series(100, 150, 75))
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.5, returns[0], 1e-12)
	assert.InDelta(t, -0.5, returns[1], 1e-12)
}
