// Package finmath implements the compound growth, return and price series
// statistics used across the application. Every function is pure: no I/O,
// no logging, no validation. Callers reject invalid input beforehand; out of
// domain values produce NaN or Inf rather than an error.
package finmath

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/findosh/finlearn/internal/models"
)

const (
	// TradingPeriodsPerYear annualizes volatility regardless of the sampling frequency
	TradingPeriodsPerYear = 252
	// DaysPerYear converts a series length into elapsed years for CAGR
	DaysPerYear = 365
)

// CompoundGrowth simulates a savings plan with monthly compounding.
// The contribution is paid from the second month on; one breakdown row is
// recorded at the end of every year.
func CompoundGrowth(principal, monthlyContribution, annualRatePercent float64, years int) models.CompoundGrowthResult {
	monthlyRate := annualRatePercent / 100 / 12
	balance := principal
	contributions := principal

	breakdown := make([]models.YearlyBreakdown, 0, max(years, 0))
	for month := 1; month <= years*12; month++ {
		if month > 1 {
			balance += monthlyContribution
			contributions += monthlyContribution
		}
		balance *= 1 + monthlyRate

		if month%12 == 0 {
			interest := balance - contributions
			breakdown = append(breakdown, models.YearlyBreakdown{
				Year:               month / 12,
				Balance:            contributions + interest,
				TotalContributions: contributions,
				TotalInterest:      interest,
			})
		}
	}

	result := models.CompoundGrowthResult{
		FinalAmount:        principal,
		TotalContributions: principal,
		YearlyBreakdown:    breakdown,
	}
	if n := len(breakdown); n > 0 {
		last := breakdown[n-1]
		result.FinalAmount = last.Balance
		result.TotalContributions = last.TotalContributions
		result.TotalInterest = last.TotalInterest
	}
	return result
}

// SimpleReturn returns the percent change from initial to final
func SimpleReturn(initial, final float64) float64 {
	return (final - initial) / initial * 100
}

// CAGR returns the compound annual growth rate in percent
func CAGR(initial, final, years float64) float64 {
	return (math.Pow(final/initial, 1/years) - 1) * 100
}

// RealReturn splits the nominal CAGR into the inflation adjusted return and
// the part eaten by inflation
func RealReturn(initial, final, inflationRate, years float64) models.RealReturnResult {
	nominal := CAGR(initial, final, years)
	adjusted := ((1+nominal/100)/(1+inflationRate/100) - 1) * 100
	return models.RealReturnResult{
		NominalReturn:   nominal,
		RealReturn:      adjusted,
		InflationImpact: nominal - adjusted,
	}
}

// PortfolioMetrics computes total return, CAGR, volatility, max drawdown and
// Sharpe ratio of a chronological close series. Fewer than two points yield
// zero metrics.
func PortfolioMetrics(history []models.PricePoint) models.PortfolioMetrics {
	if len(history) < 2 {
		return models.PortfolioMetrics{}
	}

	first := history[0].Close
	last := history[len(history)-1].Close

	var m models.PortfolioMetrics
	m.TotalReturn = SimpleReturn(first, last)

	years := float64(len(history)) / DaysPerYear
	if years > 0 {
		m.CAGR = CAGR(first, last, years)
	}

	m.Volatility = Volatility(PeriodReturns(history))
	m.MaxDrawdown = MaxDrawdown(history)

	if m.Volatility > 0 {
		m.SharpeRatio = m.CAGR / m.Volatility
	}
	return m
}

// PeriodReturns returns the fractional return between consecutive closes
func PeriodReturns(history []models.PricePoint) []float64 {
	if len(history) < 2 {
		return nil
	}
	returns := make([]float64, len(history)-1)
	for i := 1; i < len(history); i++ {
		prev := history[i-1].Close
		returns[i-1] = (history[i].Close - prev) / prev
	}
	return returns
}

// Volatility annualizes the sample standard deviation of period returns, in percent
func Volatility(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(TradingPeriodsPerYear) * 100
}

// MaxDrawdown returns the worst decline from a running peak, in percent
func MaxDrawdown(history []models.PricePoint) float64 {
	if len(history) == 0 {
		return 0
	}
	peak := history[0].Close
	worst := 0.0
	for _, p := range history {
		if p.Close > peak {
			peak = p.Close
		}
		if peak > 0 {
			if dd := (peak - p.Close) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst * 100
}
