package models

import "math"

// MaxYears bounds the horizon of every calculator
const MaxYears = 100

// CompoundGrowthInput holds the savings plan parameters
type CompoundGrowthInput struct {
	Principal           float64 `json:"principal"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	AnnualRatePercent   float64 `json:"annual_rate"`
	Years               int     `json:"years"`
}

// Validate rejects inputs the simulator does not handle.
// A zero rate is rejected here even though the arithmetic would cope.
func (in CompoundGrowthInput) Validate() error {
	if !isFinite(in.Principal) || in.Principal < 0 {
		return ErrInvalidPrincipal
	}
	if !isFinite(in.MonthlyContribution) || in.MonthlyContribution < 0 {
		return ErrInvalidContribution
	}
	if !isFinite(in.AnnualRatePercent) || in.AnnualRatePercent <= 0 {
		return ErrInvalidRate
	}
	if in.Years < 1 || in.Years > MaxYears {
		return ErrInvalidYears
	}
	return nil
}

// Check reports ErrResultOutOfRange when any amount overflowed
func (r CompoundGrowthResult) Check() error {
	if err := CheckFinite(r.FinalAmount, r.TotalContributions, r.TotalInterest); err != nil {
		return err
	}
	for _, row := range r.YearlyBreakdown {
		if err := CheckFinite(row.Balance, row.TotalContributions, row.TotalInterest); err != nil {
			return err
		}
	}
	return nil
}

// YearlyBreakdown is the account state at the end of one year
type YearlyBreakdown struct {
	Year               int     `json:"year"`
	Balance            float64 `json:"balance"`
	TotalContributions float64 `json:"total_contributions"`
	TotalInterest      float64 `json:"total_interest"`
}

// CompoundGrowthResult is the outcome of a savings plan simulation
type CompoundGrowthResult struct {
	FinalAmount        float64           `json:"final_amount"`
	TotalContributions float64           `json:"total_contributions"`
	TotalInterest      float64           `json:"total_interest"`
	YearlyBreakdown    []YearlyBreakdown `json:"yearly_breakdown"`
}

// ReturnInput holds the values for a simple return
type ReturnInput struct {
	Initial float64 `json:"initial"`
	Final   float64 `json:"final"`
}

// Validate requires both values to be positive
func (in ReturnInput) Validate() error {
	return validateValues(in.Initial, in.Final)
}

// CAGRInput holds the values for an annualized return
type CAGRInput struct {
	Initial float64 `json:"initial"`
	Final   float64 `json:"final"`
	Years   float64 `json:"years"`
}

// Validate requires positive values and a positive holding period
func (in CAGRInput) Validate() error {
	if err := validateValues(in.Initial, in.Final); err != nil {
		return err
	}
	if !isFinite(in.Years) || in.Years <= 0 || in.Years > MaxYears {
		return ErrInvalidYears
	}
	return nil
}

// RealReturnInput holds the values for an inflation-adjusted return
type RealReturnInput struct {
	Initial       float64 `json:"initial"`
	Final         float64 `json:"final"`
	InflationRate float64 `json:"inflation_rate"`
	Years         float64 `json:"years"`
}

// Validate applies the CAGR rules; inflation must be finite and above -100 percent
func (in RealReturnInput) Validate() error {
	if err := (CAGRInput{Initial: in.Initial, Final: in.Final, Years: in.Years}).Validate(); err != nil {
		return err
	}
	if !isFinite(in.InflationRate) || in.InflationRate <= -100 {
		return ErrInvalidInflation
	}
	return nil
}

// RealReturnResult splits a nominal annual return into real return and inflation drag
type RealReturnResult struct {
	NominalReturn   float64 `json:"nominal_return"`
	RealReturn      float64 `json:"real_return"`
	InflationImpact float64 `json:"inflation_impact"`
}

// Check reports ErrResultOutOfRange when any return is not finite
func (r RealReturnResult) Check() error {
	return CheckFinite(r.NominalReturn, r.RealReturn, r.InflationImpact)
}

// CheckFinite returns ErrResultOutOfRange if any value is NaN or infinite
func CheckFinite(values ...float64) error {
	for _, v := range values {
		if !isFinite(v) {
			return ErrResultOutOfRange
		}
	}
	return nil
}

func validateValues(initial, final float64) error {
	if !isFinite(initial) || initial <= 0 {
		return ErrInvalidInitialValue
	}
	if !isFinite(final) || final <= 0 {
		return ErrInvalidFinalValue
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
