package models

import (
	"errors"
	"math"
	"testing"
)

func TestCompoundGrowthInput_Validate(t *testing.T) {
	valid := CompoundGrowthInput{Principal: 10000, MonthlyContribution: 500, AnnualRatePercent: 7, Years: 20}

	tests := []struct {
		name     string
		mutate   func(in *CompoundGrowthInput)
		expected error
	}{
		{"valid", func(in *CompoundGrowthInput) {}, nil},
		{"zero principal", func(in *CompoundGrowthInput) { in.Principal = 0 }, nil},
		{"zero contribution", func(in *CompoundGrowthInput) { in.MonthlyContribution = 0 }, nil},
		{"negative principal", func(in *CompoundGrowthInput) { in.Principal = -1 }, ErrInvalidPrincipal},
		{"nan principal", func(in *CompoundGrowthInput) { in.Principal = math.NaN() }, ErrInvalidPrincipal},
		{"negative contribution", func(in *CompoundGrowthInput) { in.MonthlyContribution = -1 }, ErrInvalidContribution},
		{"zero rate", func(in *CompoundGrowthInput) { in.AnnualRatePercent = 0 }, ErrInvalidRate},
		{"negative rate", func(in *CompoundGrowthInput) { in.AnnualRatePercent = -2 }, ErrInvalidRate},
		{"zero years", func(in *CompoundGrowthInput) { in.Years = 0 }, ErrInvalidYears},
		{"max years", func(in *CompoundGrowthInput) { in.Years = MaxYears }, nil},
		{"too many years", func(in *CompoundGrowthInput) { in.Years = MaxYears + 1 }, ErrInvalidYears},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if err := in.Validate(); !errors.Is(err, tt.expected) {
				t.Errorf("Validate() = %v, want %v", err, tt.expected)
			}
		})
	}
}

func TestReturnInputs_Validate(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"simple valid", ReturnInput{Initial: 10000, Final: 12500}.Validate(), nil},
		{"simple zero initial", ReturnInput{Initial: 0, Final: 12500}.Validate(), ErrInvalidInitialValue},
		{"simple zero final", ReturnInput{Initial: 10000, Final: 0}.Validate(), ErrInvalidFinalValue},
		{"cagr valid", CAGRInput{Initial: 10000, Final: 16105, Years: 5}.Validate(), nil},
		{"cagr fractional years", CAGRInput{Initial: 10000, Final: 16105, Years: 2.5}.Validate(), nil},
		{"cagr zero years", CAGRInput{Initial: 10000, Final: 16105, Years: 0}.Validate(), ErrInvalidYears},
		{"cagr negative initial", CAGRInput{Initial: -1, Final: 16105, Years: 5}.Validate(), ErrInvalidInitialValue},
		{"real valid", RealReturnInput{Initial: 10000, Final: 15000, InflationRate: 2.5, Years: 5}.Validate(), nil},
		{"real negative inflation", RealReturnInput{Initial: 10000, Final: 15000, InflationRate: -1, Years: 5}.Validate(), nil},
		{"real nan inflation", RealReturnInput{Initial: 10000, Final: 15000, InflationRate: math.NaN(), Years: 5}.Validate(), ErrInvalidInflation},
		{"cagr too many years", CAGRInput{Initial: 10000, Final: 16105, Years: 100.5}.Validate(), ErrInvalidYears},
		{"real total inflation", RealReturnInput{Initial: 10000, Final: 15000, InflationRate: -100, Years: 5}.Validate(), ErrInvalidInflation},
		{"real below total inflation", RealReturnInput{Initial: 10000, Final: 15000, InflationRate: -150, Years: 5}.Validate(), ErrInvalidInflation},
		{"real zero years", RealReturnInput{Initial: 10000, Final: 15000, InflationRate: 2, Years: 0}.Validate(), ErrInvalidYears},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.expected) {
				t.Errorf("Validate() = %v, want %v", tt.err, tt.expected)
			}
		})
	}
}

func TestResultChecks(t *testing.T) {
	if err := CheckFinite(1, -2, 0); err != nil {
		t.Errorf("CheckFinite(finite) = %v, want nil", err)
	}
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if err := CheckFinite(1, v); !errors.Is(err, ErrResultOutOfRange) {
			t.Errorf("CheckFinite(%v) = %v, want %v", v, err, ErrResultOutOfRange)
		}
	}

	overflowRow := CompoundGrowthResult{
		FinalAmount:     1,
		YearlyBreakdown: []YearlyBreakdown{{Year: 1, Balance: math.Inf(1)}},
	}
	if err := overflowRow.Check(); !errors.Is(err, ErrResultOutOfRange) {
		t.Errorf("Check() = %v, want %v", err, ErrResultOutOfRange)
	}

	rr := RealReturnResult{NominalReturn: math.Inf(1), RealReturn: math.Inf(1), InflationImpact: math.NaN()}
	if err := rr.Check(); !errors.Is(err, ErrResultOutOfRange) {
		t.Errorf("Check() = %v, want %v", err, ErrResultOutOfRange)
	}
}
