// Package format renders amounts and percentages for German speaking learners.
package format

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is used when a currency code is unknown
const DefaultCurrency = money.EUR

// NotAvailable is shown in place of NaN or infinite values
const NotAvailable = "n. v."

var printer = message.NewPrinter(language.German)

// Round rounds v half away from zero to the given number of decimals
func Round(v float64, places int32) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Currency formats v in the de-DE style, e.g. "1.234,56 €"
func Currency(v float64, code string) string {
	if !finite(v) {
		return NotAvailable
	}
	cur := lookupCurrency(code)
	amount := decimal.NewFromFloat(v).Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	formatter := money.NewFormatter(cur.Fraction, ",", ".", cur.Grapheme, "1 $")
	return formatter.Format(amount.IntPart())
}

// Percent formats a value that is already a percentage, e.g. "25,00 %"
func Percent(v float64) string {
	if !finite(v) {
		return NotAvailable
	}
	return printer.Sprintf("%.2f %%", Round(v, 2))
}

// Ratio formats a dimensionless ratio with two decimals
func Ratio(v float64) string {
	if !finite(v) {
		return NotAvailable
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Compact abbreviates large amounts, e.g. "1,2 Mrd EUR" or "3,4 Mio EUR"
func Compact(v float64, code string) string {
	if !finite(v) {
		return NotAvailable
	}
	code = lookupCurrency(code).Code
	switch {
	case v >= 1e9:
		return printer.Sprintf("%.1f Mrd %s", v/1e9, code)
	case v >= 1e6:
		return printer.Sprintf("%.1f Mio %s", v/1e6, code)
	default:
		return printer.Sprintf("%d %s", decimal.NewFromFloat(v).Round(0).IntPart(), code)
	}
}

// Number formats v with German grouping and the given number of decimals
func Number(v float64, places int) string {
	return printer.Sprintf("%.*f", places, v)
}

func lookupCurrency(code string) *money.Currency {
	if cur := money.GetCurrency(code); cur != nil {
		return cur
	}
	return money.GetCurrency(DefaultCurrency)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
