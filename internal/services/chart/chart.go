// Package chart renders price and performance line charts as PNG images.
package chart

import (
	"errors"
	"fmt"
	"math"

	"github.com/vicanso/go-charts/v2"

	"github.com/findosh/finlearn/internal/finmath"
	"github.com/findosh/finlearn/internal/format"
	"github.com/findosh/finlearn/internal/models"
)

// ErrEmptySeries is returned when there is nothing to draw
var ErrEmptySeries = errors.New("no data points to chart")

// Series is one chart's worth of labeled values
type Series struct {
	Title    string
	Subtitle string
	Labels   []string
	Values   []float64
}

// InstrumentSeries builds the close price series of an instrument for a period
func InstrumentSeries(inst *models.Instrument, period models.Period) Series {
	history := period.Window(inst.PriceHistory)
	s := Series{
		Title:  fmt.Sprintf("%s (%s) • %s", inst.Name, inst.Ticker, period),
		Labels: make([]string, len(history)),
		Values: make([]float64, len(history)),
	}
	for i, p := range history {
		s.Labels[i] = p.Date.Format("01/06")
		s.Values[i] = p.Close
	}
	s.Subtitle = subtitle(finmath.PortfolioMetrics(history))
	return s
}

// PerformanceSeries builds the total return series of an aggregated portfolio
func PerformanceSeries(perf *models.PortfolioPerformance) Series {
	s := Series{
		Title:  "Portfolio • Gesamtrendite in %",
		Labels: make([]string, len(perf.History)),
		Values: make([]float64, len(perf.History)),
	}
	for i, p := range perf.History {
		s.Labels[i] = p.Date.Format("01/06")
		s.Values[i] = p.TotalReturn
	}
	if perf.Metrics != nil {
		s.Subtitle = subtitle(*perf.Metrics)
	}
	return s
}

func subtitle(m models.PortfolioMetrics) string {
	return fmt.Sprintf("Rendite: %s | CAGR: %s | Vol: %s | MaxDD: %s | Sharpe: %s",
		format.Percent(m.TotalReturn),
		format.Percent(m.CAGR),
		format.Percent(m.Volatility),
		format.Percent(m.MaxDrawdown),
		format.Ratio(m.SharpeRatio),
	)
}

// Render draws the series as a PNG line chart
func Render(s Series) ([]byte, error) {
	if len(s.Values) == 0 {
		return nil, ErrEmptySeries
	}

	yMin, yMax := s.Values[0], s.Values[0]
	for _, v := range s.Values {
		yMin = min(yMin, v)
		yMax = max(yMax, v)
	}
	padding := (yMax - yMin) * 0.05
	if padding == 0 {
		padding = max(math.Abs(yMax)*0.05, 1)
	}
	yMin -= padding
	yMax += padding

	split := 6
	if len(s.Labels) <= 30 {
		split = max(len(s.Labels)/3, 3)
	}

	p, err := charts.LineRender(
		[][]float64{s.Values},
		charts.TitleTextOptionFunc(s.Title, s.Subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        s.Labels,
			SplitNumber: split,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(900),
		charts.HeightOptionFunc(450),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}
