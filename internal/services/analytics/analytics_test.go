package analytics

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findosh/finlearn/internal/models"
)

type fakeCatalog map[string]*models.Instrument

func (c fakeCatalog) Instrument(id string) (*models.Instrument, bool) {
	inst, ok := c[id]
	return inst, ok
}

func bars(pairs ...any) []models.PricePoint {
	points := make([]models.PricePoint, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		points = append(points, models.PricePoint{
			Date:  models.MustParseDate(pairs[i].(string)),
			Close: pairs[i+1].(float64),
		})
	}
	return points
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		"a": {ID: "a", Ticker: "AAA", Name: "Alpha", Type: models.InstrumentStock,
			PriceHistory: bars("2024-01-01", 10.0, "2024-01-02", 11.0, "2024-01-03", 12.0, "2024-01-04", 9.0)},
		"b": {ID: "b", Ticker: "BBB", Name: "Beta", Type: models.InstrumentETF,
			PriceHistory: bars("2024-01-02", 100.0, "2024-01-03", 100.0, "2024-01-04", 110.0, "2024-01-05", 120.0)},
		"c": {ID: "c", Ticker: "CCC", Name: "Gamma", Type: models.InstrumentCrypto,
			PriceHistory: bars("2023-06-01", 5.0, "2023-06-02", 6.0)},
		"zero": {ID: "zero", Ticker: "ZZZ", Type: models.InstrumentBond,
			PriceHistory: bars("2024-01-02", 0.0, "2024-01-03", 50.0)},
		"empty": {ID: "empty", Ticker: "EEE", Type: models.InstrumentBond},
	}
}

func newTestService() *Service {
	return NewService(testCatalog(), zerolog.Nop())
}

func TestAggregate_IntersectsDates(t *testing.T) {
	svc := newTestService()

	history, err := svc.Aggregate([]*models.Position{
		models.NewPosition("a", 10),
		models.NewPosition("b", 1),
	})
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, "2024-01-02", history[0].Date.String())
	assert.Equal(t, 210.0, history[0].Value)
	assert.Equal(t, 0.0, history[0].TotalReturn)

	assert.Equal(t, 220.0, history[1].Value)
	assert.InDelta(t, 4.7619, history[1].TotalReturn, 1e-4)

	assert.Equal(t, "2024-01-04", history[2].Date.String())
	assert.Equal(t, 200.0, history[2].Value)
}

func TestAggregate_NonOverlapping(t *testing.T) {
	svc := newTestService()

	history, err := svc.Aggregate([]*models.Position{
		models.NewPosition("a", 1),
		models.NewPosition("c", 1),
	})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAggregate_SinglePosition(t *testing.T) {
	svc := newTestService()

	history, err := svc.Aggregate([]*models.Position{models.NewPosition("a", 2)})
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, 20.0, history[0].Value)
	assert.InDelta(t, -10.0, history[3].TotalReturn, 1e-9)
}

func TestAggregate_SkipsNonPositiveTotal(t *testing.T) {
	svc := newTestService()

	history, err := svc.Aggregate([]*models.Position{models.NewPosition("zero", 1)})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "2024-01-03", history[0].Date.String())
	assert.Equal(t, 0.0, history[0].TotalReturn)
}

func TestAggregate_NoPositions(t *testing.T) {
	svc := newTestService()

	history, err := svc.Aggregate(nil)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestAggregate_Errors(t *testing.T) {
	svc := newTestService()

	_, err := svc.Aggregate([]*models.Position{models.NewPosition("missing", 1)})
	assert.True(t, errors.Is(err, models.ErrUnknownInstrument))

	_, err = svc.Aggregate([]*models.Position{
		models.NewPosition("a", 1),
		models.NewPosition("a", 2),
	})
	assert.True(t, errors.Is(err, models.ErrDuplicatePosition))
}

func TestPerformance(t *testing.T) {
	svc := newTestService()

	perf, err := svc.Performance([]*models.Position{models.NewPosition("a", 1)})
	require.NoError(t, err)
	require.NotNil(t, perf.Metrics)
	assert.InDelta(t, -10.0, perf.Metrics.TotalReturn, 1e-9)
	assert.InDelta(t, 25.0, perf.Metrics.MaxDrawdown, 1e-9)

	perf, err = svc.Performance([]*models.Position{
		models.NewPosition("a", 1),
		models.NewPosition("c", 1),
	})
	require.NoError(t, err)
	assert.Empty(t, perf.History)
	assert.Nil(t, perf.Metrics)
}

func TestSummarize(t *testing.T) {
	svc := newTestService()

	summary, err := svc.Summarize([]*models.Position{
		models.NewPosition("a", 10),
		models.NewPosition("b", 3),
	})
	require.NoError(t, err)

	assert.Equal(t, 450.0, summary.TotalValue)
	require.Len(t, summary.Positions, 2)

	a := summary.Positions[0]
	assert.Equal(t, "AAA", a.Ticker)
	assert.Equal(t, 9.0, a.Price)
	assert.Equal(t, 90.0, a.Value)
	assert.Equal(t, 20.0, a.Weight)

	b := summary.Positions[1]
	assert.Equal(t, 360.0, b.Value)
	assert.Equal(t, 80.0, b.Weight)
}

func TestSummarize_ZeroTotal(t *testing.T) {
	svc := newTestService()

	summary, err := svc.Summarize([]*models.Position{models.NewPosition("empty", 5)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.TotalValue)
	assert.Equal(t, 0.0, summary.Positions[0].Weight)
}

func TestInstrumentMetrics(t *testing.T) {
	svc := newTestService()

	m, err := svc.InstrumentMetrics("b", models.PeriodAll)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, m.TotalReturn, 1e-9)
	assert.Equal(t, 0.0, m.MaxDrawdown)

	_, err = svc.InstrumentMetrics("missing", models.PeriodAll)
	assert.True(t, errors.Is(err, models.ErrUnknownInstrument))
}
