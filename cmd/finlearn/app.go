package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/findosh/finlearn/internal/catalog"
	"github.com/findosh/finlearn/internal/format"
	"github.com/findosh/finlearn/internal/models"
	"github.com/findosh/finlearn/internal/services/analytics"
	"github.com/findosh/finlearn/internal/services/portfolio"
	"github.com/findosh/finlearn/internal/storage"
)

// app holds the state shared by all subcommands
type app struct {
	dbPath   string
	currency string
	out      io.Writer
	log      zerolog.Logger
}

// register adds every subcommand to the commander
func (a *app) register(c *subcommands.Commander) {
	c.Register(&instrumentsCmd{app: a}, "catalog")
	c.Register(&instrumentCmd{app: a}, "catalog")
	c.Register(&chartCmd{app: a}, "catalog")
	c.Register(&glossaryCmd{app: a}, "catalog")

	c.Register(&compoundCmd{app: a}, "calculators")
	c.Register(&returnsCmd{app: a}, "calculators")

	c.Register(&portfolioCmd{app: a}, "portfolio")
	c.Register(&addCmd{app: a}, "portfolio")
	c.Register(&updateCmd{app: a}, "portfolio")
	c.Register(&removeCmd{app: a}, "portfolio")
	c.Register(&clearCmd{app: a}, "portfolio")
	c.Register(&exportCmd{app: a}, "portfolio")
	c.Register(&importCmd{app: a}, "portfolio")

	c.Register(&quizCmd{app: a}, "learning")
}

func (a *app) catalog() (*catalog.Catalog, error) {
	return catalog.Default()
}

// openPortfolio opens the database and wires the portfolio service. The
// returned close function releases the database.
func (a *app) openPortfolio() (*portfolio.Service, func(), error) {
	cat, err := a.catalog()
	if err != nil {
		return nil, nil, err
	}

	db, err := storage.New(a.dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, err
	}

	svc := portfolio.NewService(storage.NewPositionRepository(db), cat, analytics.NewService(cat, a.log), a.log)
	return svc, func() { db.Close() }, nil
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

func (a *app) fail(format string, args ...interface{}) subcommands.ExitStatus {
	a.log.Error().Msgf(format, args...)
	return subcommands.ExitFailure
}

func (a *app) usage(format string, args ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(a.out, format+"\n", args...)
	return subcommands.ExitUsageError
}

func (a *app) printMetrics(m *models.PortfolioMetrics) {
	if m == nil {
		fmt.Fprintln(a.out, "Keine gemeinsamen Kursdaten für Kennzahlen.")
		return
	}
	tw := a.table()
	fmt.Fprintf(tw, "Gesamtrendite\t%s\n", format.Percent(m.TotalReturn))
	fmt.Fprintf(tw, "CAGR\t%s\n", format.Percent(m.CAGR))
	fmt.Fprintf(tw, "Volatilität\t%s\n", format.Percent(m.Volatility))
	fmt.Fprintf(tw, "Max. Drawdown\t%s\n", format.Percent(m.MaxDrawdown))
	fmt.Fprintf(tw, "Sharpe Ratio\t%s\n", format.Ratio(m.SharpeRatio))
	tw.Flush()
}
