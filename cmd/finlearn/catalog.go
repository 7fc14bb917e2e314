package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/findosh/finlearn/internal/format"
	"github.com/findosh/finlearn/internal/models"
	"github.com/findosh/finlearn/internal/services/analytics"
	"github.com/findosh/finlearn/internal/services/chart"
)

type instrumentsCmd struct {
	app *app
	typ string
}

func (*instrumentsCmd) Name() string     { return "instruments" }
func (*instrumentsCmd) Synopsis() string { return "List catalog instruments." }
func (*instrumentsCmd) Usage() string {
	return `instruments [-type stock|etf|bond|crypto]

Lists the instruments of the catalog with their latest price and monthly change.
`
}

func (c *instrumentsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "", "only list instruments of this type")
}

func (c *instrumentsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cat, err := c.app.catalog()
	if err != nil {
		return c.app.fail("loading catalog: %v", err)
	}

	list := cat.List()
	if c.typ != "" {
		t := models.InstrumentType(strings.ToLower(c.typ))
		if !t.IsValid() {
			return c.app.usage("unknown instrument type %q", c.typ)
		}
		list = cat.ListByType(t)
	}

	tw := c.app.table()
	fmt.Fprintln(tw, "ID\tTICKER\tNAME\tTYP\tKURS\tÄNDERUNG")
	for _, inst := range list {
		s := inst.Summary()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Ticker, s.Name, s.TypeName, format.Currency(s.Price, s.Currency), format.Percent(s.Change))
	}
	tw.Flush()
	return subcommands.ExitSuccess
}

type instrumentCmd struct {
	app    *app
	period string
}

func (*instrumentCmd) Name() string     { return "instrument" }
func (*instrumentCmd) Synopsis() string { return "Show one instrument with its metrics." }
func (*instrumentCmd) Usage() string {
	return `instrument [-period 1m|3m|6m|1y|3y|all] <id>

Prints the details of a catalog instrument and the metrics of its price history.
`
}

func (c *instrumentCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "all", "trailing window for the metrics")
}

func (c *instrumentCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("instrument takes exactly one instrument id")
	}
	cat, err := c.app.catalog()
	if err != nil {
		return c.app.fail("loading catalog: %v", err)
	}
	inst, ok := cat.Instrument(f.Arg(0))
	if !ok {
		return c.app.fail("%v: %s", models.ErrUnknownInstrument, f.Arg(0))
	}

	fmt.Fprintf(c.app.out, "%s (%s), %s\n", inst.Name, inst.Ticker, inst.Type.DisplayName())
	if inst.Description != "" {
		fmt.Fprintln(c.app.out, inst.Description)
	}
	fmt.Fprintln(c.app.out)

	tw := c.app.table()
	fmt.Fprintf(tw, "Kurs\t%s\n", format.Currency(inst.LatestPrice(), inst.Currency))
	fmt.Fprintf(tw, "Änderung\t%s\n", format.Percent(inst.Change()))
	if inst.Sector != "" {
		fmt.Fprintf(tw, "Sektor\t%s\n", inst.Sector)
	}
	if inst.MarketCap != nil {
		fmt.Fprintf(tw, "Marktkapitalisierung\t%s\n", format.Compact(*inst.MarketCap, inst.Currency))
	}
	if inst.PERatio != nil {
		fmt.Fprintf(tw, "KGV\t%s\n", format.Number(*inst.PERatio, 1))
	}
	if inst.ExpenseRatio != nil {
		fmt.Fprintf(tw, "TER\t%s\n", format.Percent(*inst.ExpenseRatio))
	}
	if inst.AUM != nil {
		fmt.Fprintf(tw, "Fondsvolumen\t%s\n", format.Compact(*inst.AUM, inst.Currency))
	}
	if inst.Coupon != nil {
		fmt.Fprintf(tw, "Kupon\t%s\n", format.Percent(*inst.Coupon))
	}
	if inst.Maturity != nil {
		fmt.Fprintf(tw, "Fälligkeit\t%s\n", inst.Maturity.String())
	}
	if inst.CirculatingSupply != nil {
		fmt.Fprintf(tw, "Umlaufmenge\t%s\n", format.Number(*inst.CirculatingSupply, 0))
	}
	tw.Flush()
	fmt.Fprintln(c.app.out)

	period := models.ParsePeriod(c.period)
	metrics, err := analytics.NewService(cat, c.app.log).InstrumentMetrics(inst.ID, period)
	if err != nil {
		return c.app.fail("computing metrics: %v", err)
	}
	fmt.Fprintf(c.app.out, "Kennzahlen (%s)\n", period)
	c.app.printMetrics(metrics)
	return subcommands.ExitSuccess
}

type chartCmd struct {
	app    *app
	period string
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "Render a price or portfolio chart as PNG." }
func (*chartCmd) Usage() string {
	return `chart [-period 1m|3m|6m|1y|3y|all] [-o file.png] <instrument-id|portfolio>

Renders the close prices of an instrument, or the total return of the
portfolio, as a PNG line chart.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "all", "trailing window of an instrument chart")
	f.StringVar(&c.output, "o", "chart.png", "output file")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("chart takes exactly one instrument id or \"portfolio\"")
	}

	var series chart.Series
	if target := f.Arg(0); target == "portfolio" {
		svc, closeDB, err := c.app.openPortfolio()
		if err != nil {
			return c.app.fail("opening portfolio: %v", err)
		}
		defer closeDB()
		perf, err := svc.Performance()
		if err != nil {
			return c.app.fail("computing performance: %v", err)
		}
		series = chart.PerformanceSeries(perf)
	} else {
		cat, err := c.app.catalog()
		if err != nil {
			return c.app.fail("loading catalog: %v", err)
		}
		inst, ok := cat.Instrument(target)
		if !ok {
			return c.app.fail("%v: %s", models.ErrUnknownInstrument, target)
		}
		series = chart.InstrumentSeries(inst, models.ParsePeriod(c.period))
	}

	png, err := chart.Render(series)
	if err != nil {
		return c.app.fail("rendering chart: %v", err)
	}
	if err := os.WriteFile(c.output, png, 0o644); err != nil {
		return c.app.fail("writing %s: %v", c.output, err)
	}
	fmt.Fprintf(c.app.out, "Diagramm gespeichert: %s\n", c.output)
	return subcommands.ExitSuccess
}

type glossaryCmd struct {
	app *app
}

func (*glossaryCmd) Name() string     { return "glossary" }
func (*glossaryCmd) Synopsis() string { return "Look up finance terms." }
func (*glossaryCmd) Usage() string {
	return `glossary [term]

Prints the glossary, or only the entries whose term contains the argument.
`
}

func (*glossaryCmd) SetFlags(*flag.FlagSet) {}

func (c *glossaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cat, err := c.app.catalog()
	if err != nil {
		return c.app.fail("loading catalog: %v", err)
	}
	query := strings.ToLower(strings.Join(f.Args(), " "))

	found := 0
	for _, entry := range cat.Glossary() {
		if query != "" && !strings.Contains(strings.ToLower(entry.Term), query) {
			continue
		}
		found++
		fmt.Fprintf(c.app.out, "%s [%s]\n  %s\n\n", entry.Term, entry.Category, entry.Definition)
	}
	if found == 0 {
		fmt.Fprintf(c.app.out, "Kein Eintrag für %q.\n", query)
	}
	return subcommands.ExitSuccess
}
