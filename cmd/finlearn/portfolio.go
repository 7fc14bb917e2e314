package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/findosh/finlearn/internal/format"
	"github.com/findosh/finlearn/internal/models"
	"github.com/findosh/finlearn/internal/services/importer"
	"github.com/findosh/finlearn/internal/services/portfolio"
)

// parseShares accepts both "1.5" and the German "1,5"
func parseShares(s string) (float64, error) {
	shares, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, models.ErrInvalidShares
	}
	return shares, models.ValidateShares(shares)
}

// resolvePosition finds a position by its ID or by its instrument ID
func resolvePosition(svc *portfolio.Service, ref string) (uuid.UUID, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	positions, err := svc.Positions()
	if err != nil {
		return uuid.Nil, err
	}
	for _, p := range positions {
		if p.InstrumentID == ref {
			return p.ID, nil
		}
	}
	return uuid.Nil, models.ErrPositionNotFound
}

type portfolioCmd struct {
	app *app
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "Show positions, value and metrics of the portfolio." }
func (*portfolioCmd) Usage() string {
	return `portfolio

Values every position at its latest catalog price and prints the metrics
of the aggregated history.
`
}

func (*portfolioCmd) SetFlags(*flag.FlagSet) {}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeDB, err := c.app.openPortfolio()
	if err != nil {
		return c.app.fail("opening portfolio: %v", err)
	}
	defer closeDB()

	summary, err := svc.Summary()
	if err != nil {
		return c.app.fail("valuing portfolio: %v", err)
	}
	if len(summary.Positions) == 0 {
		fmt.Fprintln(c.app.out, "Das Portfolio ist leer. Füge Positionen mit \"add\" hinzu.")
		return subcommands.ExitSuccess
	}

	cur := c.app.currency
	tw := c.app.table()
	fmt.Fprintln(tw, "ID\tINSTRUMENT\tANTEILE\tKURS\tWERT\tGEWICHT")
	for _, p := range summary.Positions {
		fmt.Fprintf(tw, "%s\t%s (%s)\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Ticker, format.Number(p.Shares, 4),
			format.Currency(p.Price, cur), format.Currency(p.Value, cur), format.Percent(p.Weight))
	}
	tw.Flush()
	fmt.Fprintf(c.app.out, "\nGesamtwert: %s\n\n", format.Currency(summary.TotalValue, cur))

	perf, err := svc.Performance()
	if err != nil {
		return c.app.fail("computing performance: %v", err)
	}
	c.app.printMetrics(perf.Metrics)
	return subcommands.ExitSuccess
}

type addCmd struct {
	app *app
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "Add an instrument to the portfolio." }
func (*addCmd) Usage() string {
	return `add <instrument-id> <shares>
`
}

func (*addCmd) SetFlags(*flag.FlagSet) {}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return c.app.usage("add takes an instrument id and a share count")
	}
	shares, err := parseShares(f.Arg(1))
	if err != nil {
		return c.app.usage("%v", err)
	}

	svc, closeDB, err := c.app.openPortfolio()
	if err != nil {
		return c.app.fail("opening portfolio: %v", err)
	}
	defer closeDB()

	pos, err := svc.AddPosition(f.Arg(0), shares)
	if err != nil {
		return c.app.fail("adding %s: %v", f.Arg(0), err)
	}
	fmt.Fprintf(c.app.out, "Position %s angelegt: %s x %s\n", pos.ID, format.Number(pos.Shares, 4), pos.InstrumentID)
	return subcommands.ExitSuccess
}

type updateCmd struct {
	app *app
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "Change the share count of a position." }
func (*updateCmd) Usage() string {
	return `update <position-id|instrument-id> <shares>
`
}

func (*updateCmd) SetFlags(*flag.FlagSet) {}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return c.app.usage("update takes a position and a share count")
	}
	shares, err := parseShares(f.Arg(1))
	if err != nil {
		return c.app.usage("%v", err)
	}

	svc, closeDB, err := c.app.openPortfolio()
	if err != nil {
		return c.app.fail("opening portfolio: %v", err)
	}
	defer closeDB()

	id, err := resolvePosition(svc, f.Arg(0))
	if err != nil {
		return c.app.fail("%s: %v", f.Arg(0), err)
	}
	pos, err := svc.UpdateShares(id, shares)
	if err != nil {
		return c.app.fail("updating %s: %v", f.Arg(0), err)
	}
	fmt.Fprintf(c.app.out, "Position %s: %s x %s\n", pos.ID, format.Number(pos.Shares, 4), pos.InstrumentID)
	return subcommands.ExitSuccess
}

type removeCmd struct {
	app *app
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "Remove a position from the portfolio." }
func (*removeCmd) Usage() string {
	return `remove <position-id|instrument-id>
`
}

func (*removeCmd) SetFlags(*flag.FlagSet) {}

func (c *removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("remove takes exactly one position")
	}

	svc, closeDB, err := c.app.openPortfolio()
	if err != nil {
		return c.app.fail("opening portfolio: %v", err)
	}
	defer closeDB()

	id, err := resolvePosition(svc, f.Arg(0))
	if err != nil {
		return c.app.fail("%s: %v", f.Arg(0), err)
	}
	if err := svc.RemovePosition(id); err != nil {
		return c.app.fail("removing %s: %v", f.Arg(0), err)
	}
	fmt.Fprintf(c.app.out, "Position %s entfernt\n", id)
	return subcommands.ExitSuccess
}

type clearCmd struct {
	app *app
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "Remove all positions." }
func (*clearCmd) Usage() string {
	return `clear
`
}

func (*clearCmd) SetFlags(*flag.FlagSet) {}

func (c *clearCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeDB, err := c.app.openPortfolio()
	if err != nil {
		return c.app.fail("opening portfolio: %v", err)
	}
	defer closeDB()

	if err := svc.Clear(); err != nil {
		return c.app.fail("clearing portfolio: %v", err)
	}
	fmt.Fprintln(c.app.out, "Portfolio geleert")
	return subcommands.ExitSuccess
}

type exportCmd struct {
	app    *app
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "Write the portfolio snapshot as JSON." }
func (*exportCmd) Usage() string {
	return `export [-o file.json]

Writes positions, metrics and the aggregated history. Without -o the
document goes to a file named after today's date, "-" prints it.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output file, \"-\" for stdout")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeDB, err := c.app.openPortfolio()
	if err != nil {
		return c.app.fail("opening portfolio: %v", err)
	}
	defer closeDB()

	export, err := svc.Export(time.Now().UTC())
	if err != nil {
		return c.app.fail("exporting portfolio: %v", err)
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return c.app.fail("encoding export: %v", err)
	}

	switch c.output {
	case "-":
		fmt.Fprintln(c.app.out, string(data))
		return subcommands.ExitSuccess
	case "":
		c.output = export.FileName()
	}
	if err := os.WriteFile(c.output, data, 0o644); err != nil {
		return c.app.fail("writing %s: %v", c.output, err)
	}
	fmt.Fprintf(c.app.out, "Export gespeichert: %s\n", c.output)
	return subcommands.ExitSuccess
}

type importCmd struct {
	app *app
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "Import positions from a CSV file." }
func (*importCmd) Usage() string {
	return `import <file.csv>

Reads a CSV with an instrument column (ID, ticker or symbol) and a share
column (shares, quantity, Stück, Anteile). Held instruments take the
imported share count.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("import takes exactly one CSV file")
	}
	cat, err := c.app.catalog()
	if err != nil {
		return c.app.fail("loading catalog: %v", err)
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		return c.app.fail("opening %s: %v", f.Arg(0), err)
	}
	defer file.Close()

	parsed, err := importer.Parse(file, cat)
	if err != nil {
		return c.app.fail("reading %s: %v", f.Arg(0), err)
	}

	svc, closeDB, err := c.app.openPortfolio()
	if err != nil {
		return c.app.fail("opening portfolio: %v", err)
	}
	defer closeDB()

	result, err := svc.Import(parsed.Rows)
	if err != nil {
		return c.app.fail("importing %s: %v", f.Arg(0), err)
	}
	for _, skipped := range append(parsed.Errors, result.Skipped...) {
		fmt.Fprintf(c.app.out, "übersprungen: %s\n", skipped)
	}
	fmt.Fprintf(c.app.out, "%d Positionen angelegt, %d aktualisiert\n", result.Added, result.Updated)
	return subcommands.ExitSuccess
}
