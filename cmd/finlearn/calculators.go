package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/findosh/finlearn/internal/finmath"
	"github.com/findosh/finlearn/internal/format"
	"github.com/findosh/finlearn/internal/models"
)

type compoundCmd struct {
	app *app
	in  models.CompoundGrowthInput
}

func (*compoundCmd) Name() string     { return "compound" }
func (*compoundCmd) Synopsis() string { return "Simulate a savings plan with compound interest." }
func (*compoundCmd) Usage() string {
	return `compound -principal 10000 -monthly 200 -rate 7 -years 20

Simulates monthly compounding for up to 100 years. From the second month on
the contribution is paid in before the month's interest is applied. Prints
the year by year breakdown.
`
}

func (c *compoundCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.in.Principal, "principal", 10000, "starting capital")
	f.Float64Var(&c.in.MonthlyContribution, "monthly", 0, "contribution paid in each month from the second month on, before interest")
	f.Float64Var(&c.in.AnnualRatePercent, "rate", 7, "nominal annual interest rate in percent")
	f.IntVar(&c.in.Years, "years", 10, "number of years")
}

func (c *compoundCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.in.Validate(); err != nil {
		return c.app.usage("invalid input: %v", err)
	}
	res := finmath.CompoundGrowth(c.in.Principal, c.in.MonthlyContribution, c.in.AnnualRatePercent, c.in.Years)
	if err := res.Check(); err != nil {
		return c.app.fail("simulating savings plan: %v", err)
	}
	cur := c.app.currency

	tw := c.app.table()
	fmt.Fprintln(tw, "JAHR\tEINZAHLUNGEN\tZINSEN\tGUTHABEN")
	for _, row := range res.YearlyBreakdown {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", row.Year,
			format.Currency(row.TotalContributions, cur),
			format.Currency(row.TotalInterest, cur),
			format.Currency(row.Balance, cur))
	}
	tw.Flush()

	fmt.Fprintf(c.app.out, "\nEndkapital: %s (Einzahlungen %s, Zinsen %s)\n",
		format.Currency(res.FinalAmount, cur),
		format.Currency(res.TotalContributions, cur),
		format.Currency(res.TotalInterest, cur))
	return subcommands.ExitSuccess
}

type returnsCmd struct {
	app       *app
	initial   float64
	final     float64
	years     float64
	inflation float64
}

func (*returnsCmd) Name() string     { return "returns" }
func (*returnsCmd) Synopsis() string { return "Compute simple, annualized and real returns." }
func (*returnsCmd) Usage() string {
	return `returns -initial 1000 -final 1500 [-years 3] [-inflation 2]

Prints the simple return. With -years it adds the CAGR and the
inflation adjusted return.
`
}

func (c *returnsCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.initial, "initial", 0, "initial value")
	f.Float64Var(&c.final, "final", 0, "final value")
	f.Float64Var(&c.years, "years", 0, "holding period in years")
	f.Float64Var(&c.inflation, "inflation", 2, "annual inflation rate in percent")
}

func (c *returnsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := (models.ReturnInput{Initial: c.initial, Final: c.final}).Validate(); err != nil {
		return c.app.usage("invalid input: %v", err)
	}

	simple := finmath.SimpleReturn(c.initial, c.final)
	if err := models.CheckFinite(simple); err != nil {
		return c.app.fail("computing return: %v", err)
	}

	var rr models.RealReturnResult
	if c.years != 0 {
		in := models.RealReturnInput{Initial: c.initial, Final: c.final, InflationRate: c.inflation, Years: c.years}
		if err := in.Validate(); err != nil {
			return c.app.usage("invalid input: %v", err)
		}
		rr = finmath.RealReturn(in.Initial, in.Final, in.InflationRate, in.Years)
		if err := rr.Check(); err != nil {
			return c.app.fail("computing annual return: %v", err)
		}
	}

	tw := c.app.table()
	fmt.Fprintf(tw, "Rendite\t%s\n", format.Percent(simple))
	if c.years != 0 {
		fmt.Fprintf(tw, "CAGR\t%s\n", format.Percent(rr.NominalReturn))
		fmt.Fprintf(tw, "Realrendite\t%s\n", format.Percent(rr.RealReturn))
		fmt.Fprintf(tw, "Inflationseffekt\t%s\n", format.Percent(rr.InflationImpact))
	}
	tw.Flush()
	return subcommands.ExitSuccess
}
