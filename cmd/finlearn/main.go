// finlearn is the command line front end: catalog browsing, calculators,
// the local portfolio and quizzes.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/findosh/finlearn/internal/config"
	"github.com/findosh/finlearn/internal/logger"
)

func main() {
	cfg := config.Load()

	a := &app{out: os.Stdout, currency: cfg.Currency}
	flag.StringVar(&a.dbPath, "db", cfg.DatabaseURL, "Path to the SQLite portfolio database")
	verbose := flag.Bool("v", false, "Log service activity to stderr")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	a.register(commander)

	flag.Parse()

	level := "warn"
	if *verbose {
		level = cfg.LogLevel
	}
	a.log = logger.New(logger.Config{Level: level, Pretty: true, Output: os.Stderr})

	os.Exit(int(commander.Execute(context.Background())))
}
