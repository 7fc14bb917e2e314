package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/findosh/finlearn/internal/models"
)

type quizCmd struct {
	app *app
}

func (*quizCmd) Name() string     { return "quiz" }
func (*quizCmd) Synopsis() string { return "List, show or grade quizzes." }
func (*quizCmd) Usage() string {
	return `quiz                       list quizzes
quiz <id>                  show the questions of a quiz
quiz <id> q1=a q2=true ... grade answers keyed by question id
`
}

func (*quizCmd) SetFlags(*flag.FlagSet) {}

func (c *quizCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cat, err := c.app.catalog()
	if err != nil {
		return c.app.fail("loading catalog: %v", err)
	}

	if f.NArg() == 0 {
		tw := c.app.table()
		fmt.Fprintln(tw, "ID\tTITEL\tFRAGEN")
		for _, q := range cat.Quizzes() {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", q.ID, q.Title, len(q.Questions))
		}
		tw.Flush()
		return subcommands.ExitSuccess
	}

	quiz, ok := cat.Quiz(f.Arg(0))
	if !ok {
		return c.app.fail("%v: %s", models.ErrUnknownQuiz, f.Arg(0))
	}

	if f.NArg() == 1 {
		public := quiz.Public()
		fmt.Fprintf(c.app.out, "%s\n%s\n\n", public.Title, public.Description)
		for _, q := range public.Questions {
			fmt.Fprintf(c.app.out, "[%s] %s\n", q.ID, q.Question)
			for _, o := range q.Options {
				fmt.Fprintf(c.app.out, "  %s) %s\n", o.ID, o.Text)
			}
		}
		return subcommands.ExitSuccess
	}

	answers := make(map[string]string, f.NArg()-1)
	for _, arg := range f.Args()[1:] {
		question, answer, found := strings.Cut(arg, "=")
		if !found {
			return c.app.usage("answers must look like <question>=<option>, got %q", arg)
		}
		answers[question] = answer
	}

	result := quiz.Grade(answers)
	for _, r := range result.Results {
		mark := "falsch"
		if r.Correct {
			mark = "richtig"
		}
		fmt.Fprintf(c.app.out, "[%s] %s (Antwort: %s)\n", r.QuestionID, mark, r.Answer)
		if r.Explanation != "" {
			fmt.Fprintf(c.app.out, "  %s\n", r.Explanation)
		}
	}
	fmt.Fprintf(c.app.out, "\n%d von %d richtig (%d %%), %d/%d Punkte\n",
		result.Score, result.Total, result.Percentage, result.Points, result.MaxPoints)
	return subcommands.ExitSuccess
}
