package cmd

import (
	"flag"

	"github.com/etnz/folio/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the command line.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"config":    predict.Files("*.yaml"),
			"log-level": predict.Set{"debug", "info", "warn", "error"},
		},
	}
	for _, e := range Commands {
		fs := flag.NewFlagSet(e.Cmd.Name(), flag.ContinueOnError)
		e.Cmd.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) {
			sub.Flags[f.Name] = predict.Something
		})
		root.Sub[e.Cmd.Name()] = sub
	}

	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(topics)
	}
	root.Sub["cash"].Args = predict.Set{"add", "remove"}
	root.Sub["watchlist"].Args = predict.Set{"add", "remove"}
	root.Sub["sectors"].Args = predict.Set{"catalog", "add", "remove"}
	return root
}
