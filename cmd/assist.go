package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/folio/agent"
	"github.com/etnz/folio/config"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	model string
}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "start an interactive session with the AI assistant"
}
func (*assistCmd) Usage() string {
	return `pft assist [-model <model>] [<question>]

  Starts an interactive session with the AI assistant. It knows the
  portfolio, its history and the news of the watchlist. The question, if
  any, is asked first. Type 'bye' to exit.

  Requires GEMINI_API_KEY, see 'pft topic config'.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", "", "Gemini model, overrides the configuration.")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := strings.Join(f.Args(), " ")

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	key, err := config.Secret(a.secrets, config.KeyGemini)
	if err != nil || key == "" {
		fmt.Fprintf(os.Stderr, "Error: %s is not set, run 'pft configure -gemini <key>'\n", config.EnvName(config.KeyGemini))
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: key, Backend: genai.BackendGeminiAPI})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	model := c.model
	if model == "" {
		model = a.cfg.Assist.Model
	}
	trader := agent.NewTrader(model)
	accountant := agent.NewAccountant(model, a.engine, a.tracker)
	for _, e := range []*agent.Expert{trader, accountant} {
		e.Log = a.log
	}
	assistant := agent.New(os.Stdout, os.Stdin, model, trader, accountant)
	assistant.Render = func(md string) string {
		out, err := renderMarkdown(md)
		if err != nil {
			return md
		}
		return out
	}

	if err := assistant.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
