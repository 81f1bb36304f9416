package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio/config"
	"github.com/google/subcommands"
)

type configureCmd struct {
	finnhub string
	gemini  string
	clear   bool
}

func (*configureCmd) Name() string     { return "configure" }
func (*configureCmd) Synopsis() string { return "store credentials in the system keyring" }
func (*configureCmd) Usage() string {
	return `pft configure [-finnhub <key>] [-gemini <key>] [-clear]

  Stores the news and assistant credentials in the system keyring. Environment
  variables still take precedence. See 'pft topic config'.
`
}

func (c *configureCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.finnhub, "finnhub", "", "Finnhub API key.")
	f.StringVar(&c.gemini, "gemini", "", "Gemini API key.")
	f.BoolVar(&c.clear, "clear", false, "Remove the stored credentials.")
}

// apply stores or clears the credentials in store.
func (c *configureCmd) apply(store config.Store) ([]string, error) {
	var done []string
	if c.clear {
		for _, key := range []string{config.KeyFinnhub, config.KeyGemini} {
			if err := store.Delete(key); err != nil {
				return done, fmt.Errorf("cannot remove %s: %w", key, err)
			}
			done = append(done, "removed "+key)
		}
		return done, nil
	}
	for key, value := range map[string]string{config.KeyFinnhub: c.finnhub, config.KeyGemini: c.gemini} {
		if value == "" {
			continue
		}
		if err := store.Set(key, value); err != nil {
			return done, fmt.Errorf("cannot store %s: %w", key, err)
		}
		done = append(done, "stored "+key)
	}
	return done, nil
}

func (c *configureCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.clear && c.finnhub == "" && c.gemini == "" {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	done, err := c.apply(config.Keyring{})
	for _, d := range done {
		fmt.Println(d)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
