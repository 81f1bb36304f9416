package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"
)

type cashCmd struct{}

func (*cashCmd) Name() string     { return "cash" }
func (*cashCmd) Synopsis() string { return "display, add or remove cash" }
func (*cashCmd) Usage() string {
	return `pft cash [add|remove <amount>]

  Without arguments, displays the cash balance. 'add' deposits and 'remove'
  withdraws a positive amount; the balance never goes below zero.

Usage Examples:
$ pft cash add 500
$ pft cash remove 120.50
`
}

func (c *cashCmd) SetFlags(f *flag.FlagSet) {}

// parseCashArgs returns the operation and amount of a cash command line.
func parseCashArgs(args []string) (op string, amount float64, err error) {
	switch len(args) {
	case 0:
		return "show", 0, nil
	case 2:
	default:
		return "", 0, fmt.Errorf("expected 'add <amount>' or 'remove <amount>'")
	}
	op = args[0]
	if op != "add" && op != "remove" {
		return "", 0, fmt.Errorf("unknown cash operation %q", op)
	}
	amount, err = strconv.ParseFloat(args[1], 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid amount %q: %w", args[1], err)
	}
	if amount <= 0 {
		return "", 0, fmt.Errorf("amount must be positive, got %v", amount)
	}
	return op, amount, nil
}

func (c *cashCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	op, amount, err := parseCashArgs(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger := a.engine.Cash()
	switch op {
	case "add":
		ledger.Add(amount)
	case "remove":
		ledger.Remove(amount)
	}
	if op != "show" {
		if err := a.saveCash(ledger.Balance()); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving cash balance: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	fmt.Printf("Cash: %s\n", ledger.Balance())
	return subcommands.ExitSuccess
}
