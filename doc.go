// Package folio reconciles a portfolio held by a remote data source into a
// consistent view and derives its metrics.
//
// The core functionalities include:
//   - Reconciliation: merging lots (Holding) with their separately fetched
//     valuation (PerformanceQuote) into MergedHolding values, keyed by lot id
//     or by symbol.
//   - Aggregates: totals by asset class, allocation including cash, cost
//     basis and profit and loss.
//   - Cash: a local CashLedger added to every aggregate.
//   - History: the value series of the portfolio, synthesized from purchase
//     times when the data source does not provide one.
//
// The Engine ties them together: it loads the data source, publishes an
// immutable Snapshot per load cycle and validates buy and sell requests.
//
// This package serves as the foundational logic for the `pft` command-line
// tool and its HTTP server.
package folio
