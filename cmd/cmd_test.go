package cmd

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/etnz/folio"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/date"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

func TestParseCashArgs(t *testing.T) {
	tests := []struct {
		args    []string
		op      string
		amount  float64
		wantErr bool
	}{
		{args: nil, op: "show"},
		{args: []string{"add", "500"}, op: "add", amount: 500},
		{args: []string{"remove", "12.5"}, op: "remove", amount: 12.5},
		{args: []string{"add"}, wantErr: true},
		{args: []string{"add", "-5"}, wantErr: true},
		{args: []string{"add", "0"}, wantErr: true},
		{args: []string{"add", "ten"}, wantErr: true},
		{args: []string{"spend", "5"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(fmtArgs(tt.args), func(t *testing.T) {
			op, amount, err := parseCashArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.op, op)
			assert.Equal(t, tt.amount, amount)
		})
	}
}

func fmtArgs(args []string) string {
	if len(args) == 0 {
		return "empty"
	}
	var b bytes.Buffer
	for i, a := range args {
		if i > 0 {
			b.WriteString("_")
		}
		b.WriteString(a)
	}
	return b.String()
}

func TestBuyMutation(t *testing.T) {
	c := &buyCmd{symbol: "aapl", kind: "stock", quantity: 3, date: "2025-1-2"}
	m, err := c.mutation()
	require.NoError(t, err)
	assert.Equal(t, folio.Buy, m.Action)
	assert.Equal(t, date.New(2025, 1, 2), m.PurchaseDate)
	assert.True(t, m.Quantity.Equal(folio.Q(3)))

	c.date = "yesterday-ish"
	_, err = c.mutation()
	assert.Error(t, err)
}

// countingSource holds one AAPL lot and counts the calls it receives.
type countingSource struct {
	calls     atomic.Int32
	mutations []folio.Mutation
}

func (s *countingSource) Holdings(context.Context) ([]folio.Holding, error) {
	s.calls.Add(1)
	return []folio.Holding{{ID: "1", Symbol: "AAPL", AssetType: "STOCK", Quantity: folio.Q(1), BuyPrice: folio.M(10, "USD")}}, nil
}

func (s *countingSource) Performance(context.Context) (folio.Performance, error) {
	s.calls.Add(1)
	return folio.Performance{}, nil
}

func (s *countingSource) History(context.Context) ([]folio.HistoryPoint, error) {
	s.calls.Add(1)
	return nil, folio.ErrNoHistory
}

func (s *countingSource) Mutate(_ context.Context, m folio.Mutation) error {
	s.calls.Add(1)
	s.mutations = append(s.mutations, m)
	return nil
}

func TestApplyMutation(t *testing.T) {
	ctx := context.Background()
	newEngine := func(src folio.DataSource) *folio.Engine {
		return folio.NewEngine(src, folio.NewCashLedger(folio.M(0, "USD")), zerolog.Nop())
	}

	t.Run("invalid sell makes no call", func(t *testing.T) {
		for _, m := range []folio.Mutation{
			{Action: folio.Sell, Quantity: folio.Q(1)},
			{Action: folio.Sell, Symbol: "AAPL", Quantity: folio.Q(0)},
		} {
			src := &countingSource{}
			var stderr bytes.Buffer
			_, status := apply(ctx, newEngine(src), m, &stderr)
			assert.Equal(t, subcommands.ExitUsageError, status)
			assert.Contains(t, stderr.String(), "invalid mutation")
			assert.Zero(t, src.calls.Load())
		}
	})

	t.Run("sell by symbol resolves the lot", func(t *testing.T) {
		src := &countingSource{}
		var stderr bytes.Buffer
		s, status := apply(ctx, newEngine(src), folio.Mutation{Action: folio.Sell, Symbol: "aapl", Quantity: folio.Q(1)}, &stderr)
		require.Equal(t, subcommands.ExitSuccess, status, stderr.String())
		require.NotNil(t, s)
		require.Len(t, src.mutations, 1)
		assert.Equal(t, "1", src.mutations[0].ID)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		var stderr bytes.Buffer
		_, status := apply(ctx, newEngine(&countingSource{}), folio.Mutation{Action: folio.Sell, Symbol: "MSFT", Quantity: folio.Q(1)}, &stderr)
		assert.Equal(t, subcommands.ExitUsageError, status)
		assert.Contains(t, stderr.String(), "no lot found")
	})
}

func TestNewLogger(t *testing.T) {
	var b bytes.Buffer
	log := newLogger(&b, "info")
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	assert.NotContains(t, b.String(), "hidden")
	assert.Contains(t, b.String(), "shown")

	assert.Equal(t, zerolog.WarnLevel, newLogger(&b, "loud").GetLevel())
}

func TestConfigure(t *testing.T) {
	gokeyring.MockInit()
	store := config.Keyring{}

	c := &configureCmd{finnhub: "fh-token"}
	done, err := c.apply(store)
	require.NoError(t, err)
	assert.Equal(t, []string{"stored " + config.KeyFinnhub}, done)

	got, err := store.Get(config.KeyFinnhub)
	require.NoError(t, err)
	assert.Equal(t, "fh-token", got)

	c = &configureCmd{clear: true}
	_, err = c.apply(store)
	require.NoError(t, err)
	_, err = store.Get(config.KeyFinnhub)
	assert.True(t, errors.Is(err, config.ErrNotFound))
}
