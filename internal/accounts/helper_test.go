package accounts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sortfin/sortfin/internal/assets"
	"github.com/sortfin/sortfin/internal/fx"
)

func leaf(t *testing.T, name, unit string, v float64) *Account {
	t.Helper()
	a, err := NewLeaf(name, unit, v)
	require.NoError(t, err)
	return a
}

func folder(t *testing.T, name, unit string, children ...*Account) *Account {
	t.Helper()
	a, err := NewFolder(name, unit, children...)
	require.NoError(t, err)
	return a
}

// sampleTree returns:
//
//	acc2 (EUR)
//	  sa0 102 EUR
//	  sa1 (EUR)
//	    sa00 52 EUR
//	    sa01 12 EUR
//	  sa3 (JPY)
//	    x 100000 JPY
//	    y (JPY)
func sampleTree(t *testing.T) *Account {
	t.Helper()
	return folder(t, "acc2", "EUR",
		leaf(t, "sa0", "EUR", 102),
		folder(t, "sa1", "EUR",
			leaf(t, "sa00", "EUR", 52),
			leaf(t, "sa01", "EUR", 12),
		),
		folder(t, "sa3", "JPY",
			leaf(t, "x", "JPY", 100000),
			folder(t, "y", "JPY"),
		),
	)
}

func sampleAssets(t *testing.T) *assets.Database {
	t.Helper()
	db, err := assets.NewDatabase(
		assets.New("EUR", "€"),
		assets.New("USD", "$"),
		assets.New("GBP", "£"),
		assets.Asset{Name: "JPY", Symbol: "¥", DecimalSymbol: ".", SeparatorSymbol: ",", Decimals: 0, GroupSize: 4},
		assets.New("CHF", "Fr"),
	)
	require.NoError(t, err)
	return db
}

// sampleMarket quotes EUR/USD=1.05, GBP/JPY=200, GBP/USD=1.5.
func sampleMarket(t *testing.T, db *assets.Database) *fx.Market {
	t.Helper()
	m := fx.NewMarket()
	for _, q := range []fx.Quote{
		{Pair: fx.Pair{Base: "EUR", Quote: "USD"}, Rate: 1.05},
		{Pair: fx.Pair{Base: "GBP", Quote: "JPY"}, Rate: 200},
		{Pair: fx.Pair{Base: "GBP", Quote: "USD"}, Rate: 1.5},
	} {
		ok, err := m.AddQuote(db, q.Base, q.Quote, q.Rate)
		require.NoError(t, err)
		require.True(t, ok)
	}
	return m
}
