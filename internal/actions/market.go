package actions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sortfin/sortfin/internal/accounts"
	"github.com/sortfin/sortfin/internal/assets"
	"github.com/sortfin/sortfin/internal/fx"
	"github.com/sortfin/sortfin/internal/session"
)

// AssetParams describes a new asset and the quote linking it to the market.
// An empty Symbol takes the currency defaults for Name; Decimals below zero
// keeps them.
type AssetParams struct {
	Name     string
	Symbol   string
	Decimals int
	Pair     string
	Rate     float64
}

// AddAsset registers a new asset and quotes it in every market of the cursor
// branch dated at or after the cursor. Pair is "A/B" and must name the new
// asset on one side and an existing asset on the other.
func AddAsset(s *session.Session, cur Cursor, p AssetParams) (Outcome, error) {
	base, quote, ok := strings.Cut(p.Pair, "/")
	if !ok || base == "" || quote == "" || strings.Contains(quote, "/") {
		return refuse("Please provide the asset pair in the format `asset1/asset2`, not %q.", p.Pair), nil
	}
	other := quote
	switch p.Name {
	case base:
	case quote:
		other = base
	default:
		return refuse("Asset pair %s does not reference the new asset %s.", p.Pair, p.Name), nil
	}
	if !s.Assets.Exists(other) {
		return refuse("Asset %s not found in the asset database.", other), nil
	}
	if s.Assets.Exists(p.Name) {
		return refuse("Asset %s already exists.", p.Name), nil
	}

	asset := assets.FromCurrency(p.Name)
	asset.Name = p.Name
	if p.Symbol != "" {
		asset = assets.New(p.Name, p.Symbol)
	}
	if p.Decimals >= 0 {
		asset.Decimals = p.Decimals
	}
	if err := asset.Validate(); err != nil {
		return Outcome{}, err
	}
	if err := s.Assets.Add(asset); err != nil {
		return Outcome{}, err
	}

	// Markets that already resolve the pair keep their rate.
	var quoted []*fx.Market
	for _, m := range s.MarketsFrom(cur.Branch, cur.Date) {
		added, err := m.AddQuote(s.Assets, base, quote, p.Rate)
		if err != nil {
			for _, q := range quoted {
				_ = q.RemoveQuote(base, quote)
			}
			s.Assets.Remove(p.Name)
			return Outcome{}, fmt.Errorf("quoting %s: %w", p.Pair, err)
		}
		if added {
			quoted = append(quoted, m)
		}
	}
	return done("Asset %s added to branch %s, date >= %s with %s @ %s (%d statements).",
		p.Name, cur.Branch, formatDate(cur.Date), p.Pair, accounts.FormatNumber(p.Rate), len(quoted)), nil
}

// AddQuote adds a direct quote to the market at the cursor. A pair that
// already resolves, directly or through other assets, is refused.
func AddQuote(s *session.Session, cur Cursor, base, quote string, rate float64) (Outcome, error) {
	st, err := current(s, cur)
	if err != nil {
		return Outcome{}, err
	}
	added, err := st.Market.AddQuote(s.Assets, base, quote, rate)
	if err != nil {
		return Outcome{}, err
	}
	if !added {
		existing, _, err := st.Market.Quote(s.Assets, base, quote)
		if err != nil {
			return Outcome{}, err
		}
		return refuse("Quote %s/%s already resolves to %s.", base, quote, accounts.FormatNumber(existing)), nil
	}
	return done("Quote %s/%s @ %s added.", base, quote, accounts.FormatNumber(rate)), nil
}

// ChangeQuote overwrites a direct quote in the market at the cursor.
func ChangeQuote(s *session.Session, cur Cursor, base, quote string, rate float64) (Outcome, error) {
	st, err := current(s, cur)
	if err != nil {
		return Outcome{}, err
	}
	old, _, err := st.Market.Quote(s.Assets, base, quote)
	if err != nil {
		return Outcome{}, err
	}
	if err := st.Market.ModifyQuote(base, quote, rate); err != nil {
		if errors.Is(err, fx.ErrNoDirectQuote) {
			return refuse("No direct quote for %s/%s to change.", base, quote), nil
		}
		return Outcome{}, err
	}
	return done("Quote %s/%s: %s -> %s.", base, quote, accounts.FormatNumber(old), accounts.FormatNumber(rate)), nil
}
