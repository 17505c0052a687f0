package accounts

import (
	"errors"
	"fmt"

	"github.com/sortfin/sortfin/internal/fx"
)

// ErrMissingQuote is returned when a balance cannot be converted to the
// requested unit.
var ErrMissingQuote = errors.New("no quote")

// Quoter resolves exchange rates. *fx.Market satisfies it.
type Quoter interface {
	Quote(checker fx.AssetChecker, a, b string) (float64, bool, error)
}

// Price is an amount in a unit.
type Price struct {
	Value float64
	Unit  string
}

// Total converts the subtree balance to unit ("" means the account's own
// unit). Folders sum their children; a single unconvertible balance fails
// the whole total.
func (a *Account) Total(q Quoter, checker fx.AssetChecker, unit string) (float64, error) {
	if unit == "" {
		unit = a.Unit
	}
	return a.total(q, checker, unit, Path{}.Join(a.Name))
}

func (a *Account) total(q Quoter, checker fx.AssetChecker, unit string, at Path) (float64, error) {
	if !a.folder {
		rate, found, err := q.Quote(checker, a.Unit, unit)
		if err != nil {
			return 0, fmt.Errorf("valuing %s: %w", at, err)
		}
		if !found {
			return 0, fmt.Errorf("valuing %s: %w for %s to %s", at, ErrMissingQuote, a.Unit, unit)
		}
		return a.value * rate, nil
	}

	sum := 0.0
	for _, c := range a.children {
		v, err := c.total(q, checker, unit, at.Join(c.Name))
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum, nil
}

// Price returns Total together with the unit it is expressed in.
func (a *Account) Price(q Quoter, checker fx.AssetChecker, unit string) (Price, error) {
	if unit == "" {
		unit = a.Unit
	}
	v, err := a.Total(q, checker, unit)
	if err != nil {
		return Price{}, err
	}
	return Price{Value: v, Unit: unit}, nil
}
