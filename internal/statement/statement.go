package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/sortfin/sortfin/internal/accounts"
	"github.com/sortfin/sortfin/internal/assets"
	"github.com/sortfin/sortfin/internal/fx"
)

// RootName is the name of the synthetic folder every account tree hangs from.
const RootName = "root"

// NoDifferences is displayed when Diff reports nothing.
const NoDifferences = "No differences found."

// Statement is one dated snapshot: a quote market and an account tree. It
// owns both exclusively.
type Statement struct {
	Date   time.Time
	Market *fx.Market
	Root   *accounts.Account
}

// New returns a statement with an empty market and a root folder in unit,
// populated from the named chart template.
func New(date time.Time, unit, chart string) (*Statement, error) {
	root, err := accounts.NewFolder(RootName, unit, accounts.DefaultChart(chart, unit)...)
	if err != nil {
		return nil, fmt.Errorf("creating root account: %w", err)
	}
	return &Statement{Date: date, Market: fx.NewMarket(), Root: root}, nil
}

// Clone deep copies the statement and re-dates the copy.
func (s *Statement) Clone(date time.Time) *Statement {
	return &Statement{
		Date:   date,
		Market: s.Market.Clone(),
		Root:   s.Root.Clone(),
	}
}

// Find returns the account at p.
func (s *Statement) Find(p accounts.Path) (*accounts.Account, error) {
	return s.Root.Find(p)
}

// AddAccount adds acc under the folder at parent. The account unit must be a
// registered asset.
func (s *Statement) AddAccount(db *assets.Database, parent accounts.Path, acc *accounts.Account) error {
	if _, err := db.Lookup(acc.Unit); err != nil {
		return fmt.Errorf("adding account %s: %w", acc.Name, err)
	}
	if err := s.Root.Add(parent, acc); err != nil {
		return fmt.Errorf("adding account %s: %w", acc.Name, err)
	}
	return nil
}

// SetValue changes the balance of the terminal account at p and returns the
// previous balance.
func (s *Statement) SetValue(p accounts.Path, v float64) (float64, error) {
	acc, err := s.Find(p)
	if err != nil {
		return 0, err
	}
	old := acc.Value()
	if err := acc.SetValue(v); err != nil {
		return 0, err
	}
	return old, nil
}

// SetUnit changes the unit of the account at p, terminal or folder, and
// returns the previous unit.
func (s *Statement) SetUnit(db *assets.Database, p accounts.Path, unit string) (string, error) {
	if _, err := db.Lookup(unit); err != nil {
		return "", err
	}
	acc, err := s.Find(p)
	if err != nil {
		return "", err
	}
	old := acc.Unit
	acc.Unit = unit
	return old, nil
}

// Structure renders the account tree followed by the market.
func (s *Statement) Structure(db *assets.Database) (string, error) {
	tree, err := s.Root.Structure(db)
	if err != nil {
		return "", err
	}
	return tree + "\n" + s.Market.String(), nil
}

// Summary renders the children of the folder at p valued in unit ("" means
// the folder's own unit).
func (s *Statement) Summary(db *assets.Database, p accounts.Path, unit string) (string, error) {
	acc, err := s.Find(p)
	if err != nil {
		return "", err
	}
	body, err := acc.Summary(s.Market, db, unit)
	if err != nil {
		return "", err
	}
	return "Statement: " + s.Date.Format(time.DateOnly) + "\n" + body, nil
}

// Diff reports how other differs from s: the date, the account tree and the
// direct quotes. The result is empty when nothing differs.
func (s *Statement) Diff(other *Statement) string {
	var b strings.Builder

	if !s.Date.Equal(other.Date) {
		if sameDay(s.Date, other.Date) {
			fmt.Fprintf(&b, "Date: %s -> %s\n", s.Date.Format(time.RFC3339), other.Date.Format(time.RFC3339))
		} else {
			fmt.Fprintf(&b, "Date: %s -> %s\n", s.Date.Format(time.DateOnly), other.Date.Format(time.DateOnly))
		}
	}

	if d := s.Root.Diff(other.Root); d != "" {
		b.WriteString("Account Structure Differences:\n")
		b.WriteString(d)
	}

	if d := marketDiff(s.Market, other.Market); d != "" {
		b.WriteString("FX Market Differences:\n")
		b.WriteString(d)
	}

	return b.String()
}

func sameDay(a, b time.Time) bool {
	return a.Format(time.DateOnly) == b.Format(time.DateOnly)
}

func marketDiff(a, b *fx.Market) string {
	var changed, removed, added strings.Builder
	for _, q := range a.Quotes() {
		r, ok := b.Rate(q.Pair)
		switch {
		case !ok:
			fmt.Fprintf(&removed, "%s: %s -> Not present in other statement\n", q.Pair, accounts.FormatNumber(q.Rate))
		case r != q.Rate:
			fmt.Fprintf(&changed, "%s: %s -> %s\n", q.Pair, accounts.FormatNumber(q.Rate), accounts.FormatNumber(r))
		}
	}
	for _, q := range b.Quotes() {
		if _, ok := a.Rate(q.Pair); !ok {
			fmt.Fprintf(&added, "%s: Not present in this statement -> %s\n", q.Pair, accounts.FormatNumber(q.Rate))
		}
	}
	return changed.String() + removed.String() + added.String()
}
