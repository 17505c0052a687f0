package fx

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/sortfin/sortfin/internal/assets"
)

var (
	// ErrInvalidRate is returned for non-positive or non-finite rates.
	ErrInvalidRate = errors.New("rate must be positive")
	// ErrSameAsset is returned when a quote would pair an asset with itself.
	ErrSameAsset = errors.New("cannot quote an asset against itself")
	// ErrAmbiguousQuote means both orientations of a pair are stored. AddQuote
	// never produces this state, so it indicates a corrupted market.
	ErrAmbiguousQuote = errors.New("multiple direct quotes for pair")
	// ErrNoDirectQuote is returned when a pair has no stored quote in either orientation.
	ErrNoDirectQuote = errors.New("no direct quote for pair")
)

// AssetChecker tests whether an asset name is registered.
type AssetChecker interface {
	Exists(name string) bool
}

// Pair is an ordered asset pair: 1 Base = rate Quote.
type Pair struct {
	Base  string
	Quote string
}

func (p Pair) String() string {
	return p.Base + "/" + p.Quote
}

// Reverse returns the pair with both sides swapped.
func (p Pair) Reverse() Pair {
	return Pair{Base: p.Quote, Quote: p.Base}
}

// Quote is a stored direct rate.
type Quote struct {
	Pair
	Rate float64
}

// Market holds direct quotes and a cache of rates resolved through other
// assets. The cache is flushed whenever a quote is added.
type Market struct {
	quotes    map[Pair]float64
	secondary *cache.Cache
}

// NewMarket returns an empty market.
func NewMarket() *Market {
	return &Market{
		quotes:    make(map[Pair]float64),
		secondary: cache.New(cache.NoExpiration, 0),
	}
}

// Quote returns the rate converting one unit of a into b. found is false when
// both assets are known but no chain of quotes links them.
func (m *Market) Quote(checker AssetChecker, a, b string) (rate float64, found bool, err error) {
	if a == b {
		return 1, true, nil
	}
	for _, name := range []string{a, b} {
		if !checker.Exists(name) {
			return 0, false, fmt.Errorf("%w: %s", assets.ErrUnknownAsset, name)
		}
	}

	rate, found, err = m.direct(a, b)
	if err != nil || found {
		return rate, found, err
	}

	if rate, found = m.cached(a, b); found {
		return rate, true, nil
	}

	rate, found = m.search(a, b)
	if found {
		m.secondary.Set(cacheKey(a, b), rate, cache.NoExpiration)
	}
	return rate, found, nil
}

// direct looks up a stored quote in either orientation.
func (m *Market) direct(a, b string) (float64, bool, error) {
	fwd, okFwd := m.quotes[Pair{Base: a, Quote: b}]
	rev, okRev := m.quotes[Pair{Base: b, Quote: a}]
	switch {
	case okFwd && okRev:
		return 0, false, fmt.Errorf("%w: %s/%s", ErrAmbiguousQuote, a, b)
	case okFwd:
		return fwd, true, nil
	case okRev:
		return 1 / rev, true, nil
	}
	return 0, false, nil
}

func (m *Market) cached(a, b string) (float64, bool) {
	if v, ok := m.secondary.Get(cacheKey(a, b)); ok {
		return v.(float64), true
	}
	if v, ok := m.secondary.Get(cacheKey(b, a)); ok {
		return 1 / v.(float64), true
	}
	return 0, false
}

func cacheKey(a, b string) string {
	return a + "/" + b
}

// AddQuote stores 1 a = rate b. It returns false without changing anything
// when a rate between the two assets can already be resolved.
func (m *Market) AddQuote(checker AssetChecker, a, b string, rate float64) (bool, error) {
	if err := checkRate(rate); err != nil {
		return false, err
	}
	if a == b {
		return false, fmt.Errorf("%w: %s/%s", ErrSameAsset, a, b)
	}

	for p := range m.quotes {
		if p.Base == p.Quote {
			delete(m.quotes, p)
		}
	}

	_, found, err := m.Quote(checker, a, b)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}

	m.quotes[Pair{Base: a, Quote: b}] = rate
	m.secondary.Flush()
	return true, nil
}

// ModifyQuote overwrites an existing direct quote. When the pair is stored in
// the reverse orientation the reciprocal is written. Cached secondary rates
// are left as they are until the next AddQuote.
func (m *Market) ModifyQuote(a, b string, rate float64) error {
	if err := checkRate(rate); err != nil {
		return err
	}
	if a == b {
		return fmt.Errorf("%w: %s/%s", ErrSameAsset, a, b)
	}

	fwd := Pair{Base: a, Quote: b}
	if _, ok := m.quotes[fwd]; ok {
		m.quotes[fwd] = rate
		return nil
	}
	if _, ok := m.quotes[fwd.Reverse()]; ok {
		m.quotes[fwd.Reverse()] = 1 / rate
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNoDirectQuote, fwd)
}

// RemoveQuote deletes the direct quote between a and b in whichever
// orientation it is stored.
func (m *Market) RemoveQuote(a, b string) error {
	fwd := Pair{Base: a, Quote: b}
	removed := false
	for _, p := range []Pair{fwd, fwd.Reverse()} {
		if _, ok := m.quotes[p]; ok {
			delete(m.quotes, p)
			removed = true
		}
	}
	if !removed {
		return fmt.Errorf("%w: %s", ErrNoDirectQuote, fwd)
	}
	m.secondary.Flush()
	return nil
}

func checkRate(rate float64) error {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("%w, not %v", ErrInvalidRate, rate)
	}
	return nil
}

// Rate returns the stored direct quote for p in its exact orientation.
func (m *Market) Rate(p Pair) (float64, bool) {
	r, ok := m.quotes[p]
	return r, ok
}

// Has reports whether p is stored directly in either orientation.
func (m *Market) Has(p Pair) bool {
	_, fwd := m.quotes[p]
	_, rev := m.quotes[p.Reverse()]
	return fwd || rev
}

// Len returns the number of direct quotes.
func (m *Market) Len() int {
	return len(m.quotes)
}

// Quotes returns the direct quotes sorted by pair.
func (m *Market) Quotes() []Quote {
	out := make([]Quote, 0, len(m.quotes))
	for p, r := range m.quotes {
		out = append(out, Quote{Pair: p, Rate: r})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Base != out[j].Base {
			return out[i].Base < out[j].Base
		}
		return out[i].Quote < out[j].Quote
	})
	return out
}

// Assets returns the sorted names of every asset with a direct quote.
func (m *Market) Assets() []string {
	seen := make(map[string]bool)
	for p := range m.quotes {
		seen[p.Base] = true
		seen[p.Quote] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone copies the direct quotes. The secondary cache starts empty.
func (m *Market) Clone() *Market {
	c := NewMarket()
	for p, r := range m.quotes {
		c.quotes[p] = r
	}
	return c
}

func (m *Market) String() string {
	var b strings.Builder
	b.WriteString("FX Market:\n")
	for _, q := range m.Quotes() {
		fmt.Fprintf(&b, "%s : %s\n", q.Pair, decimal.NewFromFloat(q.Rate).Round(4))
	}
	return b.String()
}
