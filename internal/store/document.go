// Package store converts sessions to and from nested-list documents and
// encodes those documents as YAML or MessagePack.
//
// Shapes:
//
//	asset     [name, symbol, decimal_symbol, separator_symbol, decimals, group_size]
//	market    [[base, quote, rate], ...]
//	account   [name, unit, value | [account, ...]]
//	statement [timestamp, market, account]
//	session   [[asset, ...], [[timestamp, branch, statement], ...]]
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/sortfin/sortfin/internal/accounts"
	"github.com/sortfin/sortfin/internal/assets"
	"github.com/sortfin/sortfin/internal/fx"
	"github.com/sortfin/sortfin/internal/session"
	"github.com/sortfin/sortfin/internal/statement"
)

// ErrShape is returned when a document element does not have the expected
// shape.
var ErrShape = errors.New("malformed document")

const (
	assetFields     = 6
	quoteFields     = 3
	accountFields   = 3
	statementFields = 3
	entryFields     = 3
	sessionFields   = 2
)

// EncodeAsset returns the document form of a.
func EncodeAsset(a assets.Asset) []any {
	return []any{a.Name, a.Symbol, a.DecimalSymbol, a.SeparatorSymbol, a.Decimals, a.GroupSize}
}

// DecodeAsset parses the document form of an asset.
func DecodeAsset(doc any) (assets.Asset, error) {
	list, err := asList(doc, assetFields, "asset")
	if err != nil {
		return assets.Asset{}, err
	}
	var a assets.Asset
	var strs [4]string
	for i := range strs {
		if strs[i], err = asString(list[i], "asset field"); err != nil {
			return assets.Asset{}, err
		}
	}
	a.Name, a.Symbol, a.DecimalSymbol, a.SeparatorSymbol = strs[0], strs[1], strs[2], strs[3]
	if a.Decimals, err = asInt(list[4], "asset decimals"); err != nil {
		return assets.Asset{}, err
	}
	if a.GroupSize, err = asInt(list[5], "asset group size"); err != nil {
		return assets.Asset{}, err
	}
	if err := a.Validate(); err != nil {
		return assets.Asset{}, err
	}
	return a, nil
}

// EncodeMarket returns the direct quotes of m, sorted by pair.
func EncodeMarket(m *fx.Market) []any {
	quotes := m.Quotes()
	out := make([]any, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, []any{q.Base, q.Quote, q.Rate})
	}
	return out
}

// DecodeMarket rebuilds a market by adding every quote in turn, so quotes
// that were already resolvable from earlier ones are rejected.
func DecodeMarket(doc any, checker fx.AssetChecker) (*fx.Market, error) {
	list, err := asList(doc, -1, "market")
	if err != nil {
		return nil, err
	}
	m := fx.NewMarket()
	for i, item := range list {
		q, err := asList(item, quoteFields, "quote")
		if err != nil {
			return nil, fmt.Errorf("quote %d: %w", i, err)
		}
		base, err := asString(q[0], "quote base")
		if err != nil {
			return nil, fmt.Errorf("quote %d: %w", i, err)
		}
		quote, err := asString(q[1], "quote asset")
		if err != nil {
			return nil, fmt.Errorf("quote %d: %w", i, err)
		}
		rate, err := asFloat(q[2], "quote rate")
		if err != nil {
			return nil, fmt.Errorf("quote %d: %w", i, err)
		}
		added, err := m.AddQuote(checker, base, quote, rate)
		if err != nil {
			return nil, fmt.Errorf("quote %s/%s: %w", base, quote, err)
		}
		if !added {
			return nil, fmt.Errorf("quote %s/%s: %w: redundant quote", base, quote, ErrShape)
		}
	}
	return m, nil
}

// EncodeAccount returns the document form of the subtree at a.
func EncodeAccount(a *accounts.Account) []any {
	if a.IsTerminal() {
		return []any{a.Name, a.Unit, a.Value()}
	}
	children := make([]any, 0, len(a.Children()))
	for _, c := range a.Children() {
		children = append(children, EncodeAccount(c))
	}
	return []any{a.Name, a.Unit, children}
}

// DecodeAccount parses an account subtree. A number as the third element
// makes a terminal account, a list makes a folder.
func DecodeAccount(doc any) (*accounts.Account, error) {
	list, err := asList(doc, accountFields, "account")
	if err != nil {
		return nil, err
	}
	name, err := asString(list[0], "account name")
	if err != nil {
		return nil, err
	}
	unit, err := asString(list[1], "account unit")
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", name, err)
	}

	if items, ok := list[2].([]any); ok {
		children := make([]*accounts.Account, 0, len(items))
		for _, item := range items {
			c, err := DecodeAccount(item)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", name, err)
			}
			children = append(children, c)
		}
		return accounts.NewFolder(name, unit, children...)
	}

	value, err := asFloat(list[2], "account value")
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", name, err)
	}
	return accounts.NewLeaf(name, unit, value)
}

// EncodeStatement returns the document form of st.
func EncodeStatement(st *statement.Statement) []any {
	return []any{encodeTime(st.Date), EncodeMarket(st.Market), EncodeAccount(st.Root)}
}

// DecodeStatement parses a statement whose quotes reference assets known to
// checker.
func DecodeStatement(doc any, checker fx.AssetChecker) (*statement.Statement, error) {
	list, err := asList(doc, statementFields, "statement")
	if err != nil {
		return nil, err
	}
	date, err := asTime(list[0], "statement date")
	if err != nil {
		return nil, err
	}
	m, err := DecodeMarket(list[1], checker)
	if err != nil {
		return nil, fmt.Errorf("statement %s: %w", encodeTime(date), err)
	}
	root, err := DecodeAccount(list[2])
	if err != nil {
		return nil, fmt.Errorf("statement %s: %w", encodeTime(date), err)
	}
	return &statement.Statement{Date: date, Market: m, Root: root}, nil
}

// EncodeSession returns the document form of s with statements ordered by
// date, then branch.
func EncodeSession(s *session.Session) []any {
	list := make([]any, 0, s.Assets.Len())
	for _, a := range s.Assets.All() {
		list = append(list, EncodeAsset(a))
	}
	keys := s.Keys()
	entries := make([]any, 0, len(keys))
	for _, k := range keys {
		st, _ := s.Statement(k.Date, k.Branch)
		entries = append(entries, []any{encodeTime(k.Date), k.Branch, EncodeStatement(st)})
	}
	return []any{list, entries}
}

// DecodeSession parses a whole session.
func DecodeSession(doc any) (*session.Session, error) {
	top, err := asList(doc, sessionFields, "session")
	if err != nil {
		return nil, err
	}
	assetDocs, err := asList(top[0], -1, "asset list")
	if err != nil {
		return nil, err
	}
	db, _ := assets.NewDatabase()
	for i, ad := range assetDocs {
		a, err := DecodeAsset(ad)
		if err != nil {
			return nil, fmt.Errorf("asset %d: %w", i, err)
		}
		if err := db.Add(a); err != nil {
			return nil, err
		}
	}

	entryDocs, err := asList(top[1], -1, "statement list")
	if err != nil {
		return nil, err
	}
	s := session.New(db)
	for i, ed := range entryDocs {
		entry, err := asList(ed, entryFields, "statement entry")
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		date, err := asTime(entry[0], "entry date")
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		branch, err := asString(entry[1], "entry branch")
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		st, err := DecodeStatement(entry[2], db)
		if err != nil {
			return nil, fmt.Errorf("entry %s %s: %w", encodeTime(date), branch, err)
		}
		if s.Has(date, branch) {
			return nil, fmt.Errorf("entry %s %s: %w: duplicate key", encodeTime(date), branch, ErrShape)
		}
		st.Date = date
		s.Put(branch, st)
	}
	return s, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func asList(v any, n int, what string) ([]any, error) {
	list, ok := v.([]any)
	if !ok {
		if v == nil && n < 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s must be a list, got %T", ErrShape, what, v)
	}
	if n >= 0 && len(list) != n {
		return nil, fmt.Errorf("%w: %s must have %d elements, got %d", ErrShape, what, n, len(list))
	}
	return list, nil
}

func asString(v any, what string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrShape, what, v)
	}
	return s, nil
}

func asTime(v any, what string) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return session.Normalize(t), nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s: %v", ErrShape, what, err)
		}
		return session.Normalize(parsed), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %s must be a timestamp, got %T", ErrShape, what, v)
	}
}

func asFloat(v any, what string) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrShape, what, v)
	}
}

func asInt(v any, what string) (int, error) {
	f, err := asFloat(v, what)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrShape, what, f)
	}
	return int(f), nil
}
