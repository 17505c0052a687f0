package assets

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAsset is returned when an asset fails validation.
	ErrInvalidAsset = errors.New("invalid asset")
	// ErrUnknownAsset is returned when an asset name is not registered.
	ErrUnknownAsset = errors.New("unknown asset")
	// ErrDuplicateAsset is returned when an asset name is already registered.
	ErrDuplicateAsset = errors.New("asset already exists")
)

// Asset is a currency or unit with its display rules.
// Two assets are equal only if every field matches.
type Asset struct {
	Name            string
	Symbol          string
	DecimalSymbol   string
	SeparatorSymbol string
	Decimals        int
	GroupSize       int
}

// New returns an asset with the default formatting rules ("." decimals,
// "," thousands, 2 digits, groups of 3).
func New(name, symbol string) Asset {
	return Asset{
		Name:            name,
		Symbol:          symbol,
		DecimalSymbol:   ".",
		SeparatorSymbol: ",",
		Decimals:        2,
		GroupSize:       3,
	}
}

// FromCurrency builds an asset from the ISO 4217 table. Codes the table does
// not know get the default rules and the first letter of the code as symbol.
func FromCurrency(code string) Asset {
	code = strings.ToUpper(strings.TrimSpace(code))
	cur := money.GetCurrency(code)
	if cur == nil {
		return New(code, defaultSymbol(code))
	}
	a := New(cur.Code, cur.Grapheme)
	if cur.Decimal != "" {
		a.DecimalSymbol = cur.Decimal
	}
	if cur.Thousand != "" {
		a.SeparatorSymbol = cur.Thousand
	}
	a.Decimals = cur.Fraction
	return a
}

func defaultSymbol(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}
	return strings.ToUpper(string(r))
}

// Validate checks that the asset can be registered.
func (a Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAsset)
	}
	if strings.ContainsAny(a.Name, "/ ") {
		return fmt.Errorf("%w: name %q must not contain '/' or spaces", ErrInvalidAsset, a.Name)
	}
	if a.Decimals < 0 {
		return fmt.Errorf("%w: %s has negative decimal count %d", ErrInvalidAsset, a.Name, a.Decimals)
	}
	if a.GroupSize < 1 {
		return fmt.Errorf("%w: %s has group size %d", ErrInvalidAsset, a.Name, a.GroupSize)
	}
	return nil
}

func (a Asset) String() string {
	return a.Name
}

// Format renders v with the asset symbol, grouped thousands and at most
// Decimals fractional digits. Zero fractions are omitted.
//
//	USD.Format(1234.5)   -> "$ 1,234.50"
//	USD.Format(-100)     -> "- $ 100"
//	JPY4.Format(100000)  -> "¥ 10,0000"
func (a Asset) Format(v float64) string {
	d := decimal.NewFromFloat(v).Round(int32(a.Decimals))
	if d.IsZero() {
		return a.Symbol + " 0"
	}

	sign := ""
	if d.IsNegative() {
		sign = "- "
		d = d.Neg()
	}

	whole, frac, _ := strings.Cut(d.StringFixed(int32(a.Decimals)), ".")

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(a.Symbol)
	b.WriteString(" ")
	b.WriteString(group(whole, a.GroupSize, a.SeparatorSymbol))
	if strings.Trim(frac, "0") != "" {
		b.WriteString(a.DecimalSymbol)
		b.WriteString(frac)
	}
	return b.String()
}

func group(digits string, size int, sep string) string {
	if size <= 0 || len(digits) <= size {
		return digits
	}
	head := len(digits) % size

	var b strings.Builder
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += size {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+size])
	}
	return b.String()
}
