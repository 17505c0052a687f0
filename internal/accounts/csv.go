package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

const (
	numFields = 3
	colPath   = 0
	colUnit   = 1
	colValue  = 2
)

// LeafRecord is one row of a balances CSV: a terminal account, its unit and
// its balance.
type LeafRecord struct {
	Path  Path
	Unit  string
	Value float64
}

// ReadLeaves reads a balances CSV (header row first).
func ReadLeaves(r io.Reader) ([]LeafRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading balances CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var leaves []LeafRecord
	for i, rec := range records[1:] {
		leaf, err := UnmarshalLeaf(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		leaves = append(leaves, leaf)
	}
	return leaves, nil
}

// WriteLeaves writes every terminal account under root as a balances CSV.
// Paths are relative to root.
func WriteLeaves(w io.Writer, root *Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"path", "unit", "value"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 1
	err := root.Walk(func(p Path, acc *Account) error {
		if !acc.IsTerminal() || p.IsEmpty() {
			return nil
		}
		row++
		if err := cw.Write(MarshalLeaf(LeafRecord{Path: p, Unit: acc.Unit, Value: acc.value})); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// MarshalLeaf converts a LeafRecord to a CSV row.
func MarshalLeaf(l LeafRecord) []string {
	row := make([]string, numFields)
	row[colPath] = l.Path.String()
	row[colUnit] = l.Unit
	row[colValue] = FormatNumber(l.Value)
	return row
}

// UnmarshalLeaf converts a CSV row to a LeafRecord.
func UnmarshalLeaf(record []string) (LeafRecord, error) {
	if len(record) != numFields {
		return LeafRecord{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	p, err := ParsePath(record[colPath])
	if err != nil {
		return LeafRecord{}, fmt.Errorf("parsing path %q: %w", record[colPath], err)
	}
	if p.IsEmpty() {
		return LeafRecord{}, fmt.Errorf("parsing path: %w: root is not a terminal account", ErrInvalidPath)
	}

	v, err := decimal.NewFromString(record[colValue])
	if err != nil {
		return LeafRecord{}, fmt.Errorf("parsing value %q: %w", record[colValue], err)
	}

	return LeafRecord{
		Path:  p,
		Unit:  record[colUnit],
		Value: v.InexactFloat64(),
	}, nil
}
