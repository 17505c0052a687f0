package accounts

import (
	"fmt"
	"strings"

	"github.com/sortfin/sortfin/internal/assets"
)

// Structure renders the tree one account per line, indented by depth:
//
//	 0. root : EUR
//	   1. root/bank : EUR -> € 1,000
func (a *Account) Structure(db *assets.Database) (string, error) {
	var b strings.Builder
	err := a.Walk(func(p Path, acc *Account) error {
		unit, err := db.Lookup(acc.Unit)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", p, err)
		}
		full := Path{}.Join(a.Name)
		if !p.IsEmpty() {
			full, _ = full.JoinPath(p)
		}
		level := p.Len()
		fmt.Fprintf(&b, "%s %d. %s : %s", strings.Repeat("  ", level), level, full, unit.Name)
		if acc.IsTerminal() {
			fmt.Fprintf(&b, " -> %s", unit.Format(acc.value))
		}
		b.WriteString("\n")
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// Summary lists the children of a folder with their total in their own unit
// and converted to unit ("" means the folder's unit).
func (a *Account) Summary(q Quoter, db *assets.Database, unit string) (string, error) {
	if !a.folder {
		return "", fmt.Errorf("%w: %s has no sub accounts to summarize", ErrTerminalAccount, a.Name)
	}
	if unit == "" {
		unit = a.Unit
	}
	target, err := db.Lookup(unit)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Account Summary: %s %s", a.Name, target.Name)
	for _, c := range a.children {
		own, err := db.Lookup(c.Unit)
		if err != nil {
			return "", fmt.Errorf("summarizing %s: %w", c.Name, err)
		}
		native, err := c.Total(q, db, own.Name)
		if err != nil {
			return "", err
		}
		converted, err := c.Total(q, db, target.Name)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\n%-11s%-15s%s", c.Name+":", own.Format(native), target.Format(converted))
	}
	total, err := a.Total(q, db, target.Name)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "\n%-26s%s\n", "Total:", target.Format(total))
	return b.String(), nil
}
