package actions

import (
	"errors"
	"fmt"

	"github.com/sortfin/sortfin/internal/accounts"
	"github.com/sortfin/sortfin/internal/assets"
	"github.com/sortfin/sortfin/internal/session"
)

// AccountParams describes an account to create under Parent. An empty Unit
// inherits the parent's unit.
type AccountParams struct {
	Parent accounts.Path
	Name   string
	Folder bool
	Unit   string
	Value  float64
}

// AddAccount creates a terminal or folder account in the statement at the
// cursor.
func AddAccount(s *session.Session, cur Cursor, p AccountParams) (Outcome, error) {
	st, err := current(s, cur)
	if err != nil {
		return Outcome{}, err
	}
	parent, err := st.Find(p.Parent)
	if err != nil {
		return Outcome{}, err
	}
	if parent.IsTerminal() {
		return refuse("Cannot add an account to terminal account %s.", p.Parent), nil
	}
	unit := p.Unit
	if unit == "" {
		unit = parent.Unit
	}

	var acc *accounts.Account
	if p.Folder {
		acc, err = accounts.NewFolder(p.Name, unit)
	} else {
		acc, err = accounts.NewLeaf(p.Name, unit, p.Value)
	}
	if err != nil {
		return Outcome{}, err
	}
	if err := st.AddAccount(s.Assets, p.Parent, acc); err != nil {
		return Outcome{}, err
	}
	return done("Account %s added (%s).", p.Parent.Join(p.Name), acc.Unit), nil
}

// DeleteAccount removes the account at p. Folders must be empty.
func DeleteAccount(s *session.Session, cur Cursor, p accounts.Path) (Outcome, error) {
	st, err := current(s, cur)
	if err != nil {
		return Outcome{}, err
	}
	if err := st.Root.Remove(p); err != nil {
		if errors.Is(err, accounts.ErrFolderNotEmpty) {
			return refuse("Account %s is not empty; delete its sub accounts first.", p), nil
		}
		return Outcome{}, err
	}
	return done("Account %s deleted.", p), nil
}

// ChangeAccountValue sets the balance of the terminal account at p.
func ChangeAccountValue(s *session.Session, cur Cursor, p accounts.Path, v float64) (Outcome, error) {
	st, err := current(s, cur)
	if err != nil {
		return Outcome{}, err
	}
	acc, err := st.Find(p)
	if err != nil {
		return Outcome{}, err
	}
	if !acc.IsTerminal() {
		return refuse("Account %s is not a terminal account.", p), nil
	}
	old := acc.Value()
	if old == v {
		return refuse("Account %s value is already %s.", p, accounts.FormatNumber(v)), nil
	}
	if err := acc.SetValue(v); err != nil {
		return Outcome{}, err
	}
	return done("Account %s Value: %s -> %s.", p, accounts.FormatNumber(old), accounts.FormatNumber(v)), nil
}

// ChangeAccountUnit sets the unit of the account at p.
func ChangeAccountUnit(s *session.Session, cur Cursor, p accounts.Path, unit string) (Outcome, error) {
	st, err := current(s, cur)
	if err != nil {
		return Outcome{}, err
	}
	acc, err := st.Find(p)
	if err != nil {
		return Outcome{}, err
	}
	if acc.Unit == unit {
		return refuse("Account %s unit is already %s.", p, unit), nil
	}
	old, err := st.SetUnit(s.Assets, p, unit)
	if err != nil {
		return Outcome{}, err
	}
	return done("Account %s Unit: %s -> %s.", p, old, unit), nil
}

// ImportValues applies balances read from a CSV export to the statement at
// the cursor. Missing terminal accounts are created under their parent,
// which must exist.
func ImportValues(s *session.Session, cur Cursor, leaves []accounts.LeafRecord) (Outcome, error) {
	st, err := current(s, cur)
	if err != nil {
		return Outcome{}, err
	}

	var changed, created int
	for _, l := range leaves {
		if !s.Assets.Exists(l.Unit) {
			return Outcome{}, fmt.Errorf("importing %s: %w: %s", l.Path, assets.ErrUnknownAsset, l.Unit)
		}
		acc, err := st.Find(l.Path)
		switch {
		case errors.Is(err, accounts.ErrAccountNotFound):
			parent, perr := l.Path.Parent()
			if perr != nil {
				return Outcome{}, fmt.Errorf("importing %s: %w", l.Path, perr)
			}
			leaf, err := accounts.NewLeaf(l.Path.Name(), l.Unit, l.Value)
			if err != nil {
				return Outcome{}, err
			}
			if err := st.AddAccount(s.Assets, parent, leaf); err != nil {
				return Outcome{}, fmt.Errorf("importing %s: %w", l.Path, err)
			}
			created++
			continue
		case err != nil:
			return Outcome{}, fmt.Errorf("importing %s: %w", l.Path, err)
		}

		if !acc.IsTerminal() {
			return Outcome{}, fmt.Errorf("importing %s: %w", l.Path, accounts.ErrFolderAccount)
		}
		if acc.Value() == l.Value && acc.Unit == l.Unit {
			continue
		}
		acc.Unit = l.Unit
		if err := acc.SetValue(l.Value); err != nil {
			return Outcome{}, err
		}
		changed++
	}

	if changed == 0 && created == 0 {
		return refuse("No values changed (%d rows).", len(leaves)), nil
	}
	return done("Imported %d rows: %d changed, %d created.", len(leaves), changed, created), nil
}
