package accounts

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidAccount is returned when an account fails construction rules.
	ErrInvalidAccount = errors.New("invalid account")
	// ErrAccountNotFound is returned when a path segment matches no child.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAmbiguousAccount means several siblings match one segment, which only
	// happens in a corrupted tree.
	ErrAmbiguousAccount = errors.New("multiple accounts match")
	// ErrTerminalAccount is returned when an operation needs a folder.
	ErrTerminalAccount = errors.New("account is terminal")
	// ErrFolderAccount is returned when an operation needs a terminal account.
	ErrFolderAccount = errors.New("account is a folder")
	// ErrDuplicateAccount is returned when a sibling with the same name exists.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrFolderNotEmpty is returned when removing a folder that has children.
	ErrFolderNotEmpty = errors.New("folder is not empty")
)

// Account is a node of the chart of accounts: either a terminal account
// holding a balance or a folder owning an ordered list of children. Unit is
// an asset name, resolved against the asset database when needed.
type Account struct {
	Name     string
	Unit     string
	value    float64
	children []*Account
	folder   bool
}

// NewLeaf creates a terminal account.
func NewLeaf(name, unit string, value float64) (*Account, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if err := checkValue(name, value); err != nil {
		return nil, err
	}
	return &Account{Name: name, Unit: unit, value: value}, nil
}

// NewFolder creates a folder account owning children.
func NewFolder(name, unit string, children ...*Account) (*Account, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	f := &Account{Name: name, Unit: unit, folder: true}
	for _, c := range children {
		if c == nil {
			return nil, fmt.Errorf("%w: nil child in %s", ErrInvalidAccount, name)
		}
		if f.child(c.Name) != nil {
			return nil, fmt.Errorf("%w: %s in %s", ErrDuplicateAccount, c.Name, name)
		}
		f.children = append(f.children, c)
	}
	return f, nil
}

func checkValue(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s has non-finite value %v", ErrInvalidAccount, name, v)
	}
	return nil
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: account name is not set properly [%s]", ErrInvalidAccount, name)
	}
	if name == "." || strings.Contains(name, "/") {
		return fmt.Errorf("%w: account name %q must not be '.' or contain '/'", ErrInvalidAccount, name)
	}
	return nil
}

func (a *Account) String() string {
	return a.Name + " " + a.Unit
}

// IsTerminal reports whether the account holds a balance.
func (a *Account) IsTerminal() bool {
	return !a.folder
}

// Value returns the balance of a terminal account, zero for folders.
func (a *Account) Value() float64 {
	return a.value
}

// SetValue changes the balance of a terminal account.
func (a *Account) SetValue(v float64) error {
	if a.folder {
		return fmt.Errorf("%w: cannot set value on %s", ErrFolderAccount, a.Name)
	}
	if err := checkValue(a.Name, v); err != nil {
		return err
	}
	a.value = v
	return nil
}

// Children returns the direct children of a folder. The slice is a copy; the
// accounts are not.
func (a *Account) Children() []*Account {
	return append([]*Account(nil), a.children...)
}

// child returns the sibling matching name case-insensitively.
func (a *Account) child(name string) *Account {
	for _, c := range a.children {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// Find resolves a path one segment at a time, matching names
// case-insensitively. The empty path returns a itself.
func (a *Account) Find(p Path) (*Account, error) {
	cur := a
	for i, seg := range p.parts {
		if !cur.folder {
			return nil, fmt.Errorf("%w: account %s cannot have sub accounts (looking up %s)", ErrTerminalAccount, cur.Name, p)
		}
		var matches []*Account
		for _, c := range cur.children {
			if strings.EqualFold(c.Name, seg) {
				matches = append(matches, c)
			}
		}
		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("%w: no match for %s in %s", ErrAccountNotFound, strings.Join(p.parts[:i+1], "/"), cur.Name)
		case 1:
			cur = matches[0]
		default:
			return nil, fmt.Errorf("%w: %d matches for %s in %s", ErrAmbiguousAccount, len(matches), seg, cur.Name)
		}
	}
	return cur, nil
}

// Add appends acc to the folder at parent.
func (a *Account) Add(parent Path, acc *Account) error {
	if acc == nil {
		return fmt.Errorf("%w: nil account", ErrInvalidAccount)
	}
	f, err := a.Find(parent)
	if err != nil {
		return err
	}
	if !f.folder {
		return fmt.Errorf("%w: cannot add an account to %s", ErrTerminalAccount, f.Name)
	}
	if f.child(acc.Name) != nil {
		return fmt.Errorf("%w: %s in %s", ErrDuplicateAccount, acc.Name, parent)
	}
	f.children = append(f.children, acc)
	return nil
}

// Remove detaches the account at p. Folders must be empty.
func (a *Account) Remove(p Path) error {
	parentPath, err := p.Parent()
	if err != nil {
		return fmt.Errorf("%w: cannot remove the root account", ErrInvalidPath)
	}
	target, err := a.Find(p)
	if err != nil {
		return err
	}
	if target.folder && len(target.children) > 0 {
		return fmt.Errorf("%w: %s has %d sub accounts", ErrFolderNotEmpty, p, len(target.children))
	}
	parent, err := a.Find(parentPath)
	if err != nil {
		return err
	}
	for i, c := range parent.children {
		if c == target {
			parent.children = append(parent.children[:i:i], parent.children[i+1:]...)
			break
		}
	}
	return nil
}

// Clone returns a deep copy of the subtree.
func (a *Account) Clone() *Account {
	c := &Account{Name: a.Name, Unit: a.Unit, value: a.value, folder: a.folder}
	for _, ch := range a.children {
		c.children = append(c.children, ch.Clone())
	}
	return c
}

// Walk calls fn for a and every descendant in depth-first order, with paths
// relative to a.
func (a *Account) Walk(fn func(p Path, acc *Account) error) error {
	return a.walk(Path{}, fn)
}

func (a *Account) walk(p Path, fn func(Path, *Account) error) error {
	if err := fn(p, a); err != nil {
		return err
	}
	for _, c := range a.children {
		if err := c.walk(p.Join(c.Name), fn); err != nil {
			return err
		}
	}
	return nil
}
