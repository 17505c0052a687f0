package assets

import (
	"fmt"
	"sort"
	"strings"
)

// Database is the set of registered assets, unique by name.
type Database struct {
	byName map[string]Asset
}

// NewDatabase creates a Database holding the given assets.
func NewDatabase(list ...Asset) (*Database, error) {
	db := &Database{byName: make(map[string]Asset, len(list))}
	for _, a := range list {
		if err := db.Add(a); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Add registers an asset. Names must be unique.
func (db *Database) Add(a Asset) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, ok := db.byName[a.Name]; ok {
		return fmt.Errorf("%w: %s (available assets: %s)", ErrDuplicateAsset, a.Name, strings.Join(db.Names(), ", "))
	}
	db.byName[a.Name] = a
	return nil
}

// Remove unregisters the asset with the given name, if present.
func (db *Database) Remove(name string) {
	delete(db.byName, name)
}

// Get returns an asset by name.
func (db *Database) Get(name string) (Asset, bool) {
	a, ok := db.byName[name]
	return a, ok
}

// Lookup returns an asset by name or ErrUnknownAsset.
func (db *Database) Lookup(name string) (Asset, error) {
	a, ok := db.byName[name]
	if !ok {
		return Asset{}, fmt.Errorf("%w: %s", ErrUnknownAsset, name)
	}
	return a, nil
}

// Exists reports whether an asset name is registered.
func (db *Database) Exists(name string) bool {
	_, ok := db.byName[name]
	return ok
}

// Len returns the number of registered assets.
func (db *Database) Len() int {
	return len(db.byName)
}

// Names returns the registered names in sorted order.
func (db *Database) Names() []string {
	names := make([]string, 0, len(db.byName))
	for n := range db.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns the registered assets sorted by name.
func (db *Database) All() []Asset {
	out := make([]Asset, 0, len(db.byName))
	for _, n := range db.Names() {
		out = append(out, db.byName[n])
	}
	return out
}

// Clone returns a deep copy.
func (db *Database) Clone() *Database {
	c := &Database{byName: make(map[string]Asset, len(db.byName))}
	for n, a := range db.byName {
		c.byName[n] = a
	}
	return c
}

func (db *Database) String() string {
	var b strings.Builder
	b.WriteString("AssetDatabase:\n")
	for _, a := range db.All() {
		fmt.Fprintf(&b, "%s (%s)\n", a.Name, a.Symbol)
	}
	return b.String()
}
