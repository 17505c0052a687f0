package session

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sortfin/sortfin/internal/assets"
	"github.com/sortfin/sortfin/internal/fx"
	"github.com/sortfin/sortfin/internal/statement"
)

// Conventional branch names.
const (
	MainBranch    = "main"
	WorkingBranch = "working"
)

var (
	// ErrStatementNotFound is returned when no statement is stored at a key.
	ErrStatementNotFound = errors.New("statement not found")
	// ErrNoDate is returned when a date lookup has no candidate on the branch.
	ErrNoDate = errors.New("no matching date")
	// ErrInvalidMode is returned for an empty or contradictory lookup mode.
	ErrInvalidMode = errors.New("invalid date lookup mode")
)

// LookupError carries the key a failed lookup was attempted with.
type LookupError struct {
	Date   time.Time
	Branch string
	Err    error
}

func (e *LookupError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("%v on branch %s", e.Err, e.Branch)
	}
	return fmt.Sprintf("%v at %s on branch %s", e.Err, e.Date.Format(time.RFC3339), e.Branch)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Key addresses one statement.
type Key struct {
	Date   time.Time
	Branch string
}

// Normalize strips the monotonic clock reading and the location so equal
// instants compare equal as map keys.
func Normalize(t time.Time) time.Time {
	return t.Round(0).UTC()
}

// Session is the asset registry shared by every statement plus the statements
// themselves, indexed by date and branch.
type Session struct {
	Assets *assets.Database
	data   map[Key]*statement.Statement
}

// New returns an empty session over db.
func New(db *assets.Database) *Session {
	if db == nil {
		db, _ = assets.NewDatabase()
	}
	return &Session{Assets: db, data: make(map[Key]*statement.Statement)}
}

// Initialize creates a session holding asset, a main statement at date with
// the given chart, and a working copy of it.
func Initialize(asset assets.Asset, date time.Time, chart string) (*Session, error) {
	db, err := assets.NewDatabase(asset)
	if err != nil {
		return nil, err
	}
	date = Normalize(date)
	st, err := statement.New(date, asset.Name, chart)
	if err != nil {
		return nil, err
	}
	s := New(db)
	s.Put(MainBranch, st)
	if err := s.Copy(date, MainBranch, date, WorkingBranch); err != nil {
		return nil, err
	}
	return s, nil
}

// Put stores st under its own date on branch, replacing any existing entry.
func (s *Session) Put(branch string, st *statement.Statement) {
	st.Date = Normalize(st.Date)
	s.data[Key{Date: st.Date, Branch: branch}] = st
}

// Has reports whether a statement exists at exactly (date, branch).
func (s *Session) Has(date time.Time, branch string) bool {
	_, ok := s.data[Key{Date: Normalize(date), Branch: branch}]
	return ok
}

// Len returns the number of stored statements.
func (s *Session) Len() int {
	return len(s.data)
}

// Keys returns every key ordered by date, then branch.
func (s *Session) Keys() []Key {
	keys := make([]Key, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].Date.Equal(keys[j].Date) {
			return keys[i].Date.Before(keys[j].Date)
		}
		return keys[i].Branch < keys[j].Branch
	})
	return keys
}

// Dates returns the sorted dates stored on branch.
func (s *Session) Dates(branch string) []time.Time {
	var dates []time.Time
	for k := range s.data {
		if k.Branch == branch {
			dates = append(dates, k.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Branches returns the sorted names of every branch holding a statement.
func (s *Session) Branches() []string {
	seen := make(map[string]bool)
	for k := range s.data {
		seen[k.Branch] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Statement returns the statement stored at exactly (date, branch).
func (s *Session) Statement(date time.Time, branch string) (*statement.Statement, error) {
	date = Normalize(date)
	st, ok := s.data[Key{Date: date, Branch: branch}]
	if !ok {
		return nil, &LookupError{Date: date, Branch: branch, Err: ErrStatementNotFound}
	}
	return st, nil
}

// Resolve finds a date with Date and returns the statement stored there.
func (s *Session) Resolve(branch string, at time.Time, mode Mode) (*statement.Statement, error) {
	date, err := s.Date(branch, at, mode)
	if err != nil {
		return nil, err
	}
	return s.Statement(date, branch)
}

// Copy deep copies the statement at the source key to the destination key,
// re-dated to dateTo. An existing destination is overwritten.
func (s *Session) Copy(dateFrom time.Time, branchFrom string, dateTo time.Time, branchTo string) error {
	src, err := s.Statement(dateFrom, branchFrom)
	if err != nil {
		return fmt.Errorf("copying statement: %w", err)
	}
	s.Put(branchTo, src.Clone(Normalize(dateTo)))
	return nil
}

// Delete removes the statement at (date, branch) if present.
func (s *Session) Delete(date time.Time, branch string) {
	delete(s.data, Key{Date: Normalize(date), Branch: branch})
}

// Diff compares the statement at (date1, branch1) with the one at
// (date2, branch2). An empty string means they are identical.
func (s *Session) Diff(date1 time.Time, branch1 string, date2 time.Time, branch2 string) (string, error) {
	a, err := s.Statement(date1, branch1)
	if err != nil {
		return "", err
	}
	b, err := s.Statement(date2, branch2)
	if err != nil {
		return "", err
	}
	return a.Diff(b), nil
}

// IsDifferent reports whether Diff finds anything.
func (s *Session) IsDifferent(date1 time.Time, branch1 string, date2 time.Time, branch2 string) (bool, error) {
	d, err := s.Diff(date1, branch1, date2, branch2)
	if err != nil {
		return false, err
	}
	return d != "", nil
}

// MarketsFrom returns the markets of every statement on branch dated at or
// after date, oldest first.
func (s *Session) MarketsFrom(branch string, date time.Time) []*fx.Market {
	date = Normalize(date)
	var out []*fx.Market
	for _, d := range s.Dates(branch) {
		if d.Before(date) {
			continue
		}
		out = append(out, s.data[Key{Date: d, Branch: branch}].Market)
	}
	return out
}

// Clone deep copies the assets and every statement.
func (s *Session) Clone() *Session {
	c := New(s.Assets.Clone())
	for k, st := range s.data {
		c.data[k] = st.Clone(k.Date)
	}
	return c
}
