package session

import (
	"fmt"
	"time"
)

// Mode selects how Date resolves a target that is not stored verbatim.
type Mode uint8

const (
	// Exact accepts the target itself when it is stored.
	Exact Mode = 1 << iota
	// Before falls back to the latest date strictly earlier than the target.
	Before
	// After falls back to the earliest date strictly later than the target.
	After
)

func (m Mode) String() string {
	s := ""
	for _, f := range []struct {
		flag Mode
		name string
	}{{Exact, "exact"}, {Before, "before"}, {After, "after"}} {
		if m&f.flag == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += f.name
	}
	if s == "" {
		return "none"
	}
	return s
}

// Latest returns the most recent date stored on branch.
func (s *Session) Latest(branch string) (time.Time, error) {
	dates := s.Dates(branch)
	if len(dates) == 0 {
		return time.Time{}, &LookupError{Branch: branch, Err: ErrNoDate}
	}
	return dates[len(dates)-1], nil
}

// Date resolves at on branch according to mode. Only dates stored on branch
// are candidates.
func (s *Session) Date(branch string, at time.Time, mode Mode) (time.Time, error) {
	if mode == 0 || mode&(Before|After) == Before|After {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
	at = Normalize(at)

	if mode&Exact != 0 && s.Has(at, branch) {
		return at, nil
	}

	var (
		found bool
		best  time.Time
	)
	switch {
	case mode&Before != 0:
		for _, d := range s.Dates(branch) {
			if d.Before(at) {
				best, found = d, true
			}
		}
	case mode&After != 0:
		for _, d := range s.Dates(branch) {
			if d.After(at) {
				best, found = d, true
				break
			}
		}
	default:
		return time.Time{}, &LookupError{Date: at, Branch: branch, Err: ErrStatementNotFound}
	}

	if !found {
		return time.Time{}, &LookupError{Date: at, Branch: branch, Err: fmt.Errorf("%w %s", ErrNoDate, mode)}
	}
	return best, nil
}

// TryDate is Date for callers that branch on absence. Invalid modes also
// report false.
func (s *Session) TryDate(branch string, at time.Time, mode Mode) (time.Time, bool) {
	d, err := s.Date(branch, at, mode)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
