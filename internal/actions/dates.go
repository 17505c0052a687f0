package actions

import (
	"fmt"
	"strings"
	"time"

	"github.com/sortfin/sortfin/internal/session"
)

// Checkout moves the cursor to the main date at or before target and makes
// sure a working copy exists there. A working copy left at the old date is
// removed when it matches main; pending changes, or a working copy whose main
// statement is gone, block the move.
func Checkout(s *session.Session, cur Cursor, target time.Time) (Outcome, Cursor, error) {
	resolved, err := s.Date(session.MainBranch, target, session.Exact|session.Before)
	if err != nil {
		return Outcome{}, cur, fmt.Errorf("checking out %s: %w", formatDate(target), err)
	}

	var msg strings.Builder
	if s.Has(cur.Date, session.WorkingBranch) && !cur.Date.Equal(resolved) {
		if !s.Has(cur.Date, session.MainBranch) {
			return refuse("Working branch at date %s has no main statement to compare against. "+
				"Commit it or delete it from the working branch before checking out another date.",
				formatDate(cur.Date)), cur, nil
		}
		different, err := s.IsDifferent(cur.Date, session.WorkingBranch, cur.Date, session.MainBranch)
		if err != nil {
			return Outcome{}, cur, err
		}
		if different {
			return refuse("Working branch at date %s is different from main branch. "+
				"Commit or discard changes before checking out another date.",
				formatDate(cur.Date)), cur, nil
		}
		s.Delete(cur.Date, session.WorkingBranch)
		fmt.Fprintf(&msg, "Deleted working branch at date %s.\n", formatDate(cur.Date))
	}

	if !s.Has(resolved, session.WorkingBranch) {
		if err := s.Copy(resolved, session.MainBranch, resolved, session.WorkingBranch); err != nil {
			return Outcome{}, cur, err
		}
		fmt.Fprintf(&msg, "Created working branch at date %s.\n", formatDate(resolved))
	}

	next := Cursor{Branch: session.WorkingBranch, Date: resolved}
	fmt.Fprintf(&msg, "Checked out date %s in branch %s.", formatDate(resolved), next.Branch)
	return done("%s", msg.String()), next, nil
}

// AddDate creates a main statement at date from its nearest earlier
// neighbour, or the nearest later one when date precedes all history.
func AddDate(s *session.Session, date time.Time) (Outcome, error) {
	date = session.Normalize(date)
	if s.Has(date, session.MainBranch) {
		return refuse("Date %s already exists in branch %s.", formatDate(date), session.MainBranch), nil
	}

	src, ok := s.TryDate(session.MainBranch, date, session.Before)
	if !ok {
		src, ok = s.TryDate(session.MainBranch, date, session.After)
	}
	if !ok {
		return Outcome{}, fmt.Errorf("adding date %s: %w", formatDate(date),
			&session.LookupError{Date: date, Branch: session.MainBranch, Err: session.ErrNoDate})
	}

	if err := s.Copy(src, session.MainBranch, date, session.MainBranch); err != nil {
		return Outcome{}, err
	}
	return done("Added date %s to branch %s (copied from %s).", formatDate(date), session.MainBranch, formatDate(src)), nil
}

// DeleteDate removes the statement at (date, branch). The checked-out date
// and main dates that still have a working copy are protected.
func DeleteDate(s *session.Session, cur Cursor, branch string, date time.Time) (Outcome, error) {
	date = session.Normalize(date)
	if !s.Has(date, branch) {
		return refuse("Date %s not found in branch %s.", formatDate(date), branch), nil
	}
	if date.Equal(cur.Date) {
		return refuse("You cannot delete the current date. Please checkout another date before deleting."), nil
	}
	if branch == session.MainBranch && s.Has(date, session.WorkingBranch) {
		return refuse("You cannot delete date %s from the main branch. Working branch is not fully merged yet.", formatDate(date)), nil
	}
	s.Delete(date, branch)
	return done("Deleted date %s from branch %s.", formatDate(date), branch), nil
}

// Commit copies the working statement at the cursor over main.
func Commit(s *session.Session, cur Cursor) (Outcome, error) {
	if cur.Branch != session.WorkingBranch {
		return refuse("Nothing to commit on branch %s.", cur.Branch), nil
	}
	if !s.Has(cur.Date, session.MainBranch) {
		if err := s.Copy(cur.Date, session.WorkingBranch, cur.Date, session.MainBranch); err != nil {
			return Outcome{}, err
		}
		return done("Restored main branch at date %s from working branch.", formatDate(cur.Date)), nil
	}
	different, err := s.IsDifferent(cur.Date, session.MainBranch, cur.Date, session.WorkingBranch)
	if err != nil {
		return Outcome{}, err
	}
	if !different {
		return refuse("No changes to commit at date %s.", formatDate(cur.Date)), nil
	}
	if err := s.Copy(cur.Date, session.WorkingBranch, cur.Date, session.MainBranch); err != nil {
		return Outcome{}, err
	}
	return done("Committed working branch at date %s to %s.", formatDate(cur.Date), session.MainBranch), nil
}

// Discard resets the working statement at the cursor to main.
func Discard(s *session.Session, cur Cursor) (Outcome, error) {
	if cur.Branch != session.WorkingBranch {
		return refuse("Nothing to discard on branch %s.", cur.Branch), nil
	}
	different, err := s.IsDifferent(cur.Date, session.MainBranch, cur.Date, session.WorkingBranch)
	if err != nil {
		return Outcome{}, err
	}
	if !different {
		return refuse("No changes to discard at date %s.", formatDate(cur.Date)), nil
	}
	if err := s.Copy(cur.Date, session.MainBranch, cur.Date, session.WorkingBranch); err != nil {
		return Outcome{}, err
	}
	return done("Discarded changes at date %s.", formatDate(cur.Date)), nil
}
