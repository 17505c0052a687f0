// Package actions implements the user-level operations on a session. Expected
// refusals come back as an Outcome with OK false and a nil error; errors are
// reserved for invalid input, failed lookups and broken invariants.
package actions

import (
	"fmt"
	"time"

	"github.com/sortfin/sortfin/internal/session"
	"github.com/sortfin/sortfin/internal/statement"
)

// Outcome reports whether an operation was carried out and why.
type Outcome struct {
	OK      bool
	Message string
}

func done(format string, args ...any) Outcome {
	return Outcome{OK: true, Message: fmt.Sprintf(format, args...)}
}

func refuse(format string, args ...any) Outcome {
	return Outcome{Message: fmt.Sprintf(format, args...)}
}

// Cursor is the checked-out position in a session.
type Cursor struct {
	Branch string
	Date   time.Time
}

func (c Cursor) String() string {
	return c.Branch + "@" + formatDate(c.Date)
}

// current returns the statement the cursor points at.
func current(s *session.Session, cur Cursor) (*statement.Statement, error) {
	return s.Statement(cur.Date, cur.Branch)
}

func formatDate(t time.Time) string {
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}
