package commands

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sortfin/sortfin/internal/actionlog"
	"github.com/sortfin/sortfin/internal/actions"
	"github.com/sortfin/sortfin/internal/gitops"
	"github.com/sortfin/sortfin/internal/logger"
	"github.com/sortfin/sortfin/internal/statement"
	"github.com/sortfin/sortfin/internal/workspace"
)

// env is an opened workspace plus the writers and logger of one invocation.
type env struct {
	ws  *workspace.Workspace
	log zerolog.Logger
	out io.Writer
}

func newLogger(cmd *cobra.Command, level string, pretty bool) zerolog.Logger {
	return logger.New(logger.Config{Level: level, Pretty: pretty, Out: cmd.ErrOrStderr()})
}

// open loads the workspace containing --dir.
func (o *globalOptions) open(cmd *cobra.Command) (*env, error) {
	ws, err := workspace.Open(o.dir)
	if err != nil {
		return nil, err
	}
	level := ws.Config.Log.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	e := &env{
		ws:  ws,
		log: newLogger(cmd, level, ws.Config.Log.Pretty),
		out: cmd.OutOrStdout(),
	}
	e.log.Debug().Str("root", ws.Root).Msg("opened workspace")
	return e, nil
}

// read opens the current session and the statement at its cursor.
func (e *env) read() (*workspace.Handle, *statement.Statement, error) {
	h, err := e.ws.OpenSession()
	if err != nil {
		return nil, nil, err
	}
	st, err := h.Session.Statement(h.Cursor.Date, h.Cursor.Branch)
	if err != nil {
		return nil, nil, err
	}
	return h, st, nil
}

// mutate runs fn against the current session and prints its outcome. A
// carried-out operation is saved, logged and, when enabled, committed.
// Refusals are logged but leave the session file untouched.
func (e *env) mutate(command string, fn func(h *workspace.Handle) (actions.Outcome, error)) error {
	h, err := e.ws.OpenSession()
	if err != nil {
		return err
	}
	out, err := fn(h)
	if err != nil {
		e.log.Error().Err(err).Str("command", command).Msg("command failed")
		return err
	}
	fmt.Fprintln(e.out, out.Message)
	if out.OK {
		if err := h.Close(); err != nil {
			return err
		}
	}
	return e.record(command, h.Name, h.Cursor, out)
}

// record appends the outcome to the action log and commits the workspace
// if the outcome changed anything.
func (e *env) record(command, session string, cur actions.Cursor, out actions.Outcome) error {
	entry := actionlog.Entry{
		Timestamp: time.Now(),
		Command:   command,
		Session:   session,
		Branch:    cur.Branch,
		Date:      cur.Date,
		OK:        out.OK,
		Message:   out.Message,
	}
	if err := actionlog.Append(e.ws.LogPath(), []actionlog.Entry{entry}); err != nil {
		return err
	}
	e.log.Info().
		Str("command", command).
		Str("session", session).
		Stringer("cursor", cur).
		Bool("ok", out.OK).
		Msg(firstLine(out.Message))

	if !out.OK || !e.ws.Config.Git.AutoCommit {
		return nil
	}
	return e.commit(command, out.Message)
}

func (e *env) commit(command, summary string) error {
	if !gitops.IsRepo(e.ws.Root) {
		e.log.Warn().Str("root", e.ws.Root).Msg("git.auto_commit is set but the workspace is not a git repository")
		return nil
	}
	author := gitops.Author{Name: e.ws.Config.Git.AuthorName, Email: e.ws.Config.Git.AuthorEmail}
	hash, err := gitops.CommitAll(e.ws.Root, gitops.Message(command, summary), author)
	if err != nil {
		return fmt.Errorf("committing workspace: %w", err)
	}
	if hash != "" {
		e.log.Debug().Str("commit", hash).Msg("committed workspace")
	}
	return nil
}

// parseDate accepts the configured display layout, a plain date or a full
// RFC 3339 timestamp.
func parseDate(layout, s string) (time.Time, error) {
	if strings.EqualFold(s, "today") {
		return today(), nil
	}
	for _, l := range []string{layout, time.DateOnly, time.RFC3339} {
		if l == "" {
			continue
		}
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected %s)", s, layout)
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// displayDate prints midnight dates in layout and anything else in full.
func displayDate(layout string, t time.Time) string {
	if t.Equal(t.Truncate(24*time.Hour)) && layout != "" {
		return t.Format(layout)
	}
	return t.Format(time.RFC3339)
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

func parsePair(s string) (string, string, error) {
	a, b, ok := strings.Cut(s, "/")
	if !ok || a == "" || b == "" || strings.Contains(b, "/") {
		return "", "", fmt.Errorf("invalid asset pair %q (expected A/B)", s)
	}
	return a, b, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
