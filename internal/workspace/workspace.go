// Package workspace manages the .sortfin directory: configuration, session
// files, the checked-out position and the action log.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sortfin/sortfin/internal/actions"
	"github.com/sortfin/sortfin/internal/config"
	"github.com/sortfin/sortfin/internal/session"
	"github.com/sortfin/sortfin/internal/store"
)

// Layout under the workspace root.
const (
	DirName     = ".sortfin"
	ConfigFile  = "sortfin.yaml"
	CurrentFile = "current.yaml"
	SessionsDir = "sessions"
	LogsDir     = "logs"
	LogFile     = "actions.csv"
)

var (
	// ErrNotWorkspace is returned when no .sortfin directory is found.
	ErrNotWorkspace = errors.New("not a sortfin workspace (run `sortfin init`)")
	// ErrWorkspaceExists is returned by Init on an initialized directory.
	ErrWorkspaceExists = errors.New("workspace already initialized")
	// ErrNoCurrent is returned when no session has been created or selected.
	ErrNoCurrent = errors.New("no current session (run `sortfin create` or `sortfin use`)")
	// ErrSessionNotFound is returned for an unknown session name.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExists is returned when creating a session that exists.
	ErrSessionExists = errors.New("session already exists")
	// ErrInvalidName is returned for session names that cannot be file names.
	ErrInvalidName = errors.New("invalid session name")
)

// Current is the persisted checked-out position.
type Current struct {
	Session string    `yaml:"session"`
	Branch  string    `yaml:"branch"`
	Date    time.Time `yaml:"date"`
}

// Workspace is an initialized directory.
type Workspace struct {
	Root   string
	Config *config.Config
}

// Init creates the workspace layout in dir and writes cfg.
func Init(dir string, cfg *config.Config) (*Workspace, error) {
	w := &Workspace{Root: dir, Config: cfg}
	if _, err := os.Stat(w.Path()); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceExists, dir)
	}
	for _, d := range []string{SessionsDir, LogsDir} {
		if err := os.MkdirAll(w.Path(d), 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", d, err)
		}
	}
	if err := config.Save(w.Path(ConfigFile), cfg); err != nil {
		return nil, err
	}
	return w, nil
}

// Open finds the workspace containing dir, searching parent directories.
func Open(dir string) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	for cur := abs; ; {
		if info, err := os.Stat(filepath.Join(cur, DirName)); err == nil && info.IsDir() {
			cfg, err := config.Load(filepath.Join(cur, DirName, ConfigFile))
			if err != nil {
				return nil, err
			}
			return &Workspace{Root: cur, Config: cfg}, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("%w: %s", ErrNotWorkspace, abs)
		}
		cur = parent
	}
}

// Path joins elem under the .sortfin directory.
func (w *Workspace) Path(elem ...string) string {
	return filepath.Join(append([]string{w.Root, DirName}, elem...)...)
}

// LogPath is the action log file.
func (w *Workspace) LogPath() string {
	return w.Path(LogsDir, LogFile)
}

// Sessions returns the sorted names of the stored sessions.
func (w *Workspace) Sessions() ([]string, error) {
	entries, err := os.ReadDir(w.Path(SessionsDir))
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := store.FormatOf(e.Name()); err != nil {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names, nil
}

func (w *Workspace) sessionFile(name string) (string, bool) {
	for _, f := range store.Formats {
		p := w.Path(SessionsDir, name+f.Ext())
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Current reads the checked-out position.
func (w *Workspace) Current() (Current, error) {
	data, err := os.ReadFile(w.Path(CurrentFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Current{}, ErrNoCurrent
		}
		return Current{}, fmt.Errorf("reading current session: %w", err)
	}
	var cur Current
	if err := yaml.Unmarshal(data, &cur); err != nil {
		return Current{}, fmt.Errorf("parsing current session: %w", err)
	}
	if cur.Session == "" {
		return Current{}, ErrNoCurrent
	}
	cur.Date = session.Normalize(cur.Date)
	return cur, nil
}

func (w *Workspace) saveCurrent(cur Current) error {
	data, err := yaml.Marshal(cur)
	if err != nil {
		return fmt.Errorf("marshaling current session: %w", err)
	}
	if err := os.WriteFile(w.Path(CurrentFile), data, 0o644); err != nil {
		return fmt.Errorf("writing current session: %w", err)
	}
	return nil
}

// Create stores a new session in format and makes it current, positioned
// on its latest working statement.
func (w *Workspace) Create(name string, s *session.Session, format store.Format) (*Handle, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if _, ok := w.sessionFile(name); ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, name)
	}
	cur, err := workingCursor(s)
	if err != nil {
		return nil, err
	}
	h := &Handle{
		Name:    name,
		Session: s,
		Cursor:  cur,
		path:    w.Path(SessionsDir, name+format.Ext()),
		ws:      w,
	}
	if err := h.Close(); err != nil {
		return nil, err
	}
	return h, nil
}

// Use makes an existing session current. The cursor moves to its latest
// working statement, seeding one from the latest main statement if needed.
func (w *Workspace) Use(name string) (*Handle, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	path, ok := w.sessionFile(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, name)
	}
	s, err := store.Load(path)
	if err != nil {
		return nil, err
	}
	cur, err := workingCursor(s)
	if err != nil {
		return nil, err
	}
	h := &Handle{Name: name, Session: s, Cursor: cur, path: path, ws: w}
	if err := h.Close(); err != nil {
		return nil, err
	}
	return h, nil
}

func workingCursor(s *session.Session) (actions.Cursor, error) {
	if d, err := s.Latest(session.WorkingBranch); err == nil {
		return actions.Cursor{Branch: session.WorkingBranch, Date: d}, nil
	}
	d, err := s.Latest(session.MainBranch)
	if err != nil {
		return actions.Cursor{}, err
	}
	if err := s.Copy(d, session.MainBranch, d, session.WorkingBranch); err != nil {
		return actions.Cursor{}, err
	}
	return actions.Cursor{Branch: session.WorkingBranch, Date: d}, nil
}

// OpenSession loads the current session.
func (w *Workspace) OpenSession() (*Handle, error) {
	cur, err := w.Current()
	if err != nil {
		return nil, err
	}
	path, ok := w.sessionFile(cur.Session)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, cur.Session)
	}
	s, err := store.Load(path)
	if err != nil {
		return nil, err
	}
	return &Handle{
		Name:    cur.Session,
		Session: s,
		Cursor:  actions.Cursor{Branch: cur.Branch, Date: cur.Date},
		path:    path,
		ws:      w,
	}, nil
}

// Handle is an open session: load at command start, pass to every
// operation, Close to persist.
type Handle struct {
	Name    string
	Session *session.Session
	Cursor  actions.Cursor

	path string
	ws   *Workspace
}

// Path is the session file.
func (h *Handle) Path() string {
	return h.path
}

// Close writes the session and the cursor.
func (h *Handle) Close() error {
	if err := store.Save(h.path, h.Session); err != nil {
		return err
	}
	return h.ws.saveCurrent(Current{Session: h.Name, Branch: h.Cursor.Branch, Date: h.Cursor.Date})
}
