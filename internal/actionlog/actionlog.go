// Package actionlog keeps an append-only CSV record of the commands run
// against a workspace.
package actionlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one executed command.
type Entry struct {
	Timestamp time.Time
	Command   string
	Session   string
	Branch    string
	Date      time.Time // cursor date after the command; zero when none
	OK        bool
	Message   string
}

// Header is the CSV header for actions.csv.
const Header = "timestamp,command,session,branch,date,ok,message"

const (
	numFields    = 7
	colTimestamp = 0
	colCommand   = 1
	colSession   = 2
	colBranch    = 3
	colDate      = 4
	colOK        = 5
	colMessage   = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colCommand] = e.Command
	row[colSession] = e.Session
	row[colBranch] = e.Branch
	if !e.Date.IsZero() {
		row[colDate] = e.Date.UTC().Format(time.RFC3339)
	}
	row[colOK] = strconv.FormatBool(e.OK)
	row[colMessage] = strings.TrimSpace(e.Message)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var date time.Time
	if record[colDate] != "" {
		date, err = time.Parse(time.RFC3339, record[colDate])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
		}
	}

	ok, err := strconv.ParseBool(record[colOK])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing ok %q: %w", record[colOK], err)
	}

	return Entry{
		Timestamp: ts,
		Command:   record[colCommand],
		Session:   record[colSession],
		Branch:    record[colBranch],
		Date:      date,
		OK:        ok,
		Message:   record[colMessage],
	}, nil
}

// Append writes entries to path, creating the file and header if needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening action log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from path. Returns an empty slice if the file
// does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening action log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Tail returns the last n entries, all of them when n <= 0.
func Tail(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading action log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
