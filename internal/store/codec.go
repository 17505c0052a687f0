package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/sortfin/sortfin/internal/session"
)

// Format names an on-disk encoding.
type Format string

const (
	YAML    Format = "yaml"
	MsgPack Format = "msgpack"
)

// Formats lists the supported encodings, default first.
var Formats = []Format{YAML, MsgPack}

// ParseFormat validates a format name. The empty string selects YAML.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", YAML, "yml":
		return YAML, nil
	case MsgPack, "mp", "mpk":
		return MsgPack, nil
	default:
		return "", fmt.Errorf("unknown session format %q (choose yaml or msgpack)", s)
	}
}

// Ext returns the file extension, dot included.
func (f Format) Ext() string {
	return "." + string(f)
}

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Marshal encodes s.
func Marshal(f Format, s *session.Session) ([]byte, error) {
	doc := EncodeSession(s)
	switch f {
	case YAML:
		return yaml.Marshal(doc)
	case MsgPack:
		return msgpack.Marshal(doc)
	default:
		return nil, fmt.Errorf("unknown session format %q", f)
	}
}

// Unmarshal decodes a session.
func Unmarshal(f Format, data []byte) (*session.Session, error) {
	var doc any
	var err error
	switch f {
	case YAML:
		err = yaml.Unmarshal(data, &doc)
	case MsgPack:
		err = msgpack.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unknown session format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s session: %w", f, err)
	}
	return DecodeSession(doc)
}

// Save writes s to path in the format implied by its extension.
func Save(path string, s *session.Session) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Marshal(f, s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Load reads the session at path.
func Load(path string) (*session.Session, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	s, err := Unmarshal(f, data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}
	return s, nil
}
