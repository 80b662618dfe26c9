package shortcut

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyChord   = errors.New("empty chord")
	ErrInvalidChord = errors.New("invalid chord")
)

// Event is a single key press as reported by the client
type Event struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Meta  bool   `json:"meta"`
	Shift bool   `json:"shift"`
	Alt   bool   `json:"alt"`
}

// Primary reports whether the platform primary modifier is held
func (e Event) Primary() bool {
	return e.Ctrl || e.Meta
}

// String returns a canonical chord-like representation
func (e Event) String() string {
	var parts []string
	if e.Primary() {
		parts = append(parts, "mod")
	}
	if e.Alt {
		parts = append(parts, "alt")
	}
	if e.Shift {
		parts = append(parts, "shift")
	}
	parts = append(parts, strings.ToLower(e.Key))
	return strings.Join(parts, "+")
}

// Chord is a parsed key combination
type Chord struct {
	Key     string
	Primary bool
	Shift   bool
	Alt     bool
}

// ParseChord parses specs like "mod+z", "Ctrl+Shift+Z" or "cmd+shift+z".
// ctrl, cmd, meta and mod all name the primary modifier.
func ParseChord(spec string) (Chord, error) {
	spec = strings.TrimSpace(strings.ToLower(spec))
	if spec == "" {
		return Chord{}, ErrEmptyChord
	}

	parts := strings.Split(spec, "+")
	var c Chord
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i == len(parts)-1 {
			if part == "" {
				return Chord{}, fmt.Errorf("%w: %q has no key", ErrInvalidChord, spec)
			}
			c.Key = part
			break
		}
		switch part {
		case "mod", "primary", "ctrl", "control", "cmd", "command", "meta":
			c.Primary = true
		case "shift":
			c.Shift = true
		case "alt", "option", "opt":
			c.Alt = true
		default:
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidChord, part)
		}
	}
	return c, nil
}

// MustParseChord is ParseChord for package-level chord tables
func MustParseChord(spec string) Chord {
	c, err := ParseChord(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// Matches reports whether the event is exactly this chord. Extra modifiers
// prevent a match, so mod+z does not fire for mod+shift+z.
func (c Chord) Matches(e Event) bool {
	return strings.EqualFold(e.Key, c.Key) &&
		e.Primary() == c.Primary &&
		e.Shift == c.Shift &&
		e.Alt == c.Alt
}
