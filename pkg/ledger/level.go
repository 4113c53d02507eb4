package ledger

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Level is the severity of a finding.
type Level string

const (
	// LevelError marks a finding that makes the validated object invalid.
	LevelError Level = "ERROR"
	// LevelWarn marks a finding worth reviewing that does not affect validity.
	LevelWarn Level = "WARN"
)

// Levels returns the recognized levels in severity order.
func Levels() []Level {
	return []Level{LevelError, LevelWarn}
}

// Valid reports whether l is a recognized level.
func (l Level) Valid() bool {
	return l == LevelError || l == LevelWarn
}

func (l Level) String() string {
	return string(l)
}

// ParseLevel converts a level name into a Level.
// Matching is case-insensitive and "WARNING" is accepted as an alias of WARN.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	default:
		return "", errors.Wrapf(ErrUnknownLevel, "%q", s)
	}
}
