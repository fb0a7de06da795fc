package values

import (
	"fmt"
	"strings"
)

// Level is the severity of a presubmit finding.
// Errors block the change, warnings ask for confirmation and
// notifications are informational only.
type Level struct {
	value LevelValue
}

// LevelValue is the internal representation
type LevelValue int

const (
	LevelUnknown LevelValue = 0
	LevelNotify  LevelValue = 1
	LevelWarning LevelValue = 2
	LevelError   LevelValue = 3
)

// Predefined levels
var (
	LvlUnknown = Level{LevelUnknown}
	LvlNotify  = Level{LevelNotify}
	LvlWarning = Level{LevelWarning}
	LvlError   = Level{LevelError}
)

// NewLevel creates a Level from string
func NewLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "notify":
		return LvlNotify, nil
	case "warning":
		return LvlWarning, nil
	case "error":
		return LvlError, nil
	case "":
		return LvlUnknown, nil
	default:
		return Level{}, fmt.Errorf("invalid level: %s", s)
	}
}

// MustNewLevel creates a Level or panics
func MustNewLevel(s string) Level {
	lvl, err := NewLevel(s)
	if err != nil {
		panic(err)
	}
	return lvl
}

// String returns the string representation
func (l Level) String() string {
	switch l.value {
	case LevelNotify:
		return "notify"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return ""
	}
}

// IsError reports whether the finding blocks the change.
func (l Level) IsError() bool {
	return l.value == LevelError
}

// IsHigherThan returns true if this level is more severe than the other
func (l Level) IsHigherThan(other Level) bool {
	return l.value > other.value
}

// Equals checks if two levels are equal
func (l Level) Equals(other Level) bool {
	return l.value == other.value
}

// MarshalText implements encoding.TextMarshaler, used by both the JSON
// and YAML encoders.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Level) UnmarshalText(data []byte) error {
	lvl, err := NewLevel(string(data))
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}
