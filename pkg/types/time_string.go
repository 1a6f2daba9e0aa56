package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	timeLayout     = "15:04"
	minutesPerDay  = 24 * 60
	dbTimeLayout   = "15:04:05"
	dbTimeTZLayout = "15:04:05Z07:00"
)

var (
	// ErrInvalidTimeString is returned when a value is not a valid HH:MM time of day
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow is returned when arithmetic leaves the 00:00-23:59 range
	ErrTimeOverflow = errors.New("time of day overflow")
)

// TimeString is a time of day at minute resolution, formatted as "HH:MM".
// The zero value ("") means "not set".
type TimeString string

// NewTimeString extracts the time of day from t, truncated to the minute
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString parses "HH:MM" (or "HH:MM:SS", seconds must be zero)
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)

	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, err = time.Parse(dbTimeLayout, s)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
		if t.Second() != 0 {
			return "", fmt.Errorf("%w: %q has non-zero seconds", ErrInvalidTimeString, s)
		}
	}

	return TimeString(t.Format(timeLayout)), nil
}

// FromMinutes builds a TimeString from minutes since midnight
func FromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOverflow, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// MustFromString is NewTimeStringFromString for constants, it panics on bad input
func MustFromString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// String returns the HH:MM representation
func (t TimeString) String() string {
	return string(t)
}

// IsZero reports whether the time is not set
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate checks the HH:MM format
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(t)); err != nil || len(t) != len(timeLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// Minutes returns minutes since midnight. Invalid values return -1.
func (t TimeString) Minutes() int {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// AddMinutes returns t shifted by n minutes without wrapping past midnight
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	return FromMinutes(t.Minutes() + n)
}

// IsBefore reports whether t is strictly earlier than other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter reports whether t is strictly later than other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// Equal compares at minute resolution
func (t TimeString) Equal(other TimeString) bool {
	return t.Minutes() == other.Minutes() && t.Minutes() >= 0
}

// OnDate places the time of day on the given calendar date
func (t TimeString) OnDate(date time.Time) time.Time {
	m := t.Minutes()
	y, mo, d := date.Date()
	return time.Date(y, mo, d, m/60, m%60, 0, 0, date.Location())
}

// Value implements driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// Scan implements sql.Scanner. Postgres TIME columns arrive as "HH:MM:SS".
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	if parsed, err := time.Parse(dbTimeTZLayout, s); err == nil {
		*t = NewTimeString(parsed)
		return nil
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON encodes as "HH:MM"
func (t TimeString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// UnmarshalJSON accepts "HH:MM"
func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeString, err)
	}
	if s == "" {
		*t = ""
		return nil
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
