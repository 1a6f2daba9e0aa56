package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// WeekdaySet set of working days, one bit per time.Weekday
type WeekdaySet uint8

// weekdayOrder Monday-first order used for encoding
var weekdayOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

var weekdayTokens = map[time.Weekday]string{
	time.Monday:    "MON",
	time.Tuesday:   "TUE",
	time.Wednesday: "WED",
	time.Thursday:  "THU",
	time.Friday:    "FRI",
	time.Saturday:  "SAT",
	time.Sunday:    "SUN",
}

// NewWeekdaySet builds a set from the given days
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// ParseWeekday parses a three-letter token (MON..SUN), case-insensitive
func ParseWeekday(token string) (time.Weekday, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	for day, t := range weekdayTokens {
		if t == token {
			return day, nil
		}
	}
	return time.Sunday, NewError(ErrValidation, fmt.Sprintf("unknown weekday %q", token))
}

// ParseWeekdaySet parses "MON,WED,FRI". Empty input yields an empty set.
func ParseWeekdaySet(s string) (WeekdaySet, error) {
	var set WeekdaySet
	if strings.TrimSpace(s) == "" {
		return set, nil
	}
	for _, token := range strings.Split(s, ",") {
		day, err := ParseWeekday(token)
		if err != nil {
			return 0, err
		}
		set = set.With(day)
	}
	return set, nil
}

// With returns the set including day
func (s WeekdaySet) With(day time.Weekday) WeekdaySet {
	return s | 1<<uint(day)
}

// Has reports whether day is a member
func (s WeekdaySet) Has(day time.Weekday) bool {
	return s&(1<<uint(day)) != 0
}

// IsEmpty reports whether no day is set
func (s WeekdaySet) IsEmpty() bool {
	return s&0x7f == 0
}

// Days lists members in Monday-first order
func (s WeekdaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for _, d := range weekdayOrder {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// Tokens lists members as MON..SUN tokens
func (s WeekdaySet) Tokens() []string {
	days := s.Days()
	tokens := make([]string, len(days))
	for i, d := range days {
		tokens[i] = weekdayTokens[d]
	}
	return tokens
}

// String encodes as "MON,WED,FRI"
func (s WeekdaySet) String() string {
	return strings.Join(s.Tokens(), ",")
}

// Value implements driver.Valuer
func (s WeekdaySet) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner
func (s *WeekdaySet) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = 0
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("weekday set: cannot scan %T", src)
	}

	parsed, err := ParseWeekdaySet(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalJSON encodes as ["MON","WED"]
func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Tokens())
}

// UnmarshalJSON accepts ["MON","WED"] or "MON,WED"
func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	var tokens []string
	if err := json.Unmarshal(data, &tokens); err != nil {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return NewError(ErrValidation, "workingDays must be a list of weekday tokens")
		}
		parsed, err := ParseWeekdaySet(joined)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}

	parsed, err := ParseWeekdaySet(strings.Join(tokens, ","))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
