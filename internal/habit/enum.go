package habit

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

var AllFrequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyCustom}

func (f Frequency) IsValid() bool {
	for _, v := range AllFrequencies {
		if f == v {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusActive Status = "active"
	StatusPaused Status = "paused"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusPaused
}

// Weekday is a day index with 0 = Sunday through 6 = Saturday.
type Weekday int

func (d Weekday) IsValid() bool {
	return d >= 0 && d <= 6
}

func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday())
}

// CustomDays is a set of weekdays stored as a 7-bit mask (bit n set = Weekday n).
type CustomDays uint8

func NewCustomDays(days ...Weekday) (CustomDays, error) {
	var set CustomDays
	for _, d := range days {
		if !d.IsValid() {
			return 0, fmt.Errorf("weekday %d out of range 0-6", d)
		}
		set |= 1 << uint(d)
	}
	return set, nil
}

func (c CustomDays) Contains(d Weekday) bool {
	if !d.IsValid() {
		return false
	}
	return c&(1<<uint(d)) != 0
}

func (c CustomDays) IsEmpty() bool {
	return c&0x7F == 0
}

// Days lists the members in ascending order.
func (c CustomDays) Days() []Weekday {
	days := make([]Weekday, 0, 7)
	for d := Weekday(0); d <= 6; d++ {
		if c.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

func (c CustomDays) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Days())
}

func (c *CustomDays) UnmarshalJSON(b []byte) error {
	var days []Weekday
	if err := json.Unmarshal(b, &days); err != nil {
		return err
	}
	set, err := NewCustomDays(days...)
	if err != nil {
		return err
	}
	*c = set
	return nil
}

func (c CustomDays) Value() (driver.Value, error) {
	return int64(c & 0x7F), nil
}

func (c *CustomDays) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*c = 0
	case int64:
		*c = CustomDays(v) & 0x7F
	case []byte:
		var n int64
		if _, err := fmt.Sscan(string(v), &n); err != nil {
			return fmt.Errorf("cannot scan %q into CustomDays: %w", v, err)
		}
		*c = CustomDays(n) & 0x7F
	default:
		return fmt.Errorf("cannot scan type %T into CustomDays", value)
	}
	return nil
}

func customDaysFromInts(values []int) (CustomDays, error) {
	days := make([]Weekday, len(values))
	for i, v := range values {
		days[i] = Weekday(v)
	}
	return NewCustomDays(days...)
}

func sortedInts(c CustomDays) []int {
	days := c.Days()
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = int(d)
	}
	sort.Ints(out)
	return out
}
