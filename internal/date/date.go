package date

import (
	"fmt"
	"time"
)

// Format is the wire format for calendar dates across the whole API.
const Format = "2006-01-02"

// Date is a calendar day with no time-of-day or location attached.
// Snapshot dates are stored and compared at this granularity only.
type Date struct {
	y int
	m time.Month
	d int
}

func New(year int, month time.Month, day int) Date {
	d := Date{y: year, m: month, d: day}

	// normalize out-of-range month/day the way time.Date does
	d.y, d.m, d.d = d.time().Date()

	return d
}

// FromTime truncates t to its calendar day in t's location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()

	return Date{y: y, m: m, d: d}
}

func Parse(s string) (Date, error) {
	t, err := time.Parse(Format, s)

	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}

	return FromTime(t), nil
}

func (d Date) String() string { return d.time().Format(Format) }

func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

func (d Date) After(x Date) bool { return d.time().After(x.time()) }

func (d Date) Equal(x Date) bool { return d == x }

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return FromTime(d.time().AddDate(0, 0, n))
}

// DaysUntil returns the number of whole days from d to x.
func (d Date) DaysUntil(x Date) int {
	return int(x.time().Sub(d.time()) / (24 * time.Hour))
}

// time is the canonical representation of the day: midnight UTC.
func (d Date) time() time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)

	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: want a YYYY-MM-DD string", s)
	}

	parsed, err := Parse(s[1 : len(s)-1])

	if err != nil {
		return err
	}

	*d = parsed

	return nil
}
