package clock

import (
	"fmt"
	"time"

	"github.com/aperdana/networth/internal/date"
)

// Clock supplies "now" and, more importantly, "today" in the single
// reference time zone the whole system uses for snapshot decisions.
// Handlers take a Clock instead of calling time.Now so tests can freeze it.
type Clock interface {
	Now() time.Time
	Today() date.Date
}

type zoneClock struct {
	loc *time.Location
}

// NewInZone returns the system clock pinned to the named IANA zone.
func NewInZone(tz string) (Clock, error) {
	loc, err := time.LoadLocation(tz)

	if err != nil {
		return nil, fmt.Errorf("load reference time zone %q: %w", tz, err)
	}

	return &zoneClock{loc: loc}, nil
}

func (c *zoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *zoneClock) Today() date.Date {
	return date.FromTime(c.Now())
}

type fixedClock struct {
	t time.Time
}

// Fixed returns a clock frozen at t. Test helper.
func Fixed(t time.Time) Clock {
	return &fixedClock{t: t}
}

func (c *fixedClock) Now() time.Time { return c.t }

func (c *fixedClock) Today() date.Date { return date.FromTime(c.t) }
