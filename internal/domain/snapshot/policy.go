package snapshot

import (
	"github.com/aperdana/networth/internal/date"
	"github.com/aperdana/networth/internal/domain/user"
)

// State places a snapshot date relative to "today" in the reference zone.
// A snapshot is only mutable while its date is still today; once the day
// passes it is frozen.
type State int

const (
	StatePast State = iota
	StateToday
	StateFuture
)

func (s State) String() string {
	switch s {
	case StatePast:
		return "past"
	case StateToday:
		return "today"
	case StateFuture:
		return "future"
	}

	return "unknown"
}

func Classify(snapshotDate, today date.Date) State {
	switch {
	case snapshotDate.After(today):
		return StateFuture
	case snapshotDate.Before(today):
		return StatePast
	}

	return StateToday
}

// CanCreate rejects future-dated snapshots. Today and any past date are fine.
func CanCreate(snapshotDate, today date.Date) error {
	if Classify(snapshotDate, today) == StateFuture {
		return ErrFutureDate
	}

	return nil
}

// CanUpdate: value updates are only allowed while the snapshot is today's,
// regardless of who asks.
func CanUpdate(s State) bool {
	return s == StateToday
}

// CanDelete: today's snapshots may be deleted by any authenticated user,
// historical ones only by an admin.
func CanDelete(s State, role string) bool {
	if s == StateToday {
		return true
	}

	return role == user.RoleAdmin
}
