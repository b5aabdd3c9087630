package snapshot_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aperdana/networth/internal/date"
	"github.com/aperdana/networth/internal/domain/snapshot"
	"github.com/aperdana/networth/internal/domain/user"
	"github.com/shopspring/decimal"
)

var today = date.New(2025, time.June, 15)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		d    date.Date
		want snapshot.State
	}{
		{name: "yesterday", d: today.AddDays(-1), want: snapshot.StatePast},
		{name: "long_ago", d: today.AddDays(-400), want: snapshot.StatePast},
		{name: "today", d: today, want: snapshot.StateToday},
		{name: "tomorrow", d: today.AddDays(1), want: snapshot.StateFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := snapshot.Classify(tt.d, today); got != tt.want {
				t.Fatalf("Classify(%s) = %s, want %s", tt.d, got, tt.want)
			}
		})
	}
}

func TestCanCreate(t *testing.T) {
	if err := snapshot.CanCreate(today, today); err != nil {
		t.Fatalf("today should be creatable: %v", err)
	}

	if err := snapshot.CanCreate(today.AddDays(-30), today); err != nil {
		t.Fatalf("past dates should be creatable: %v", err)
	}

	err := snapshot.CanCreate(today.AddDays(1), today)

	if !errors.Is(err, snapshot.ErrFutureDate) {
		t.Fatalf("tomorrow: got %v, want ErrFutureDate", err)
	}
}

func TestCanUpdate(t *testing.T) {
	if !snapshot.CanUpdate(snapshot.StateToday) {
		t.Fatal("today's snapshot must be updatable")
	}

	// past snapshots are frozen for everyone, admins included
	if snapshot.CanUpdate(snapshot.StatePast) {
		t.Fatal("past snapshot must not be updatable")
	}
}

func TestCanDelete(t *testing.T) {
	tests := []struct {
		name  string
		state snapshot.State
		role  string
		want  bool
	}{
		{name: "today_user", state: snapshot.StateToday, role: user.RoleUser, want: true},
		{name: "today_admin", state: snapshot.StateToday, role: user.RoleAdmin, want: true},
		{name: "past_user", state: snapshot.StatePast, role: user.RoleUser, want: false},
		{name: "past_admin", state: snapshot.StatePast, role: user.RoleAdmin, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := snapshot.CanDelete(tt.state, tt.role); got != tt.want {
				t.Fatalf("CanDelete(%s, %s) = %v, want %v", tt.state, tt.role, got, tt.want)
			}
		})
	}
}

func TestValidateValue(t *testing.T) {
	zero := decimal.Zero
	neg := decimal.NewFromInt(-1)
	pos := decimal.RequireFromString("10.25")

	if err := snapshot.ValidateValue(&zero); err != nil {
		t.Fatalf("zero should be valid: %v", err)
	}

	if err := snapshot.ValidateValue(&pos); err != nil {
		t.Fatalf("positive should be valid: %v", err)
	}

	if err := snapshot.ValidateValue(&neg); !errors.Is(err, snapshot.ErrNegativeValue) {
		t.Fatalf("negative: got %v, want ErrNegativeValue", err)
	}

	if err := snapshot.ValidateValue(nil); !errors.Is(err, snapshot.ErrNegativeValue) {
		t.Fatalf("nil: got %v, want ErrNegativeValue", err)
	}
}
