package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aperdana/networth/internal/cache"
	"github.com/aperdana/networth/internal/date"
	"github.com/aperdana/networth/internal/domain/networth"
	"github.com/aperdana/networth/internal/domain/user"
	"github.com/aperdana/networth/internal/http/handlers"
	"github.com/shopspring/decimal"
)

type fakeHistoriesRepo struct {
	calls       int
	historiesFn func(ctx context.Context) ([]networth.AssetHistory, error)
}

func (f *fakeHistoriesRepo) Histories(ctx context.Context) ([]networth.AssetHistory, error) {
	f.calls++

	if f.historiesFn != nil {
		return f.historiesFn(ctx)
	}

	return nil, nil
}

type seriesPoint struct {
	SnapshotDate string `json:"snapshot_date"`
	TotalValue   string `json:"total_value"`
}

func getSeries(t *testing.T, h *handlers.DashboardHandler, target string) (int, []seriesPoint) {
	t.Helper()

	r := setupRouter(http.MethodGet, "/dashboard/net-worth", identity("u1", user.RoleUser), h.NetWorth)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var points []seriesPoint

	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &points); err != nil {
			t.Fatalf("unmarshal series: %v, body=%s", err, w.Body.String())
		}
	}

	return w.Code, points
}

func TestNetWorthWindow(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantDays  int
		wantFirst date.Date
	}{
		{name: "default", target: "/dashboard/net-worth", wantDays: 30, wantFirst: day(-29)},
		{name: "explicit", target: "/dashboard/net-worth?days=7", wantDays: 7, wantFirst: day(-6)},
		{name: "clamped_low", target: "/dashboard/net-worth?days=0", wantDays: 1, wantFirst: day(0)},
		{name: "clamped_high", target: "/dashboard/net-worth?days=9999", wantDays: 365, wantFirst: day(-364)},
		{name: "garbage_falls_back", target: "/dashboard/net-worth?days=abc", wantDays: 30, wantFirst: day(-29)},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeHistoriesRepo{}
			h := handlers.NewDashboardHandler(repo, frozenClock(), cache.New(time.Minute))

			code, points := getSeries(t, h, tt.target)

			if code != http.StatusOK {
				t.Fatalf("got status %d, want 200", code)
			}

			if len(points) != tt.wantDays {
				t.Fatalf("got %d points, want %d", len(points), tt.wantDays)
			}

			if points[0].SnapshotDate != tt.wantFirst.String() {
				t.Fatalf("first point date = %s, want %s", points[0].SnapshotDate, tt.wantFirst)
			}

			if points[len(points)-1].SnapshotDate != day(0).String() {
				t.Fatalf("last point date = %s, want %s", points[len(points)-1].SnapshotDate, day(0))
			}
		})
	}
}

func TestNetWorthForwardFill(t *testing.T) {
	repo := &fakeHistoriesRepo{
		historiesFn: func(ctx context.Context) ([]networth.AssetHistory, error) {
			return []networth.AssetHistory{
				{
					AssetID: "a1",
					Points: []networth.ValuePoint{
						{Date: day(-2), Value: decimal.NewFromInt(100)},
						{Date: day(-1), Value: decimal.NewFromInt(150)},
					},
				},
			}, nil
		},
	}

	h := handlers.NewDashboardHandler(repo, frozenClock(), cache.New(time.Minute))

	code, points := getSeries(t, h, "/dashboard/net-worth?days=3")

	if code != http.StatusOK {
		t.Fatalf("got status %d, want 200", code)
	}

	want := []string{"100", "150", "150"}

	for i, w := range want {
		if points[i].TotalValue != w {
			t.Fatalf("point %d total = %s, want %s", i, points[i].TotalValue, w)
		}
	}
}

func TestNetWorthCachesSeries(t *testing.T) {
	repo := &fakeHistoriesRepo{}
	h := handlers.NewDashboardHandler(repo, frozenClock(), cache.New(time.Minute))

	getSeries(t, h, "/dashboard/net-worth?days=7")
	getSeries(t, h, "/dashboard/net-worth?days=7")

	if repo.calls != 1 {
		t.Fatalf("repo queried %d times, want 1 (second hit should come from cache)", repo.calls)
	}

	// a different window is a different cache entry
	getSeries(t, h, "/dashboard/net-worth?days=14")

	if repo.calls != 2 {
		t.Fatalf("repo queried %d times, want 2", repo.calls)
	}
}
