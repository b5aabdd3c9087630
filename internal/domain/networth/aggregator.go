package networth

import (
	"github.com/aperdana/networth/internal/date"
	"github.com/shopspring/decimal"
)

const (
	MinDays     = 1
	MaxDays     = 365
	DefaultDays = 30
)

// ValuePoint is one recorded valuation of an asset.
type ValuePoint struct {
	Date  date.Date
	Value decimal.Decimal
}

// AssetHistory is the full snapshot history of one non-deleted asset,
// ordered by date ascending. Assets with no snapshots may be omitted
// entirely: they contribute zero to every day.
type AssetHistory struct {
	AssetID string
	Points  []ValuePoint
}

// Point is one day of the net-worth series as returned by the dashboard.
type Point struct {
	SnapshotDate date.Date       `json:"snapshot_date"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// ClampDays keeps the window inside [MinDays, MaxDays]. Out-of-range
// values are clamped silently, matching the dashboard contract.
func ClampDays(n int) int {
	if n < MinDays {
		return MinDays
	}

	if n > MaxDays {
		return MaxDays
	}

	return n
}

// Series computes total portfolio value for each calendar day of the
// trailing window ending at today, inclusive. Each asset contributes the
// value of its most recent snapshot on or before the day (last
// observation carried forward), or zero while it has no snapshot yet.
//
// The result always has exactly ClampDays(days) points with consecutive
// ascending dates. Each asset is summed exactly once per day.
func Series(histories []AssetHistory, today date.Date, days int) []Point {
	days = ClampDays(days)
	start := today.AddDays(-(days - 1))

	// per-asset scan state: cursor into the history and the value carried
	// forward so far
	cursors := make([]int, len(histories))
	carried := make([]decimal.Decimal, len(histories))
	known := make([]bool, len(histories))

	// snapshots older than the window start still seed the carried value
	// for the first day

	out := make([]Point, 0, days)

	for d := start; !d.After(today); d = d.AddDays(1) {
		total := decimal.Zero

		for i := range histories {
			points := histories[i].Points

			for cursors[i] < len(points) && !points[cursors[i]].Date.After(d) {
				carried[i] = points[cursors[i]].Value
				known[i] = true
				cursors[i]++
			}

			if known[i] {
				total = total.Add(carried[i])
			}
		}

		out = append(out, Point{SnapshotDate: d, TotalValue: total})
	}

	return out
}
