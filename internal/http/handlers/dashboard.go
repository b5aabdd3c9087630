package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/aperdana/networth/internal/cache"
	"github.com/aperdana/networth/internal/clock"
	"github.com/aperdana/networth/internal/config"
	"github.com/aperdana/networth/internal/domain/networth"
	"github.com/gin-gonic/gin"
)

type HistoriesReader interface {
	Histories(ctx context.Context) ([]networth.AssetHistory, error)
}

type DashboardHandler struct {
	repo   HistoriesReader
	clock  clock.Clock
	series *cache.SeriesCache
}

func NewDashboardHandler(repo HistoriesReader, clk clock.Clock, series *cache.SeriesCache) *DashboardHandler {
	return &DashboardHandler{
		repo:   repo,
		clock:  clk,
		series: series,
	}
}

// NetWorth serves the dashboard series. Invalid or missing ?days falls
// back to the default and out-of-range values clamp silently; the route
// never rejects the window parameter.
func (h *DashboardHandler) NetWorth(ctx *gin.Context) {
	days := networth.DefaultDays

	if raw := ctx.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)

		if err == nil {
			days = n
		}
	}

	days = networth.ClampDays(days)

	today := h.clock.Today()

	// cache key carries the day so a window cached yesterday cannot leak
	// past midnight
	key := today.String() + ":" + strconv.Itoa(days)

	if points, ok := h.series.Get(key); ok {
		ctx.JSON(http.StatusOK, points)
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	histories, err := h.repo.Histories(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not compute net worth")
		return
	}

	points := networth.Series(histories, today, days)

	h.series.Set(key, points)

	ctx.JSON(http.StatusOK, points)
}
