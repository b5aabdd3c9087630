package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aperdana/networth/internal/audit"
	"github.com/aperdana/networth/internal/cache"
	"github.com/aperdana/networth/internal/clock"
	"github.com/aperdana/networth/internal/config"
	"github.com/aperdana/networth/internal/date"
	"github.com/aperdana/networth/internal/domain/snapshot"
	"github.com/aperdana/networth/internal/domain/user"
	"github.com/aperdana/networth/internal/http/middlewares"
	"github.com/aperdana/networth/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SnapshotsStore interface {
	List(ctx context.Context, assetID *string) ([]snapshot.Snapshot, error)
	GetByID(ctx context.Context, id string) (snapshot.Snapshot, error)
	Create(ctx context.Context, assetID string, snapDate date.Date, value decimal.Decimal, createdBy string) (snapshot.Snapshot, error)
	UpdateValue(ctx context.Context, id string, value decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}

// SnapshotsHandler enforces the mutability policy: snapshots are only
// editable while their date is still "today" in the reference zone, and
// denied attempts on frozen snapshots are always audited.
type SnapshotsHandler struct {
	repo   SnapshotsStore
	audit  AuditRecorder
	clock  clock.Clock
	series *cache.SeriesCache
	prom   *observability.Prom
}

func NewSnapshotsHandler(repo SnapshotsStore, recorder AuditRecorder, clk clock.Clock, series *cache.SeriesCache, prom *observability.Prom) *SnapshotsHandler {
	return &SnapshotsHandler{
		repo:   repo,
		audit:  recorder,
		clock:  clk,
		series: series,
		prom:   prom,
	}
}

func (h *SnapshotsHandler) ListSnapshots(ctx *gin.Context) {
	var assetID *string

	if v := ctx.Query("assetId"); v != "" {
		assetID = &v
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	snaps, err := h.repo.List(cctx, assetID)

	if err != nil {
		RespondInternal(ctx, "Could not list snapshots")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": snaps,
		"count": len(snaps),
	})
}

func (h *SnapshotsHandler) CreateSnapshot(ctx *gin.Context) {
	var req snapshot.CreateSnapshotRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := snapshot.ValidateValue(req.Value); err != nil {
		RespondBadRequest(ctx, "value must be a non-negative finite number", nil)
		return
	}

	if err := snapshot.CanCreate(req.SnapshotDate, h.clock.Today()); err != nil {
		RespondBadRequest(ctx, "snapshot_date cannot be in the future", nil)
		return
	}

	actorID, _ := middlewares.UserIDFromContext(ctx)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	s, err := h.repo.Create(cctx, req.AssetID, req.SnapshotDate, *req.Value, actorID)

	if err != nil {
		switch {
		case errors.Is(err, snapshot.ErrDuplicateDate):
			RespondConflict(ctx, "duplicate_snapshot_date", "Duplicate snapshot date for this asset")
		case errors.Is(err, snapshot.ErrAssetNotFound):
			RespondBadRequest(ctx, "asset_id does not reference a known asset", nil)
		default:
			RespondInternal(ctx, "Could not create snapshot")
		}

		return
	}

	h.audit.Record(ctx.Request.Context(), actorID, audit.ActionCreate, "snapshots", &s.ID, ctx.ClientIP())
	h.series.Clear()

	ctx.JSON(http.StatusCreated, gin.H{"id": s.ID})
}

func (h *SnapshotsHandler) UpdateSnapshot(ctx *gin.Context) {
	var req snapshot.UpdateSnapshotRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := snapshot.ValidateValue(req.Value); err != nil {
		RespondBadRequest(ctx, "value must be a non-negative finite number", nil)
		return
	}

	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	s, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			RespondNotFound(ctx, "Snapshot not found")
			return
		}

		RespondInternal(ctx, "Could not update snapshot")
		return
	}

	actorID, _ := middlewares.UserIDFromContext(ctx)

	state := snapshot.Classify(s.SnapshotDate, h.clock.Today())

	if !snapshot.CanUpdate(state) {
		h.recordForbidden(ctx, actorID, "snapshots.update", s.ID)
		RespondForbidden(ctx, "Historical snapshot is immutable")
		return
	}

	err = h.repo.UpdateValue(cctx, id, *req.Value)

	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			RespondNotFound(ctx, "Snapshot not found")
			return
		}

		RespondInternal(ctx, "Could not update snapshot")
		return
	}

	h.audit.Record(ctx.Request.Context(), actorID, audit.ActionUpdate, "snapshots", &id, ctx.ClientIP())
	h.series.Clear()

	ctx.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *SnapshotsHandler) DeleteSnapshot(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	s, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			RespondNotFound(ctx, "Snapshot not found")
			return
		}

		RespondInternal(ctx, "Could not delete snapshot")
		return
	}

	actorID, _ := middlewares.UserIDFromContext(ctx)
	role, _ := middlewares.RoleFromContext(ctx)

	if role == "" {
		role = user.RoleUser
	}

	state := snapshot.Classify(s.SnapshotDate, h.clock.Today())

	if !snapshot.CanDelete(state, role) {
		h.recordForbidden(ctx, actorID, "snapshots.delete", s.ID)
		RespondForbidden(ctx, "Historical snapshot is immutable")
		return
	}

	err = h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			RespondNotFound(ctx, "Snapshot not found")
			return
		}

		RespondInternal(ctx, "Could not delete snapshot")
		return
	}

	h.audit.Record(ctx.Request.Context(), actorID, audit.ActionDelete, "snapshots", &id, ctx.ClientIP())
	h.series.Clear()

	ctx.Status(http.StatusNoContent)
}

// Denied attempts must be observable: audit entry first, then the metric.
func (h *SnapshotsHandler) recordForbidden(ctx *gin.Context, actorID, op, snapshotID string) {
	h.audit.Record(ctx.Request.Context(), actorID, audit.ActionForbiddenAttempt, "snapshots", &snapshotID, ctx.ClientIP())

	if h.prom != nil {
		h.prom.ForbiddenAttempts.WithLabelValues(op).Inc()
	}
}
