package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aperdana/networth/internal/audit"
	"github.com/aperdana/networth/internal/cache"
	"github.com/aperdana/networth/internal/config"
	"github.com/aperdana/networth/internal/domain/asset"
	"github.com/aperdana/networth/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type AssetsStore interface {
	List(ctx context.Context) ([]asset.Asset, error)
	Create(ctx context.Context, req asset.CreateAssetRequest, createdBy string) (asset.Asset, error)
	Update(ctx context.Context, id string, req asset.UpdateAssetRequest) (asset.Asset, error)
	DeleteCascade(ctx context.Context, id string) error
}

type AssetsHandler struct {
	repo   AssetsStore
	audit  AuditRecorder
	series *cache.SeriesCache
}

func NewAssetsHandler(repo AssetsStore, recorder AuditRecorder, series *cache.SeriesCache) *AssetsHandler {
	return &AssetsHandler{
		repo:   repo,
		audit:  recorder,
		series: series,
	}
}

func (h *AssetsHandler) ListAssets(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	assets, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list assets")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": assets,
		"count": len(assets),
	})
}

func (h *AssetsHandler) CreateAsset(ctx *gin.Context) {
	var req asset.CreateAssetRequest

	if !BindJSON(ctx, &req) {
		return
	}

	actorID, _ := middlewares.UserIDFromContext(ctx)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	a, err := h.repo.Create(cctx, req, actorID)

	if err != nil {
		RespondInternal(ctx, "Could not create asset")
		return
	}

	h.audit.Record(ctx.Request.Context(), actorID, audit.ActionCreate, "assets", &a.ID, ctx.ClientIP())
	h.series.Clear()

	ctx.JSON(http.StatusCreated, gin.H{"id": a.ID})
}

func (h *AssetsHandler) UpdateAsset(ctx *gin.Context) {
	var req asset.UpdateAssetRequest

	if !BindJSON(ctx, &req) {
		return
	}

	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err := h.repo.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, asset.ErrNotFound) {
			RespondNotFound(ctx, "Asset not found")
			return
		}

		RespondInternal(ctx, "Could not update asset")
		return
	}

	actorID, _ := middlewares.UserIDFromContext(ctx)
	h.audit.Record(ctx.Request.Context(), actorID, audit.ActionUpdate, "assets", &id, ctx.ClientIP())
	h.series.Clear()

	ctx.JSON(http.StatusOK, gin.H{"id": id})
}

// DeleteAsset is admin-only (route-level RBAC). The repo removes the
// asset and its snapshots in one transaction.
func (h *AssetsHandler) DeleteAsset(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	err := h.repo.DeleteCascade(cctx, id)

	if err != nil {
		if errors.Is(err, asset.ErrNotFound) {
			RespondNotFound(ctx, "Asset not found")
			return
		}

		RespondInternal(ctx, "Could not delete asset")
		return
	}

	actorID, _ := middlewares.UserIDFromContext(ctx)
	h.audit.Record(ctx.Request.Context(), actorID, audit.ActionDelete, "assets", &id, ctx.ClientIP())
	h.series.Clear()

	ctx.Status(http.StatusNoContent)
}
