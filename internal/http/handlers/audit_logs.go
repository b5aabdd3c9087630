package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/aperdana/networth/internal/audit"
	"github.com/aperdana/networth/internal/config"
	"github.com/gin-gonic/gin"
)

// Matches the original export cap; the log table itself is unbounded.
const auditListLimit = 500

type AuditReader interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Entry, error)
}

type AuditLogsHandler struct {
	repo AuditReader
}

func NewAuditLogsHandler(repo AuditReader) *AuditLogsHandler {
	return &AuditLogsHandler{repo: repo}
}

func (h *AuditLogsHandler) ListLogs(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	entries, err := h.repo.ListRecent(cctx, auditListLimit)

	if err != nil {
		RespondInternal(ctx, "Could not list audit logs")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": entries,
		"count": len(entries),
	})
}
