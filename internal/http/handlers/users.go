package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aperdana/networth/internal/audit"
	"github.com/aperdana/networth/internal/config"
	"github.com/aperdana/networth/internal/domain/user"
	"github.com/aperdana/networth/internal/http/middlewares"
	"github.com/aperdana/networth/internal/security"
	"github.com/gin-gonic/gin"
)

type UsersStore interface {
	List(ctx context.Context) ([]user.User, error)
	Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error)
}

// UsersHandler backs the admin-only user management routes. Route-level
// RBAC enforces the role; handlers assume an admin caller.
type UsersHandler struct {
	users UsersStore
	audit AuditRecorder
}

func NewUsersHandler(users UsersStore, recorder AuditRecorder) *UsersHandler {
	return &UsersHandler{users: users, audit: recorder}
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	users, err := h.users.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": users,
		"count": len(users),
	})
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	role := req.Role

	if role == "" {
		role = user.RoleUser
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.users.Create(cctx, req.Name, req.Email, hash, role)

	if err != nil {
		if errors.Is(err, user.ErrEmailAlreadyUsed) {
			RespondConflict(ctx, "email_taken", "Email is already in use.")
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	actorID, _ := middlewares.UserIDFromContext(ctx)
	h.audit.Record(ctx.Request.Context(), actorID, audit.ActionCreate, "users", &u.ID, ctx.ClientIP())

	ctx.JSON(http.StatusCreated, gin.H{"id": u.ID})
}
