package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aperdana/networth/internal/audit"
	"github.com/aperdana/networth/internal/config"
	"github.com/aperdana/networth/internal/domain/user"
	"github.com/aperdana/networth/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID, email, name, role string) (string, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, actorID string, action audit.Action, entityType string, entityID *string, ip string)
}

type AuthHandler struct {
	users UserReader
	jwt   TokenIssuer
	audit AuditRecorder
}

func NewAuthHandler(users UserReader, jwt TokenIssuer, recorder AuditRecorder) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
		audit: recorder,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		RespondInternal(ctx, "Could not verify credentials")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	token, err := h.jwt.GenerateAccessToken(foundUser.ID, foundUser.Email, foundUser.Name, foundUser.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	h.audit.Record(ctx.Request.Context(), foundUser.ID, audit.ActionLogin, "users", &foundUser.ID, ctx.ClientIP())

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}
