package ledger

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/server/middleware"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	caller := middleware.CallerFromContext(c)
	if caller.Guest {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}

	acct, err := h.Svc.Get(c.Request.Context(), caller.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "account not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load account", nil)
		return
	}

	resp := gin.H{
		"userId":  caller.Key,
		"email":   acct.Email,
		"name":    acct.DisplayName,
		"credits": acct.Credits,
	}
	if caller.Picture != "" {
		resp["picture"] = caller.Picture
	}
	respond.JSON(c, http.StatusOK, resp)
}
