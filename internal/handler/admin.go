package handler

import (
	"context"
	"net/http"

	"orgmanager/internal/model"
	"orgmanager/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles administrator endpoints
type AdminHandler struct {
	auth *service.AuthService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(auth *service.AuthService) *AdminHandler {
	return &AdminHandler{auth: auth}
}

// Login exchanges admin credentials for a bearer token (POST /admin/login)
func (h *AdminHandler) Login(c *gin.Context) {
	var req model.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	resp, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, err, failure{internalMessage: "An error occurred during login"})
		return
	}

	ok(c, http.StatusOK, resp)
}
