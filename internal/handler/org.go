package handler

import (
	"context"
	"net/http"

	"orgmanager/internal/logger"
	"orgmanager/internal/middleware"
	"orgmanager/internal/model"
	"orgmanager/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrgHandler handles organization endpoints. Store calls are detached from
// client cancellation so a dropped connection does not abort a write.
type OrgHandler struct {
	orgs *service.OrgService
}

// NewOrgHandler creates a new OrgHandler
func NewOrgHandler(orgs *service.OrgService) *OrgHandler {
	return &OrgHandler{orgs: orgs}
}

// Create registers an organization and its admin (POST /org/create)
func (h *OrgHandler) Create(c *gin.Context) {
	var req model.OrgCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	org, err := h.orgs.Create(context.WithoutCancel(c.Request.Context()), model.OrgCreateInput{
		OrganizationName: req.OrganizationName,
		AdminEmail:       req.AdminEmail,
		AdminPassword:    req.AdminPassword,
	})
	if err != nil {
		respondError(c, err, failure{
			conflictCode:    CodeOrgCreateFailed,
			internalCode:    CodeOrgCreateFailed,
			internalMessage: "Failed to create organization",
		})
		return
	}

	ok(c, http.StatusCreated, org.ToResponse())
}

// Get returns an organization by name (GET /org/get?organization_name=)
func (h *OrgHandler) Get(c *gin.Context) {
	var q model.OrgNameQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	org, err := h.orgs.GetByName(context.WithoutCancel(c.Request.Context()), q.OrganizationName)
	if err != nil {
		respondError(c, err, failure{internalMessage: "Failed to retrieve organization"})
		return
	}

	ok(c, http.StatusOK, org.ToResponse())
}

// Update renames an organization (PUT /org/update)
func (h *OrgHandler) Update(c *gin.Context) {
	var req model.OrgUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	org, err := h.orgs.RenameByName(context.WithoutCancel(c.Request.Context()), model.OrgUpdateInput{
		CurrentName:   req.CurrentOrganizationName,
		NewName:       req.NewOrganizationName,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		respondError(c, err, failure{internalMessage: "Failed to update organization"})
		return
	}

	ok(c, http.StatusOK, org.ToResponse())
}

// Delete removes an organization by name (DELETE /org/delete?organization_name=).
// Requires a bearer token.
func (h *OrgHandler) Delete(c *gin.Context) {
	var q model.OrgNameQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	deleted, err := h.orgs.DeleteByName(context.WithoutCancel(c.Request.Context()), q.OrganizationName)
	if err != nil {
		respondError(c, err, failure{
			internalCode:    CodeOrgDeleteFailed,
			internalMessage: "Failed to delete organization",
		})
		return
	}

	if admin, found := middleware.CurrentAdmin(c); found {
		logger.FromContext(c.Request.Context()).Info("organization delete requested",
			zap.String("admin_id", admin.ID),
			zap.String("organization", q.OrganizationName),
			zap.Bool("deleted", deleted))
	}
	ok(c, http.StatusOK, model.DeleteResult{Deleted: deleted})
}
