package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fillqr/intake-api/internal/dto"
	"github.com/fillqr/intake-api/internal/service"
	appErrors "github.com/fillqr/intake-api/pkg/errors"
	"github.com/fillqr/intake-api/pkg/response"
)

// AdminHandler exposes the staff endpoints for triaging applications.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs the admin handler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// List godoc
// @Summary List membership applications
// @Tags Admin
// @Produce json
// @Param status query string false "Filter by status"
// @Param dateFrom query string false "Created from (YYYY-MM-DD)"
// @Param dateTo query string false "Created to (YYYY-MM-DD)"
// @Param search query string false "Name or email search"
// @Param page query int false "Page number"
// @Success 200 {object} response.Envelope
// @Router /admin/applications [get]
func (h *AdminHandler) List(c *gin.Context) {
	tc := tenantFromContext(c)
	if tc == nil {
		response.Error(c, appErrors.ErrTenantNotFound)
		return
	}

	var query dto.ListApplicationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed query parameters"))
		return
	}

	items, pagination, err := h.admin.List(c.Request.Context(), tc.Tenant.ID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Detail godoc
// @Summary Application detail with resolved warnings
// @Tags Admin
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/applications/{id} [get]
func (h *AdminHandler) Detail(c *gin.Context) {
	tc := tenantFromContext(c)
	if tc == nil {
		response.Error(c, appErrors.ErrTenantNotFound)
		return
	}

	detail, err := h.admin.Detail(c.Request.Context(), tc.Tenant.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// UpdateStatus godoc
// @Summary Move an application to a new status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.UpdateStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/applications/{id}/status [patch]
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	tc := tenantFromContext(c)
	if tc == nil {
		response.Error(c, appErrors.ErrTenantNotFound)
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "status required"))
		return
	}

	app, err := h.admin.SetStatus(c.Request.Context(), tc.Tenant.ID, c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// History godoc
// @Summary Application event history
// @Tags Admin
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/applications/{id}/events [get]
func (h *AdminHandler) History(c *gin.Context) {
	tc := tenantFromContext(c)
	if tc == nil {
		response.Error(c, appErrors.ErrTenantNotFound)
		return
	}

	events, err := h.admin.History(c.Request.Context(), tc.Tenant.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Export godoc
// @Summary Export applications as CSV or PDF
// @Tags Admin
// @Produce text/csv
// @Param format query string false "csv or pdf" default(csv)
// @Param status query string false "Filter by status"
// @Param dateFrom query string false "Created from (YYYY-MM-DD)"
// @Param dateTo query string false "Created to (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Router /admin/applications/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	tc := tenantFromContext(c)
	if tc == nil {
		response.Error(c, appErrors.ErrTenantNotFound)
		return
	}

	var query dto.ListApplicationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed query parameters"))
		return
	}

	result, err := h.admin.Export(c.Request.Context(), tc.Tenant.ID, tc.Tenant.Name, query, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
