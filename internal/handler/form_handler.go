package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fillqr/intake-api/internal/middleware"
	"github.com/fillqr/intake-api/internal/service"
	appErrors "github.com/fillqr/intake-api/pkg/errors"
	"github.com/fillqr/intake-api/pkg/response"
)

// FormHandler serves the public form context.
type FormHandler struct {
	intake *service.IntakeService
	csrf   *middleware.CSRFSigner
}

// NewFormHandler constructs the form handler.
func NewFormHandler(intake *service.IntakeService, csrf *middleware.CSRFSigner) *FormHandler {
	return &FormHandler{intake: intake, csrf: csrf}
}

// Context godoc
// @Summary Public application form context
// @Tags Form
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /form [get]
func (h *FormHandler) Context(c *gin.Context) {
	tc := tenantFromContext(c)
	if tc == nil {
		response.Error(c, appErrors.ErrTenantNotFound)
		return
	}

	form, err := h.intake.FormContext(c.Request.Context(), tc)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.csrf != nil {
		token, err := h.csrf.Generate(tc.Tenant.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		form.CSRFToken = token
	}

	response.JSON(c, http.StatusOK, form, nil)
}
