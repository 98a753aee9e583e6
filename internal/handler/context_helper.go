package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fillqr/intake-api/internal/middleware"
	"github.com/fillqr/intake-api/internal/models"
)

func tenantFromContext(c *gin.Context) *models.TenantContext {
	tc, ok := middleware.TenantFromContext(c)
	if !ok {
		return nil
	}
	return tc
}
