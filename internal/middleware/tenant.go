package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fillqr/intake-api/internal/models"
	"github.com/fillqr/intake-api/internal/service"
	"github.com/fillqr/intake-api/pkg/response"
)

// ContextTenantKey is the gin context key carrying the resolved tenant.
const ContextTenantKey = "tenant_context"

// Tenant resolves the request host to a tenant context and aborts with 404
// when no active tenant is mapped to it. Every route behind this middleware
// can assume a tenant is present.
func Tenant(tenants *service.TenantService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, err := tenants.ResolveByHost(c.Request.Context(), c.Request.Host)
		if err != nil {
			if logger != nil {
				logger.Debug("tenant resolution failed",
					zap.String("host", c.Request.Host), zap.Error(err))
			}
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextTenantKey, tc)
		c.Next()
	}
}

// TenantFromContext extracts the tenant context injected by Tenant.
func TenantFromContext(c *gin.Context) (*models.TenantContext, bool) {
	value, ok := c.Get(ContextTenantKey)
	if !ok {
		return nil, false
	}
	tc, ok := value.(*models.TenantContext)
	return tc, ok
}
