package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fillqr/intake-api/internal/models"
)

func TestCSRFSignerRoundTrip(t *testing.T) {
	signer := NewCSRFSigner("secret-1", time.Hour)

	token, err := signer.Generate("tenant-1")
	require.NoError(t, err)
	assert.NoError(t, signer.Validate("tenant-1", token))
}

func TestCSRFSignerRejectsOtherTenant(t *testing.T) {
	signer := NewCSRFSigner("secret-1", time.Hour)

	token, err := signer.Generate("tenant-1")
	require.NoError(t, err)
	assert.Error(t, signer.Validate("tenant-2", token))
}

func TestCSRFSignerRejectsTamperedToken(t *testing.T) {
	signer := NewCSRFSigner("secret-1", time.Hour)

	token, err := signer.Generate("tenant-1")
	require.NoError(t, err)
	assert.Error(t, signer.Validate("tenant-1", token+"ff"))
	assert.Error(t, signer.Validate("tenant-1", "not.a.token"))
	assert.Error(t, signer.Validate("tenant-1", ""))
}

func TestCSRFSignerRejectsExpiredToken(t *testing.T) {
	signer := NewCSRFSigner("secret-1", time.Hour)
	token, err := signer.Generate("tenant-1")
	require.NoError(t, err)

	// Same secret, fresh validation after the deadline passed.
	signer.ttl = -time.Hour
	expired, err := signer.Generate("tenant-1")
	require.NoError(t, err)

	assert.NoError(t, signer.Validate("tenant-1", token))
	assert.Error(t, signer.Validate("tenant-1", expired))
}

func csrfTestRouter(signer *CSRFSigner, withTenant bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if withTenant {
		router.Use(func(c *gin.Context) {
			c.Set(ContextTenantKey, &models.TenantContext{Tenant: models.Tenant{ID: "tenant-1"}})
		})
	}
	router.Use(CSRF(signer))
	router.POST("/submit", func(c *gin.Context) { c.Status(http.StatusCreated) })
	router.GET("/form", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestCSRFMiddlewareAllowsSafeMethods(t *testing.T) {
	router := csrfTestRouter(NewCSRFSigner("secret-1", time.Hour), false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFMiddlewareRejectsMissingToken(t *testing.T) {
	router := csrfTestRouter(NewCSRFSigner("secret-1", time.Hour), true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCSRFMiddlewareAcceptsValidHeaderToken(t *testing.T) {
	signer := NewCSRFSigner("secret-1", time.Hour)
	router := csrfTestRouter(signer, true)

	token, err := signer.Generate("tenant-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(CSRFHeader, token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}
