package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fillqr/intake-api/internal/models"
	appErrors "github.com/fillqr/intake-api/pkg/errors"
)

type tenantRepository interface {
	ResolveIDByHost(ctx context.Context, host string) (string, error)
	FindByID(ctx context.Context, id string) (*models.Tenant, error)
	ListMembershipTypes(ctx context.Context, tenantID string) ([]models.MembershipType, error)
	ListDisciplines(ctx context.Context, tenantID string) ([]models.Discipline, error)
}

// TenantService resolves the per-request tenant context and form reference
// data. Theme and settings blobs are merged with defaults exactly once here;
// everything downstream consumes the typed TenantContext.
type TenantService struct {
	repo     tenantRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewTenantService constructs a tenant service.
func NewTenantService(repo tenantRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *TenantService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &TenantService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// ResolveByHost maps a request host to its tenant context. Unknown hosts and
// inactive tenants both resolve to ErrTenantNotFound.
func (s *TenantService) ResolveByHost(ctx context.Context, host string) (*models.TenantContext, error) {
	host = normalizeHost(host)
	if host == "" {
		return nil, appErrors.ErrTenantNotFound
	}

	cacheKey := fmt.Sprintf("tenant:host:%s", host)
	var cached models.TenantContext
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	tenantID, err := s.repo.ResolveIDByHost(ctx, host)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrTenantNotFound
		}
		return nil, appErrors.FromError(err)
	}

	tenant, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrTenantNotFound
		}
		return nil, appErrors.FromError(err)
	}
	if !tenant.Active {
		return nil, appErrors.ErrTenantNotFound
	}

	tc := buildTenantContext(tenant, s.logger)

	if err := s.cache.Set(ctx, cacheKey, tc, s.cacheTTL); err != nil && s.logger != nil {
		s.logger.Warn("tenant context cache write failed", zap.String("host", host), zap.Error(err))
	}

	return tc, nil
}

// MembershipTypes returns the active membership types for the tenant in
// display order.
func (s *TenantService) MembershipTypes(ctx context.Context, tenantID string) ([]models.MembershipType, error) {
	cacheKey := fmt.Sprintf("tenant:%s:membership_types", tenantID)
	var cached []models.MembershipType
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	types, err := s.repo.ListMembershipTypes(ctx, tenantID)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	if err := s.cache.Set(ctx, cacheKey, types, s.cacheTTL); err != nil && s.logger != nil {
		s.logger.Warn("membership type cache write failed", zap.String("tenant_id", tenantID), zap.Error(err))
	}
	return types, nil
}

// Disciplines returns the selectable disciplines for the tenant.
func (s *TenantService) Disciplines(ctx context.Context, tenantID string) ([]models.Discipline, error) {
	cacheKey := fmt.Sprintf("tenant:%s:disciplines", tenantID)
	var cached []models.Discipline
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	disciplines, err := s.repo.ListDisciplines(ctx, tenantID)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	if err := s.cache.Set(ctx, cacheKey, disciplines, s.cacheTTL); err != nil && s.logger != nil {
		s.logger.Warn("discipline cache write failed", zap.String("tenant_id", tenantID), zap.Error(err))
	}
	return disciplines, nil
}

func buildTenantContext(tenant *models.Tenant, logger *zap.Logger) *models.TenantContext {
	theme := models.DefaultTheme()
	if len(tenant.ThemeJSON) > 0 {
		if err := json.Unmarshal(tenant.ThemeJSON, &theme); err != nil && logger != nil {
			logger.Warn("tenant theme blob unreadable, using defaults",
				zap.String("tenant_id", tenant.ID), zap.Error(err))
			theme = models.DefaultTheme()
		}
	}

	settings := models.DefaultSettings()
	if len(tenant.SettingsJSON) > 0 {
		if err := json.Unmarshal(tenant.SettingsJSON, &settings); err != nil && logger != nil {
			logger.Warn("tenant settings blob unreadable, using defaults",
				zap.String("tenant_id", tenant.ID), zap.Error(err))
			settings = models.DefaultSettings()
		}
	}

	legacy := ""
	if tenant.EntryDays != nil {
		legacy = *tenant.EntryDays
	}

	return &models.TenantContext{
		Tenant:    *tenant,
		Theme:     theme,
		Settings:  settings,
		EntryDays: models.NormalizeEntryDays(settings.EntryDays, legacy),
	}
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if idx := strings.IndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}
	return host
}
