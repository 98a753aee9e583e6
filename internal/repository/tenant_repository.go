package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fillqr/intake-api/internal/models"
)

// TenantRepository provides persistence helpers for tenant resolution and
// the tenant-scoped form reference data.
type TenantRepository struct {
	db *sqlx.DB
}

// NewTenantRepository constructs the repository.
func NewTenantRepository(db *sqlx.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// ResolveIDByHost maps a request host to its tenant id. Returns
// sql.ErrNoRows when no tenant claims the host.
func (r *TenantRepository) ResolveIDByHost(ctx context.Context, host string) (string, error) {
	const query = `SELECT tenant_id FROM tenant_domains WHERE host = $1 LIMIT 1`

	var tenantID string
	if err := r.db.GetContext(ctx, &tenantID, query, host); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("resolve tenant for host %q: %w", host, err)
	}
	return tenantID, nil
}

// FindByID loads one tenant row including the raw settings/theme blobs.
func (r *TenantRepository) FindByID(ctx context.Context, id string) (*models.Tenant, error) {
	const query = `
SELECT id, key_slug, name, logo_path, email_notify, active, theme_json, settings_json, entry_days, created_at, updated_at
FROM tenants
WHERE id = $1
LIMIT 1`

	var tenant models.Tenant
	if err := r.db.GetContext(ctx, &tenant, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find tenant %s: %w", id, err)
	}
	return &tenant, nil
}

// ListMembershipTypes returns the tenant's active membership offerings in
// display order.
func (r *TenantRepository) ListMembershipTypes(ctx context.Context, tenantID string) ([]models.MembershipType, error) {
	const query = `
SELECT id, code, label, price, sort_no
FROM membership_types
WHERE tenant_id = $1 AND active = TRUE
ORDER BY sort_no, id`

	var types []models.MembershipType
	if err := r.db.SelectContext(ctx, &types, query, tenantID); err != nil {
		return nil, fmt.Errorf("list membership types: %w", err)
	}
	return types, nil
}

// ListDisciplines returns the tenant's active disciplines in display order.
func (r *TenantRepository) ListDisciplines(ctx context.Context, tenantID string) ([]models.Discipline, error) {
	const query = `
SELECT code, label
FROM disciplines
WHERE tenant_id = $1 AND active = TRUE
ORDER BY sort_no, label`

	var disciplines []models.Discipline
	if err := r.db.SelectContext(ctx, &disciplines, query, tenantID); err != nil {
		return nil, fmt.Errorf("list disciplines: %w", err)
	}
	return disciplines, nil
}
