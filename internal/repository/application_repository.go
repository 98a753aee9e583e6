package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fillqr/intake-api/internal/models"
)

const applicationColumns = `id, tenant_id, status, full_name, email, phone, birthdate, street, zip, city,
	membership_type_code, discipline, entry_date, remarks,
	is_minor, guardian_name, guardian_relation, guardian_email, guardian_phone,
	sepa_account_holder, sepa_iban, sepa_bic, sepa_consent,
	gdpr_consent, has_warnings, photo_path, created_at, updated_at`

// ApplicationRepository persists application records and their append-only
// event log.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts the application together with its created event in one
// transaction, so no record can exist without its warning context.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application, eventPayload []byte) (err error) {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin application transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertApp = `
INSERT INTO applications (
	id, tenant_id, status, full_name, email, phone, birthdate, street, zip, city,
	membership_type_code, discipline, entry_date, remarks,
	is_minor, guardian_name, guardian_relation, guardian_email, guardian_phone,
	sepa_account_holder, sepa_iban, sepa_bic, sepa_consent,
	gdpr_consent, has_warnings, photo_path, created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
	$11, $12, $13, $14,
	$15, $16, $17, $18, $19,
	$20, $21, $22, $23,
	$24, $25, $26, $27, $28
)`
	if _, err = tx.ExecContext(ctx, insertApp,
		app.ID, app.TenantID, app.Status, app.FullName, app.Email, app.Phone, app.Birthdate, app.Street, app.Zip, app.City,
		app.MembershipTypeCode, app.Discipline, app.EntryDate, app.Remarks,
		app.IsMinor, app.GuardianName, app.GuardianRelation, app.GuardianEmail, app.GuardianPhone,
		app.SEPAAccountHolder, app.SEPAIBAN, app.SEPABIC, app.SEPAConsent,
		app.GDPRConsent, app.HasWarnings, app.PhotoPath, app.CreatedAt, app.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}

	const insertEvent = `INSERT INTO application_events (application_id, ts, event) VALUES ($1, $2, $3)`
	if _, err = tx.ExecContext(ctx, insertEvent, app.ID, now, eventPayload); err != nil {
		return fmt.Errorf("insert created event: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit application: %w", err)
	}
	return nil
}

// List returns applications of one tenant matching the filter, newest first,
// along with the total match count for pagination.
func (r *ApplicationRepository) List(ctx context.Context, tenantID string, filter models.ApplicationFilter) ([]models.Application, int, error) {
	where := strings.Builder{}
	where.WriteString("WHERE tenant_id = $1")
	args := []interface{}{tenantID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		fmt.Fprintf(&where, " AND status = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		fmt.Fprintf(&where, " AND created_at >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		fmt.Fprintf(&where, " AND created_at < $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		fmt.Fprintf(&where, " AND (full_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM applications " + where.String()
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	limitClause := fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		limitClause += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	query := "SELECT " + applicationColumns + " FROM applications " + where.String() + limitClause

	var apps []models.Application
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	return apps, total, nil
}

// FindByID loads one application scoped to the acting tenant. Returns
// sql.ErrNoRows when the record does not exist under that tenant.
func (r *ApplicationRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 AND tenant_id = $2 LIMIT 1`

	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, id, tenantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find application %s: %w", id, err)
	}
	return &app, nil
}

// UpdateStatus writes the new status and update timestamp and appends the
// status-changed event in the same transaction.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, tenantID, id string, status models.ApplicationStatus, eventPayload []byte) (err error) {
	now := time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin status transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const update = `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3 AND tenant_id = $4`
	result, err := tx.ExecContext(ctx, update, status, now, id, tenantID)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if affected, raErr := result.RowsAffected(); raErr == nil && affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	const insertEvent = `INSERT INTO application_events (application_id, ts, event) VALUES ($1, $2, $3)`
	if _, err = tx.ExecContext(ctx, insertEvent, id, now, eventPayload); err != nil {
		return fmt.Errorf("insert status event: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit status update: %w", err)
	}
	return nil
}

// ListEvents returns the application's event log ordered by timestamp with
// the serial id as tie-break.
func (r *ApplicationRepository) ListEvents(ctx context.Context, applicationID string) ([]models.ApplicationEvent, error) {
	const query = `
SELECT id, application_id, ts, event
FROM application_events
WHERE application_id = $1
ORDER BY ts, id`

	var events []models.ApplicationEvent
	if err := r.db.SelectContext(ctx, &events, query, applicationID); err != nil {
		return nil, fmt.Errorf("list application events: %w", err)
	}
	return events, nil
}
