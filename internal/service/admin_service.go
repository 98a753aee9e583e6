package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fillqr/intake-api/internal/dto"
	"github.com/fillqr/intake-api/internal/models"
	"github.com/fillqr/intake-api/internal/validation"
	appErrors "github.com/fillqr/intake-api/pkg/errors"
	"github.com/fillqr/intake-api/pkg/export"
)

type applicationReader interface {
	List(ctx context.Context, tenantID string, filter models.ApplicationFilter) ([]models.Application, int, error)
	FindByID(ctx context.Context, tenantID, id string) (*models.Application, error)
	UpdateStatus(ctx context.Context, tenantID, id string, status models.ApplicationStatus, eventPayload []byte) error
	ListEvents(ctx context.Context, applicationID string) ([]models.ApplicationEvent, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// Export formats accepted by the admin export endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// exportRowLimit caps one export document; filters narrow beyond that.
const exportRowLimit = 10000

// ExportResult is a rendered export document.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

// AdminService serves the staff side: listing, inspecting, triaging and
// exporting applications. Every operation is scoped to one tenant.
type AdminService struct {
	apps     applicationReader
	csv      csvRenderer
	pdf      pdfRenderer
	pageSize int
	logger   *zap.Logger
	now      func() time.Time
}

// NewAdminService constructs the admin service.
func NewAdminService(apps applicationReader, csv csvRenderer, pdf pdfRenderer, pageSize int, logger *zap.Logger) *AdminService {
	if pageSize <= 0 {
		pageSize = 50
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &AdminService{apps: apps, csv: csv, pdf: pdf, pageSize: pageSize, logger: logger, now: time.Now}
}

// List returns one page of applications matching the query filters.
func (s *AdminService) List(ctx context.Context, tenantID string, query dto.ListApplicationsQuery) ([]dto.ApplicationListItem, *models.Pagination, error) {
	filter, page, err := s.buildFilter(query)
	if err != nil {
		return nil, nil, err
	}

	apps, total, err := s.apps.List(ctx, tenantID, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}

	items := make([]dto.ApplicationListItem, 0, len(apps))
	for _, app := range apps {
		items = append(items, toListItem(app))
	}
	return items, &models.Pagination{Page: page, Limit: filter.Limit, Total: total}, nil
}

// Detail returns one application with its acceptance-time warnings resolved
// from the event log.
func (s *AdminService) Detail(ctx context.Context, tenantID, id string) (*dto.ApplicationDetail, error) {
	app, err := s.apps.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.FromError(err)
	}

	detail := &dto.ApplicationDetail{Application: *app, Warnings: []dto.FieldError{}}
	if app.HasWarnings {
		detail.Warnings = s.resolveWarnings(ctx, app.ID)
	}
	return detail, nil
}

// SetStatus moves an application to a new triage status and records the
// transition. Setting the current status again is a no-op and writes nothing.
func (s *AdminService) SetStatus(ctx context.Context, tenantID, id string, status string) (*models.Application, error) {
	next := models.ApplicationStatus(strings.ToLower(strings.TrimSpace(status)))
	if !models.ValidStatus(next) {
		return nil, appErrors.New("INVALID_STATUS", http.StatusBadRequest,
			fmt.Sprintf("unknown status %q", status))
	}

	app, err := s.apps.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.FromError(err)
	}

	if app.Status == next {
		return app, nil
	}

	eventPayload, err := models.EncodeStatusChangedEvent(app.Status, next)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	if err := s.apps.UpdateStatus(ctx, tenantID, id, next, eventPayload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.FromError(err)
	}

	app.Status = next
	app.UpdatedAt = s.now().UTC()
	return app, nil
}

// History returns the decoded event log of one application, oldest first.
func (s *AdminService) History(ctx context.Context, tenantID, id string) ([]models.EventPayload, error) {
	if _, err := s.apps.FindByID(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.FromError(err)
	}

	events, err := s.apps.ListEvents(ctx, id)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	payloads := make([]models.EventPayload, 0, len(events))
	for _, ev := range events {
		payload, err := ev.DecodePayload()
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("skipping unreadable event", zap.Int64("event_id", ev.ID), zap.Error(err))
			}
			continue
		}
		payloads = append(payloads, payload)
	}
	return payloads, nil
}

// Export renders all applications matching the filters as a CSV or PDF
// document. Export never changes record statuses.
func (s *AdminService) Export(ctx context.Context, tenantID, tenantName string, query dto.ListApplicationsQuery, format string) (*ExportResult, error) {
	filter, _, err := s.buildFilter(query)
	if err != nil {
		return nil, err
	}
	filter.Limit = exportRowLimit
	filter.Offset = 0

	apps, _, err := s.apps.List(ctx, tenantID, filter)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	dataset := buildExportDataset(apps)
	stamp := s.now().UTC().Format("20060102_150405")

	switch strings.ToLower(format) {
	case "", ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.FromError(err)
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("applications_%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset, fmt.Sprintf("%s: Mitgliedsantraege", tenantName))
		if err != nil {
			return nil, appErrors.FromError(err)
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("applications_%s.pdf", stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.New("INVALID_EXPORT_FORMAT", http.StatusBadRequest,
			fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *AdminService) buildFilter(query dto.ListApplicationsQuery) (models.ApplicationFilter, int, error) {
	filter := models.ApplicationFilter{Search: strings.TrimSpace(query.Search)}

	if raw := strings.TrimSpace(query.Status); raw != "" {
		status := models.ApplicationStatus(strings.ToLower(raw))
		if !models.ValidStatus(status) {
			return filter, 0, appErrors.New("INVALID_STATUS", http.StatusBadRequest,
				fmt.Sprintf("unknown status %q", raw))
		}
		filter.Status = status
	}

	if raw := strings.TrimSpace(query.DateFrom); raw != "" {
		from, err := time.Parse(validation.DateLayout, raw)
		if err != nil {
			return filter, 0, appErrors.New("INVALID_DATE", http.StatusBadRequest,
				fmt.Sprintf("invalid dateFrom %q", raw))
		}
		filter.DateFrom = &from
	}
	if raw := strings.TrimSpace(query.DateTo); raw != "" {
		to, err := time.Parse(validation.DateLayout, raw)
		if err != nil {
			return filter, 0, appErrors.New("INVALID_DATE", http.StatusBadRequest,
				fmt.Sprintf("invalid dateTo %q", raw))
		}
		// The filter bound is inclusive of the whole day.
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.DateTo = &end
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	filter.Limit = s.pageSize
	filter.Offset = (page - 1) * s.pageSize
	return filter, page, nil
}

func (s *AdminService) resolveWarnings(ctx context.Context, applicationID string) []dto.FieldError {
	events, err := s.apps.ListEvents(ctx, applicationID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("loading events failed", zap.String("application_id", applicationID), zap.Error(err))
		}
		return []dto.FieldError{}
	}

	for _, ev := range events {
		payload, err := ev.DecodePayload()
		if err != nil || payload.Created == nil {
			continue
		}
		warnings := make([]dto.FieldError, 0, len(payload.Created.Warnings))
		for _, code := range payload.Created.Warnings {
			warnings = append(warnings, dto.FieldError{
				Code:    code,
				Message: validation.WarningMessage(validation.WarningCode(code)),
			})
		}
		return warnings
	}
	return []dto.FieldError{}
}

func toListItem(app models.Application) dto.ApplicationListItem {
	item := dto.ApplicationListItem{
		ID:                 app.ID,
		CreatedAt:          app.CreatedAt.UTC().Format(time.RFC3339),
		Status:             string(app.Status),
		FullName:           app.FullName,
		Email:              app.Email,
		City:               app.City,
		MembershipTypeCode: app.MembershipTypeCode,
		IsMinor:            app.IsMinor,
		HasWarnings:        app.HasWarnings,
	}
	if app.EntryDate != nil {
		formatted := app.EntryDate.Format(validation.DateLayout)
		item.EntryDate = &formatted
	}
	return item
}

func buildExportDataset(apps []models.Application) export.Dataset {
	headers := []string{
		"ID", "Created", "Status", "Name", "Email", "Phone", "Birthdate",
		"Street", "Zip", "City", "Membership", "Discipline", "Entry Date",
		"Minor", "Guardian", "IBAN", "Warnings",
	}

	rows := make([]map[string]string, 0, len(apps))
	for _, app := range apps {
		row := map[string]string{
			"ID":         app.ID,
			"Created":    app.CreatedAt.UTC().Format(time.RFC3339),
			"Status":     string(app.Status),
			"Name":       app.FullName,
			"Email":      app.Email,
			"Phone":      app.Phone,
			"Street":     app.Street,
			"Zip":        app.Zip,
			"City":       app.City,
			"Membership": app.MembershipTypeCode,
			"Minor":      boolMark(app.IsMinor),
			"Warnings":   boolMark(app.HasWarnings),
		}
		if app.Birthdate != nil {
			row["Birthdate"] = app.Birthdate.Format(validation.DateLayout)
		}
		if app.Discipline != nil {
			row["Discipline"] = *app.Discipline
		}
		if app.EntryDate != nil {
			row["Entry Date"] = app.EntryDate.Format(validation.DateLayout)
		}
		if app.GuardianName != nil {
			row["Guardian"] = *app.GuardianName
		}
		if app.SEPAIBAN != nil {
			row["IBAN"] = *app.SEPAIBAN
		}
		rows = append(rows, row)
	}

	return export.Dataset{Headers: headers, Rows: rows}
}

func boolMark(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
