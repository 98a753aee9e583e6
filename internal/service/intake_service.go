package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fillqr/intake-api/internal/dto"
	"github.com/fillqr/intake-api/internal/models"
	"github.com/fillqr/intake-api/internal/validation"
	appErrors "github.com/fillqr/intake-api/pkg/errors"
)

type applicationWriter interface {
	Create(ctx context.Context, app *models.Application, eventPayload []byte) error
}

type photoStore interface {
	Save(tenantID, originalName string, data []byte) (string, error)
}

type captchaVerifier interface {
	Enabled() bool
	Verify(ctx context.Context, token, remoteIP string) bool
}

type notifier interface {
	Enabled() bool
	SendApplicationNotification(to, tenantName, applicationID string) error
}

// PhotoUpload is an optional applicant photo taken from the multipart form.
type PhotoUpload struct {
	Filename string
	Data     []byte
}

// IntakeService handles the public side: assembling the form context and
// accepting or rejecting submissions.
type IntakeService struct {
	apps            applicationWriter
	tenants         *TenantService
	photos          photoStore
	captcha         captchaVerifier
	notify          notifier
	metrics         *MetricsService
	logger          *zap.Logger
	validate        *validator.Validate
	captchaSiteKey  string
	lookaheadMonths int
	now             func() time.Time
}

// NewIntakeService constructs the public intake service.
func NewIntakeService(apps applicationWriter, tenants *TenantService, photos photoStore, captcha captchaVerifier, notify notifier, metrics *MetricsService, logger *zap.Logger, captchaSiteKey string, lookaheadMonths int) *IntakeService {
	if lookaheadMonths <= 0 {
		lookaheadMonths = validation.DefaultLookaheadMonths
	}
	return &IntakeService{
		apps:            apps,
		tenants:         tenants,
		photos:          photos,
		captcha:         captcha,
		notify:          notify,
		metrics:         metrics,
		logger:          logger,
		validate:        validator.New(),
		captchaSiteKey:  captchaSiteKey,
		lookaheadMonths: lookaheadMonths,
		now:             time.Now,
	}
}

const entryDateLabelLayout = "02.01.2006"

// FormContext assembles everything the public form needs for one tenant. The
// anti-forgery token is filled in by the handler.
func (s *IntakeService) FormContext(ctx context.Context, tc *models.TenantContext) (*dto.FormContext, error) {
	types, err := s.tenants.MembershipTypes(ctx, tc.Tenant.ID)
	if err != nil {
		return nil, err
	}
	disciplines, err := s.tenants.Disciplines(ctx, tc.Tenant.ID)
	if err != nil {
		return nil, err
	}

	dates := validation.AllowedEntryDates(tc.EntryDays, s.lookaheadMonths, s.now())
	options := make([]dto.EntryDateOption, 0, len(dates))
	for _, d := range dates {
		options = append(options, dto.EntryDateOption{
			Value: d.Format(validation.DateLayout),
			Label: d.Format(entryDateLabelLayout),
		})
	}

	return &dto.FormContext{
		TenantName:      tc.Tenant.Name,
		LogoPath:        tc.Tenant.LogoPath,
		Theme:           tc.Theme,
		ShowBirthdate:   tc.Settings.ShowBirthdate,
		RequireIBAN:     tc.Settings.RequireIBAN,
		MembershipTypes: types,
		Disciplines:     disciplines,
		EntryDates:      options,
		CaptchaSiteKey:  s.captchaSiteKey,
	}, nil
}

// Submit runs the full acceptance pipeline for one application. On rule
// violations it returns a rejection carrying every violation plus the echoed
// form values; warnings alone never reject.
func (s *IntakeService) Submit(ctx context.Context, tc *models.TenantContext, req dto.SubmitApplicationRequest, photo *PhotoUpload, remoteIP string) (*dto.AcceptedResponse, *dto.RejectedResponse, error) {
	// Length caps guard the storage layer; the rule engine below owns all
	// field-level semantics.
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "field length exceeded")
	}

	if s.captcha != nil && !s.captcha.Verify(ctx, req.CaptchaToken, remoteIP) {
		s.countSubmission("captcha_rejected")
		return nil, nil, appErrors.ErrCaptchaRejected
	}

	sub := req.ToSubmission()
	outcome := validation.Validate(sub, tc.EntryDays, s.now())

	if !outcome.Accepted() {
		codes := outcome.UniqueErrors()
		fieldErrors := make([]dto.FieldError, 0, len(codes))
		for _, code := range codes {
			fieldErrors = append(fieldErrors, dto.FieldError{
				Code:    string(code),
				Message: validation.ErrorMessage(code),
			})
		}
		s.countSubmission("rejected")
		req.CaptchaToken = ""
		return nil, &dto.RejectedResponse{Errors: fieldErrors, Form: req}, nil
	}

	app, err := s.buildApplication(tc, sub, outcome)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}

	if photo != nil && len(photo.Data) > 0 && s.photos != nil {
		path, err := s.photos.Save(tc.Tenant.ID, photo.Filename, photo.Data)
		if err != nil {
			// The photo is auxiliary; a storage failure must not lose the
			// application itself.
			if s.logger != nil {
				s.logger.Warn("photo storage failed", zap.String("tenant_id", tc.Tenant.ID), zap.Error(err))
			}
		} else {
			app.PhotoPath = &path
		}
	}

	warnings := make([]string, 0, len(outcome.Warnings))
	for _, w := range outcome.Warnings {
		warnings = append(warnings, string(w))
	}

	eventPayload, err := models.EncodeCreatedEvent(warnings)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}

	if err := s.apps.Create(ctx, app, eventPayload); err != nil {
		s.countSubmission("failed")
		return nil, nil, appErrors.Wrap(err, appErrors.ErrSubmissionFailed.Code, appErrors.ErrSubmissionFailed.Status, appErrors.ErrSubmissionFailed.Message)
	}

	if app.HasWarnings {
		s.countSubmission("accepted_with_warnings")
	} else {
		s.countSubmission("accepted")
	}

	s.notifyStaff(tc, app.ID)

	warningTexts := make([]string, 0, len(outcome.Warnings))
	for _, w := range outcome.Warnings {
		warningTexts = append(warningTexts, validation.WarningMessage(w))
	}

	return &dto.AcceptedResponse{ApplicationID: app.ID, Warnings: warningTexts}, nil, nil
}

func (s *IntakeService) buildApplication(tc *models.TenantContext, sub validation.Submission, outcome validation.Outcome) (*models.Application, error) {
	now := s.now().UTC()

	birthdate, err := time.Parse(validation.DateLayout, sub.Birthdate)
	if err != nil {
		return nil, fmt.Errorf("parse birthdate: %w", err)
	}
	entryDate, err := time.Parse(validation.DateLayout, sub.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("parse entry date: %w", err)
	}

	app := &models.Application{
		TenantID:           tc.Tenant.ID,
		Status:             models.StatusNew,
		FullName:           sub.FullName,
		Email:              sub.Email,
		Phone:              sub.Phone,
		Birthdate:          &birthdate,
		Street:             sub.Street,
		Zip:                sub.Zip,
		City:               sub.City,
		MembershipTypeCode: sub.MembershipTypeCode,
		Discipline:         optional(sub.Discipline),
		EntryDate:          &entryDate,
		Remarks:            optional(sub.Remarks),
		IsMinor:            sub.IsMinor,
		GuardianName:       optional(sub.GuardianName),
		GuardianRelation:   optional(sub.GuardianRelation),
		GuardianEmail:      optional(sub.GuardianEmail),
		GuardianPhone:      optional(sub.GuardianPhone),
		GDPRConsent:        sub.PrivacyConsent,
		HasWarnings:        len(outcome.Warnings) > 0,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if sub.SEPAGranted {
		app.SEPAAccountHolder = optional(sub.SEPAAccountHolder)
		app.SEPAIBAN = optional(sub.SEPAIBAN)
		app.SEPABIC = optional(sub.SEPABIC)
		consent := now
		app.SEPAConsent = &consent
	}

	return app, nil
}

// notifyStaff fires the staff notification in the background. The mail body
// carries no applicant data, only the application id.
func (s *IntakeService) notifyStaff(tc *models.TenantContext, applicationID string) {
	if s.notify == nil || !s.notify.Enabled() {
		return
	}
	if tc.Tenant.EmailNotify == nil || *tc.Tenant.EmailNotify == "" {
		return
	}
	to := *tc.Tenant.EmailNotify
	tenantName := tc.Tenant.Name
	logger := s.logger
	go func() {
		if err := s.notify.SendApplicationNotification(to, tenantName, applicationID); err != nil && logger != nil {
			logger.Warn("staff notification failed", zap.String("application_id", applicationID), zap.Error(err))
		}
	}()
}

func (s *IntakeService) countSubmission(outcome string) {
	if s.metrics != nil {
		s.metrics.CountSubmission(outcome)
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
