package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fillqr/intake-api/internal/dto"
	"github.com/fillqr/intake-api/internal/models"
	appErrors "github.com/fillqr/intake-api/pkg/errors"
)

type stubAppWriter struct {
	created *models.Application
	payload []byte
	err     error
}

func (s *stubAppWriter) Create(_ context.Context, app *models.Application, eventPayload []byte) error {
	if s.err != nil {
		return s.err
	}
	if app.ID == "" {
		app.ID = "app-123"
	}
	s.created = app
	s.payload = eventPayload
	return nil
}

type stubPhotoStore struct {
	path  string
	err   error
	calls int
}

func (s *stubPhotoStore) Save(_, _ string, _ []byte) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.path, nil
}

type stubCaptcha struct {
	ok     bool
	called bool
	token  string
}

func (s *stubCaptcha) Enabled() bool { return true }

func (s *stubCaptcha) Verify(_ context.Context, token, _ string) bool {
	s.called = true
	s.token = token
	return s.ok
}

type stubNotifier struct {
	enabled bool
	sent    chan string
}

func (s *stubNotifier) Enabled() bool { return s != nil && s.enabled }

func (s *stubNotifier) SendApplicationNotification(_, _, applicationID string) error {
	s.sent <- applicationID
	return nil
}

var intakeRef = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func newIntakeTenantContext() *models.TenantContext {
	tenant := newTestTenant("tenant-1")
	tenant.EmailNotify = strPtr("vorstand@club.example.org")
	return &models.TenantContext{
		Tenant:    *tenant,
		Theme:     models.DefaultTheme(),
		Settings:  models.DefaultSettings(),
		EntryDays: []int{1},
	}
}

func validRequest() dto.SubmitApplicationRequest {
	return dto.SubmitApplicationRequest{
		FullName:           "Erika Musterfrau",
		Birthdate:          "1990-05-01",
		Street:             "Hauptstr. 1",
		Zip:                "12345",
		City:               "Berlin",
		Email:              "erika@example.org",
		Phone:              "+49 30 123456",
		MembershipTypeCode: "adult",
		EntryDate:          "2024-04-01",
		PrivacyConsent:     true,
		CaptchaToken:       "tok-1",
	}
}

func newIntakeService(writer *stubAppWriter, photos *stubPhotoStore, captcha *stubCaptcha, notify *stubNotifier) *IntakeService {
	svc := NewIntakeService(writer, nil, photos, captcha, notify, nil, zap.NewNop(), "site-key", 6)
	svc.now = func() time.Time { return intakeRef }
	return svc
}

func TestSubmitAcceptsValidApplication(t *testing.T) {
	writer := &stubAppWriter{}
	captcha := &stubCaptcha{ok: true}
	notify := &stubNotifier{enabled: true, sent: make(chan string, 1)}
	svc := newIntakeService(writer, nil, captcha, notify)

	accepted, rejected, err := svc.Submit(context.Background(), newIntakeTenantContext(), validRequest(), nil, "203.0.113.7")
	require.NoError(t, err)
	require.Nil(t, rejected)
	require.NotNil(t, accepted)

	assert.Equal(t, "app-123", accepted.ApplicationID)
	assert.Empty(t, accepted.Warnings)
	assert.True(t, captcha.called)
	assert.Equal(t, "tok-1", captcha.token)

	require.NotNil(t, writer.created)
	assert.Equal(t, "tenant-1", writer.created.TenantID)
	assert.Equal(t, models.StatusNew, writer.created.Status)
	assert.Equal(t, "Erika Musterfrau", writer.created.FullName)
	assert.False(t, writer.created.HasWarnings)
	assert.True(t, writer.created.GDPRConsent)
	assert.Nil(t, writer.created.SEPAIBAN)
	assert.JSONEq(t, `{"type":"created","warnings":[]}`, string(writer.payload))

	select {
	case id := <-notify.sent:
		assert.Equal(t, "app-123", id)
	case <-time.After(time.Second):
		t.Fatal("expected staff notification")
	}
}

func TestSubmitRejectsWithAllViolations(t *testing.T) {
	writer := &stubAppWriter{}
	svc := newIntakeService(writer, nil, &stubCaptcha{ok: true}, nil)

	req := dto.SubmitApplicationRequest{CaptchaToken: "tok-1"}
	accepted, rejected, err := svc.Submit(context.Background(), newIntakeTenantContext(), req, nil, "")
	require.NoError(t, err)
	require.Nil(t, accepted)
	require.NotNil(t, rejected)

	assert.Nil(t, writer.created)
	// Every missing required field reports at once.
	assert.GreaterOrEqual(t, len(rejected.Errors), 9)
	for _, fe := range rejected.Errors {
		assert.NotEmpty(t, fe.Code)
		assert.NotEmpty(t, fe.Message)
	}
	// The echoed form never carries the captcha token back.
	assert.Empty(t, rejected.Form.CaptchaToken)
}

func TestSubmitRejectsOverlongField(t *testing.T) {
	writer := &stubAppWriter{}
	svc := newIntakeService(writer, nil, &stubCaptcha{ok: true}, nil)

	req := validRequest()
	req.FullName = strings.Repeat("x", 201)

	_, _, err := svc.Submit(context.Background(), newIntakeTenantContext(), req, nil, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, writer.created)
}

func TestSubmitRejectsOnCaptchaFailure(t *testing.T) {
	writer := &stubAppWriter{}
	svc := newIntakeService(writer, nil, &stubCaptcha{ok: false}, nil)

	_, _, err := svc.Submit(context.Background(), newIntakeTenantContext(), validRequest(), nil, "")
	assert.ErrorIs(t, err, appErrors.ErrCaptchaRejected)
	assert.Nil(t, writer.created)
}

func TestSubmitAcceptsWithWarning(t *testing.T) {
	writer := &stubAppWriter{}
	svc := newIntakeService(writer, nil, &stubCaptcha{ok: true}, nil)

	req := validRequest()
	req.IsMinor = true
	req.GuardianName = "Max Musterfrau"

	accepted, rejected, err := svc.Submit(context.Background(), newIntakeTenantContext(), req, nil, "")
	require.NoError(t, err)
	require.Nil(t, rejected)
	require.NotNil(t, accepted)

	assert.Len(t, accepted.Warnings, 1)
	assert.True(t, writer.created.HasWarnings)
	assert.Contains(t, string(writer.payload), "minor_flag_maybe_wrong")
}

func TestSubmitStoresPhotoWhenProvided(t *testing.T) {
	writer := &stubAppWriter{}
	photos := &stubPhotoStore{path: "tenant-1/photos/photo.jpg"}
	svc := newIntakeService(writer, photos, &stubCaptcha{ok: true}, nil)

	photo := &PhotoUpload{Filename: "me.jpg", Data: []byte{0xff, 0xd8}}
	accepted, _, err := svc.Submit(context.Background(), newIntakeTenantContext(), validRequest(), photo, "")
	require.NoError(t, err)
	require.NotNil(t, accepted)

	assert.Equal(t, 1, photos.calls)
	require.NotNil(t, writer.created.PhotoPath)
	assert.Equal(t, "tenant-1/photos/photo.jpg", *writer.created.PhotoPath)
}

func TestSubmitKeepsApplicationWhenPhotoStorageFails(t *testing.T) {
	writer := &stubAppWriter{}
	photos := &stubPhotoStore{err: errors.New("disk full")}
	svc := newIntakeService(writer, photos, &stubCaptcha{ok: true}, nil)

	photo := &PhotoUpload{Filename: "me.jpg", Data: []byte{0xff, 0xd8}}
	accepted, _, err := svc.Submit(context.Background(), newIntakeTenantContext(), validRequest(), photo, "")
	require.NoError(t, err)
	require.NotNil(t, accepted)
	assert.Nil(t, writer.created.PhotoPath)
}

func TestSubmitWrapsStorageFailure(t *testing.T) {
	writer := &stubAppWriter{err: errors.New("connection reset")}
	svc := newIntakeService(writer, nil, &stubCaptcha{ok: true}, nil)

	_, _, err := svc.Submit(context.Background(), newIntakeTenantContext(), validRequest(), nil, "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrSubmissionFailed.Code, appErr.Code)
}

func TestFormContextBuildsEntryDates(t *testing.T) {
	repo := &stubTenantRepo{
		types:       []models.MembershipType{{Code: "adult", Label: "Erwachsene"}},
		disciplines: []models.Discipline{{Code: "judo", Label: "Judo"}},
	}
	tenants := NewTenantService(repo, nil, time.Minute, zap.NewNop())

	svc := NewIntakeService(&stubAppWriter{}, tenants, nil, nil, nil, nil, zap.NewNop(), "site-key", 3)
	svc.now = func() time.Time { return intakeRef }

	tc := newIntakeTenantContext()
	form, err := svc.FormContext(context.Background(), tc)
	require.NoError(t, err)

	assert.Equal(t, "Judo Club Test", form.TenantName)
	assert.Equal(t, "site-key", form.CaptchaSiteKey)
	assert.Len(t, form.MembershipTypes, 1)
	assert.Len(t, form.Disciplines, 1)
	// Day 1 with a three month lookahead from March 10th; March 1st is past.
	require.Len(t, form.EntryDates, 2)
	assert.Equal(t, "2024-04-01", form.EntryDates[0].Value)
	assert.Equal(t, "01.04.2024", form.EntryDates[0].Label)
	assert.Equal(t, "2024-05-01", form.EntryDates[1].Value)
}
