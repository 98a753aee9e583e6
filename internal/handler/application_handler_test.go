package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fillqr/intake-api/internal/dto"
	"github.com/fillqr/intake-api/internal/middleware"
	"github.com/fillqr/intake-api/internal/models"
	"github.com/fillqr/intake-api/internal/service"
	"github.com/fillqr/intake-api/pkg/response"
)

type appWriterStub struct {
	created *models.Application
}

func (s *appWriterStub) Create(_ context.Context, app *models.Application, _ []byte) error {
	if app.ID == "" {
		app.ID = "app-123"
	}
	s.created = app
	return nil
}

type captchaStub struct{ ok bool }

func (s *captchaStub) Enabled() bool { return true }

func (s *captchaStub) Verify(_ context.Context, _, _ string) bool { return s.ok }

func newSubmitRouter(writer *appWriterStub, captchaOK bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	intake := service.NewIntakeService(writer, nil, nil, &captchaStub{ok: captchaOK}, nil, nil, zap.NewNop(), "", 6)
	h := NewApplicationHandler(intake, 1<<20)

	router := gin.New()
	router.POST("/api/v1/applications", func(c *gin.Context) {
		c.Set(middleware.ContextTenantKey, &models.TenantContext{
			Tenant:    models.Tenant{ID: "tenant-1", Name: "Judo Club Test", Active: true},
			Settings:  models.DefaultSettings(),
			EntryDays: []int{1},
		})
	}, h.Submit)
	return router
}

func submissionForm() url.Values {
	nextFirst := nextFirstOfMonth()
	return url.Values{
		"full_name":            {"Erika Musterfrau"},
		"birthdate":            {"1990-05-01"},
		"street":               {"Hauptstr. 1"},
		"zip":                  {"12345"},
		"city":                 {"Berlin"},
		"email":                {"erika@example.org"},
		"phone":                {"+49 30 123456"},
		"membership_type_code": {"adult"},
		"entry_date":           {nextFirst},
		"privacy_ok":           {"true"},
		"g-recaptcha-response": {"tok-1"},
	}
}

func nextFirstOfMonth() string {
	now := time.Now()
	next := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return next.Format("2006-01-02")
}

func TestSubmitAcceptedReturns201(t *testing.T) {
	writer := &appWriterStub{}
	router := newSubmitRouter(writer, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", strings.NewReader(submissionForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, writer.created)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var accepted dto.AcceptedResponse
	require.NoError(t, json.Unmarshal(data, &accepted))
	assert.Equal(t, "app-123", accepted.ApplicationID)
}

func TestSubmitRejectedReturns422WithEchoedForm(t *testing.T) {
	writer := &appWriterStub{}
	router := newSubmitRouter(writer, true)

	form := submissionForm()
	form.Set("email", "not-an-email")
	form.Del("full_name")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Nil(t, writer.created)

	body := w.Body.String()
	assert.Contains(t, body, "full_name_required")
	assert.Contains(t, body, "email_invalid")
	// Prior input comes back for re-rendering.
	assert.Contains(t, body, "Berlin")
	// The captcha token is never echoed.
	assert.NotContains(t, body, "tok-1")
}

func TestSubmitCaptchaFailureReturns400(t *testing.T) {
	writer := &appWriterStub{}
	router := newSubmitRouter(writer, false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", strings.NewReader(submissionForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CAPTCHA_REJECTED")
	assert.Nil(t, writer.created)
}

func TestSubmitMultipartWithFields(t *testing.T) {
	writer := &appWriterStub{}
	router := newSubmitRouter(writer, true)

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for key, values := range submissionForm() {
		require.NoError(t, mw.WriteField(key, values[0]))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, writer.created)
	assert.Equal(t, "Erika Musterfrau", writer.created.FullName)
}
