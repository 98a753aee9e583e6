package dto

import (
	"strings"

	"github.com/fillqr/intake-api/internal/models"
	"github.com/fillqr/intake-api/internal/validation"
)

// SubmitApplicationRequest is the public form payload. Binding stays loose on
// purpose: required-ness and all cross-field rules belong to the rule engine
// so a single response can carry every violation at once.
type SubmitApplicationRequest struct {
	FullName           string `form:"full_name" json:"fullName" validate:"max=200"`
	Birthdate          string `form:"birthdate" json:"birthdate" validate:"max=32"`
	Street             string `form:"street" json:"street" validate:"max=200"`
	Zip                string `form:"zip" json:"zip" validate:"max=16"`
	City               string `form:"city" json:"city" validate:"max=120"`
	Email              string `form:"email" json:"email" validate:"max=254"`
	Phone              string `form:"phone" json:"phone" validate:"max=64"`
	MembershipTypeCode string `form:"membership_type_code" json:"membershipTypeCode" validate:"max=64"`
	Discipline         string `form:"style" json:"discipline" validate:"max=120"`
	EntryDate          string `form:"entry_date" json:"entryDate" validate:"max=32"`
	Remarks            string `form:"remarks" json:"remarks" validate:"max=2000"`

	IsMinor          bool   `form:"is_minor" json:"isMinor"`
	GuardianName     string `form:"guardian_name" json:"guardianName" validate:"max=200"`
	GuardianRelation string `form:"guardian_relation" json:"guardianRelation" validate:"max=120"`
	GuardianEmail    string `form:"guardian_email" json:"guardianEmail" validate:"max=254"`
	GuardianPhone    string `form:"guardian_phone" json:"guardianPhone" validate:"max=64"`

	SEPAAccountHolder string `form:"sepa_account_holder" json:"sepaAccountHolder" validate:"max=200"`
	SEPAIBAN          string `form:"sepa_iban" json:"sepaIban" validate:"max=48"`
	SEPABIC           string `form:"sepa_bic" json:"sepaBic" validate:"max=16"`
	SEPAGranted       bool   `form:"sepa_ok" json:"sepaOk"`

	PrivacyConsent bool   `form:"privacy_ok" json:"privacyOk"`
	CaptchaToken   string `form:"g-recaptcha-response" json:"captchaToken" validate:"max=4096"`
}

// ToSubmission trims every text field and maps the request onto the rule
// engine's input value.
func (r SubmitApplicationRequest) ToSubmission() validation.Submission {
	return validation.Submission{
		FullName:           strings.TrimSpace(r.FullName),
		Birthdate:          strings.TrimSpace(r.Birthdate),
		Street:             strings.TrimSpace(r.Street),
		Zip:                strings.TrimSpace(r.Zip),
		City:               strings.TrimSpace(r.City),
		Email:              strings.TrimSpace(r.Email),
		Phone:              strings.TrimSpace(r.Phone),
		MembershipTypeCode: strings.TrimSpace(r.MembershipTypeCode),
		Discipline:         strings.TrimSpace(r.Discipline),
		EntryDate:          strings.TrimSpace(r.EntryDate),
		Remarks:            strings.TrimSpace(r.Remarks),
		IsMinor:            r.IsMinor,
		GuardianName:       strings.TrimSpace(r.GuardianName),
		GuardianRelation:   strings.TrimSpace(r.GuardianRelation),
		GuardianEmail:      strings.TrimSpace(r.GuardianEmail),
		GuardianPhone:      strings.TrimSpace(r.GuardianPhone),
		SEPAAccountHolder:  strings.TrimSpace(r.SEPAAccountHolder),
		SEPAIBAN:           strings.TrimSpace(r.SEPAIBAN),
		SEPABIC:            strings.TrimSpace(r.SEPABIC),
		SEPAGranted:        r.SEPAGranted,
		PrivacyConsent:     r.PrivacyConsent,
	}
}

// FieldError pairs a stable code with its user-facing message.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RejectedResponse echoes the submitted values next to the full error list so
// the client can re-render the form with prior input preserved.
type RejectedResponse struct {
	Errors []FieldError             `json:"errors"`
	Form   SubmitApplicationRequest `json:"form"`
}

// AcceptedResponse acknowledges a stored application.
type AcceptedResponse struct {
	ApplicationID string   `json:"applicationId"`
	Warnings      []string `json:"warnings"`
}

// UpdateStatusRequest moves an application to a new triage status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ApplicationListItem is the condensed admin list row.
type ApplicationListItem struct {
	ID                 string  `json:"id"`
	CreatedAt          string  `json:"createdAt"`
	Status             string  `json:"status"`
	FullName           string  `json:"fullName"`
	Email              string  `json:"email"`
	City               string  `json:"city"`
	MembershipTypeCode string  `json:"membershipTypeCode"`
	EntryDate          *string `json:"entryDate,omitempty"`
	IsMinor            bool    `json:"isMinor"`
	HasWarnings        bool    `json:"hasWarnings"`
}

// ApplicationDetail extends the stored record with resolved warning texts.
type ApplicationDetail struct {
	Application models.Application `json:"application"`
	Warnings    []FieldError       `json:"warnings"`
}

// ListApplicationsQuery carries admin list filters.
type ListApplicationsQuery struct {
	Status   string `form:"status"`
	DateFrom string `form:"dateFrom"`
	DateTo   string `form:"dateTo"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
}
