package models

import "time"

// ApplicationStatus enumerates the staff triage states. Transitions are
// unordered; staff may move a record between any two states, including
// backwards, to correct operator mistakes.
type ApplicationStatus string

const (
	StatusNew      ApplicationStatus = "new"
	StatusReviewed ApplicationStatus = "reviewed"
	StatusExported ApplicationStatus = "exported"
	StatusArchived ApplicationStatus = "archived"
)

// ValidStatus reports whether the value is part of the enumeration.
func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusNew, StatusReviewed, StatusExported, StatusArchived:
		return true
	}
	return false
}

// Application is one persisted membership application. The tenant id is
// immutable after creation; records are never deleted by this system.
type Application struct {
	ID       string            `db:"id" json:"id"`
	TenantID string            `db:"tenant_id" json:"tenantId"`
	Status   ApplicationStatus `db:"status" json:"status"`

	FullName           string     `db:"full_name" json:"fullName"`
	Email              string     `db:"email" json:"email"`
	Phone              string     `db:"phone" json:"phone"`
	Birthdate          *time.Time `db:"birthdate" json:"birthdate,omitempty"`
	Street             string     `db:"street" json:"street"`
	Zip                string     `db:"zip" json:"zip"`
	City               string     `db:"city" json:"city"`
	MembershipTypeCode string     `db:"membership_type_code" json:"membershipTypeCode"`
	Discipline         *string    `db:"discipline" json:"discipline,omitempty"`
	EntryDate          *time.Time `db:"entry_date" json:"entryDate,omitempty"`
	Remarks            *string    `db:"remarks" json:"remarks,omitempty"`

	IsMinor          bool    `db:"is_minor" json:"isMinor"`
	GuardianName     *string `db:"guardian_name" json:"guardianName,omitempty"`
	GuardianRelation *string `db:"guardian_relation" json:"guardianRelation,omitempty"`
	GuardianEmail    *string `db:"guardian_email" json:"guardianEmail,omitempty"`
	GuardianPhone    *string `db:"guardian_phone" json:"guardianPhone,omitempty"`

	SEPAAccountHolder *string    `db:"sepa_account_holder" json:"sepaAccountHolder,omitempty"`
	SEPAIBAN          *string    `db:"sepa_iban" json:"sepaIban,omitempty"`
	SEPABIC           *string    `db:"sepa_bic" json:"sepaBic,omitempty"`
	SEPAConsent       *time.Time `db:"sepa_consent" json:"sepaConsent,omitempty"`

	GDPRConsent bool    `db:"gdpr_consent" json:"gdprConsent"`
	HasWarnings bool    `db:"has_warnings" json:"hasWarnings"`
	PhotoPath   *string `db:"photo_path" json:"photoPath,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ApplicationFilter narrows admin list queries.
type ApplicationFilter struct {
	Status   ApplicationStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
	Limit    int
	Offset   int
}

// Pagination describes list slicing for API responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}
