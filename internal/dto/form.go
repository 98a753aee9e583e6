package dto

import "github.com/fillqr/intake-api/internal/models"

// EntryDateOption is one selectable entry date with its display label.
type EntryDateOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormContext is everything the public form needs to render for a tenant.
type FormContext struct {
	TenantName      string                  `json:"tenantName"`
	LogoPath        *string                 `json:"logoPath,omitempty"`
	Theme           models.TenantTheme      `json:"theme"`
	ShowBirthdate   bool                    `json:"showBirthdate"`
	RequireIBAN     bool                    `json:"requireIban"`
	MembershipTypes []models.MembershipType `json:"membershipTypes"`
	Disciplines     []models.Discipline     `json:"disciplines"`
	EntryDates      []EntryDateOption       `json:"entryDates"`
	CaptchaSiteKey  string                  `json:"captchaSiteKey,omitempty"`
	CSRFToken       string                  `json:"csrfToken"`
}
