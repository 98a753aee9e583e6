package models

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Tenant is one client organization; all data and configuration belong to
// exactly one tenant, keyed by the request host.
type Tenant struct {
	ID          string     `db:"id" json:"id"`
	KeySlug     string     `db:"key_slug" json:"keySlug"`
	Name        string     `db:"name" json:"name"`
	LogoPath    *string    `db:"logo_path" json:"logoPath,omitempty"`
	EmailNotify *string    `db:"email_notify" json:"-"`
	Active      bool       `db:"active" json:"active"`
	ThemeJSON   []byte     `db:"theme_json" json:"-"`
	SettingsJSON []byte    `db:"settings_json" json:"-"`
	EntryDays   *string    `db:"entry_days" json:"-"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}

// TenantTheme carries presentation settings with explicit defaults.
type TenantTheme struct {
	Primary     string `json:"primary"`
	Accent      string `json:"accent"`
	Background  string `json:"background"`
	LogoVariant string `json:"logo_variant"`
}

// TenantSettings is the typed form of the tenant settings blob, merged with
// defaults exactly once at load time.
type TenantSettings struct {
	RequireIBAN   bool          `json:"require_iban"`
	ShowBirthdate bool          `json:"show_birthdate"`
	AppType       string        `json:"app_type"`
	EntryDays     json.RawMessage `json:"entry_days"`
}

// TenantContext is the fully resolved per-request tenant view: identity,
// typed settings, and the normalized entry-day policy. It is a plain value,
// passed explicitly instead of living in a process-wide cache.
type TenantContext struct {
	Tenant    Tenant         `json:"tenant"`
	Theme     TenantTheme    `json:"theme"`
	Settings  TenantSettings `json:"settings"`
	EntryDays []int          `json:"entryDays"`
}

// DefaultTheme returns the baseline theme values, overridden by stored JSON.
func DefaultTheme() TenantTheme {
	return TenantTheme{
		Primary:     "#0d6efd",
		Accent:      "#6610f2",
		Background:  "#f4f6fb",
		LogoVariant: "light",
	}
}

// DefaultSettings returns the baseline settings values.
func DefaultSettings() TenantSettings {
	return TenantSettings{
		RequireIBAN:   false,
		ShowBirthdate: true,
		AppType:       "club",
	}
}

// NormalizeEntryDays parses an entry-day value that may arrive as a JSON
// array, a JSON string, or a legacy comma/space separated column value, and
// returns the admissible days deduplicated and ascending. Values outside
// 1..28 are dropped to avoid month-length ambiguity.
func NormalizeEntryDays(raw json.RawMessage, legacy string) []int {
	days := parseEntryDays(raw)
	if len(days) == 0 {
		days = splitEntryDays(legacy)
	}
	if len(days) == 0 {
		return []int{1}
	}
	return days
}

func parseEntryDays(raw json.RawMessage) []int {
	if len(raw) == 0 {
		return nil
	}

	var asInts []int
	if err := json.Unmarshal(raw, &asInts); err == nil {
		return normalizeDays(asInts)
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return splitEntryDays(asString)
	}

	return nil
}

func splitEntryDays(value string) []int {
	if value == "" {
		return nil
	}
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	days := make([]int, 0, len(fields))
	for _, f := range fields {
		n := 0
		for _, r := range f {
			if r < '0' || r > '9' {
				n = 0
				break
			}
			n = n*10 + int(r-'0')
		}
		if n > 0 {
			days = append(days, n)
		}
	}
	return normalizeDays(days)
}

func normalizeDays(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	days := make([]int, 0, len(in))
	for _, n := range in {
		if n < 1 || n > 28 {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		days = append(days, n)
	}
	sort.Ints(days)
	return days
}
