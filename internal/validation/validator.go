package validation

import (
	"net/mail"
	"strings"
	"time"
)

// Submission carries the raw, trimmed form input of one membership
// application. Dates stay strings here; parsing is part of validation.
type Submission struct {
	FullName           string
	Birthdate          string
	Street             string
	Zip                string
	City               string
	Email              string
	Phone              string
	MembershipTypeCode string
	Discipline         string
	EntryDate          string
	Remarks            string

	IsMinor          bool
	GuardianName     string
	GuardianRelation string
	GuardianEmail    string
	GuardianPhone    string

	SEPAAccountHolder string
	SEPAIBAN          string
	SEPABIC           string
	SEPAGranted       bool

	PrivacyConsent bool
}

// Outcome is the result of validating one submission. A submission is
// accepted exactly when no hard rule fired; warnings never block.
type Outcome struct {
	Errors   []ErrorCode
	Warnings []WarningCode
}

// Accepted reports whether the submission passed all hard rules.
func (o Outcome) Accepted() bool {
	return len(o.Errors) == 0
}

// UniqueErrors returns the error codes de-duplicated, preserving first
// occurrence order for display.
func (o Outcome) UniqueErrors() []ErrorCode {
	seen := make(map[ErrorCode]struct{}, len(o.Errors))
	out := make([]ErrorCode, 0, len(o.Errors))
	for _, code := range o.Errors {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// Validate applies every business rule to the submission and collects all
// violations instead of stopping at the first. It is a pure function over its
// inputs and safe for concurrent use.
func Validate(sub Submission, allowedDays []int, ref time.Time) Outcome {
	var out Outcome

	// Required fields.
	if sub.FullName == "" {
		out.Errors = append(out.Errors, CodeFullNameRequired)
	}
	if sub.Birthdate == "" {
		out.Errors = append(out.Errors, CodeBirthdateRequired)
	}
	if sub.Street == "" {
		out.Errors = append(out.Errors, CodeStreetRequired)
	}
	if sub.Zip == "" {
		out.Errors = append(out.Errors, CodeZipRequired)
	}
	if sub.City == "" {
		out.Errors = append(out.Errors, CodeCityRequired)
	}
	if sub.Phone == "" {
		out.Errors = append(out.Errors, CodePhoneRequired)
	}
	if sub.Email == "" {
		out.Errors = append(out.Errors, CodeEmailRequired)
	} else if !isValidEmail(sub.Email) {
		out.Errors = append(out.Errors, CodeEmailInvalid)
	}
	if sub.MembershipTypeCode == "" {
		out.Errors = append(out.Errors, CodeMembershipRequired)
	}
	if sub.EntryDate == "" {
		out.Errors = append(out.Errors, CodeEntryDateRequired)
	}
	if !sub.PrivacyConsent {
		out.Errors = append(out.Errors, CodePrivacyRequired)
	}

	// Entry date against the tenant's live configuration. Disallowed day and
	// past date collapse into one code; either way the user re-picks a date.
	if sub.EntryDate != "" {
		entryDate, err := time.Parse(DateLayout, sub.EntryDate)
		if err != nil || !IsEntryDateAllowed(entryDate, allowedDays, ref) {
			out.Errors = append(out.Errors, CodeEntryDateInvalid)
		}
	}

	// Age, when a birthdate was supplied.
	age := -1
	hasAge := false
	if sub.Birthdate != "" {
		birth, err := time.Parse(DateLayout, sub.Birthdate)
		if err != nil {
			out.Errors = append(out.Errors, CodeBirthdateInvalid)
		} else if computed, err := ComputeAge(birth, ref); err != nil {
			out.Errors = append(out.Errors, CodeBirthdateInvalid)
		} else {
			age = computed
			hasAge = true
		}
	}

	// Minor rules. The guardian requirement hangs on the declared flag alone
	// so it also fires when age computation failed or contradicts the flag.
	if hasAge && IsMinor(age) && !sub.IsMinor {
		out.Errors = append(out.Errors, CodeMinorCheckboxRequired)
	}
	if sub.IsMinor && sub.GuardianName == "" {
		out.Errors = append(out.Errors, CodeGuardianNameRequired)
	}
	if sub.GuardianEmail != "" && !isValidEmail(sub.GuardianEmail) {
		out.Errors = append(out.Errors, CodeGuardianEmailInvalid)
	}

	// Adult with the minor flag set: a guardian relationship can legitimately
	// persist past 18, so this is flagged for staff review, not rejected.
	if hasAge && !IsMinor(age) && sub.IsMinor {
		out.Warnings = append(out.Warnings, WarnMinorFlagMaybeWrong)
	}

	// SEPA cross-field rules, each checked independently.
	if sub.SEPAIBAN != "" && !sub.SEPAGranted {
		out.Errors = append(out.Errors, CodeSEPAConsentRequired)
	}
	if sub.SEPAGranted && sub.SEPAIBAN == "" {
		out.Errors = append(out.Errors, CodeSEPAIBANRequired)
	}
	if sub.SEPAGranted && sub.SEPAAccountHolder == "" {
		out.Errors = append(out.Errors, CodeSEPAAccountHolderRequired)
	}
	if sub.SEPAIBAN != "" && !IsValidIBAN(sub.SEPAIBAN) {
		out.Errors = append(out.Errors, CodeSEPAIBANInvalid)
	}

	return out
}

func isValidEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return false
	}
	// Reject display-name forms; the form expects a bare address.
	return parsed.Address == addr && strings.Contains(addr, "@")
}
