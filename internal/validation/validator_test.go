package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRef = date(2024, time.March, 10)

func validSubmission() Submission {
	return Submission{
		FullName:           "Erika Musterfrau",
		Birthdate:          "1990-06-15",
		Street:             "Musterstraße 12",
		Zip:                "12345",
		City:               "Musterstadt",
		Email:              "erika@example.com",
		Phone:              "+49 170 1234567",
		MembershipTypeCode: "adult_active",
		EntryDate:          "2024-04-01",
		PrivacyConsent:     true,
	}
}

func TestValidateHappyPath(t *testing.T) {
	out := Validate(validSubmission(), []int{1, 15}, testRef)

	assert.True(t, out.Accepted())
	assert.Empty(t, out.Errors)
	assert.Empty(t, out.Warnings)
}

func TestValidateCollectsAllMissingRequiredFields(t *testing.T) {
	out := Validate(Submission{}, []int{1, 15}, testRef)

	require.False(t, out.Accepted())
	expected := []ErrorCode{
		CodeFullNameRequired,
		CodeBirthdateRequired,
		CodeStreetRequired,
		CodeZipRequired,
		CodeCityRequired,
		CodePhoneRequired,
		CodeEmailRequired,
		CodeMembershipRequired,
		CodeEntryDateRequired,
		CodePrivacyRequired,
	}
	assert.Equal(t, expected, out.Errors)
}

func TestValidateEmailFormatCheckedAfterPresence(t *testing.T) {
	sub := validSubmission()
	sub.Email = "not-an-email"
	out := Validate(sub, []int{1, 15}, testRef)

	assert.Contains(t, out.Errors, CodeEmailInvalid)
	assert.NotContains(t, out.Errors, CodeEmailRequired)
}

func TestValidateMinorWithoutGuardianRejected(t *testing.T) {
	sub := validSubmission()
	sub.Birthdate = "2008-01-20" // age 16 at reference
	sub.IsMinor = true
	sub.GuardianName = ""

	out := Validate(sub, []int{1, 15}, testRef)

	require.False(t, out.Accepted())
	assert.Contains(t, out.Errors, CodeGuardianNameRequired)
	assert.NotContains(t, out.Errors, CodeMinorCheckboxRequired)
}

func TestValidateMinorWithoutFlagRejected(t *testing.T) {
	sub := validSubmission()
	sub.Birthdate = "2008-01-20"
	sub.IsMinor = false

	out := Validate(sub, []int{1, 15}, testRef)

	assert.Contains(t, out.Errors, CodeMinorCheckboxRequired)
}

func TestValidateGuardianRequirementIndependentOfAge(t *testing.T) {
	// Flag set by an adult: guardian name still required, plus the warning.
	sub := validSubmission()
	sub.IsMinor = true
	sub.GuardianName = ""

	out := Validate(sub, []int{1, 15}, testRef)

	assert.Contains(t, out.Errors, CodeGuardianNameRequired)
	assert.Contains(t, out.Warnings, WarnMinorFlagMaybeWrong)
}

func TestValidateGuardianEmailFormat(t *testing.T) {
	sub := validSubmission()
	sub.Birthdate = "2008-01-20"
	sub.IsMinor = true
	sub.GuardianName = "Max Musterfrau"
	sub.GuardianEmail = "broken@"

	out := Validate(sub, []int{1, 15}, testRef)

	assert.Contains(t, out.Errors, CodeGuardianEmailInvalid)
}

func TestValidateSEPAPartialRules(t *testing.T) {
	// IBAN present, mandate flag missing.
	sub := validSubmission()
	sub.SEPAIBAN = "DE89370400440532013000"
	sub.SEPAGranted = false

	out := Validate(sub, []int{1, 15}, testRef)
	assert.Contains(t, out.Errors, CodeSEPAConsentRequired)
	assert.NotContains(t, out.Errors, CodeSEPAIBANInvalid)

	// Invalid IBAN without the flag yields both codes at once.
	sub.SEPAIBAN = "DE00370400440532013000"
	out = Validate(sub, []int{1, 15}, testRef)
	assert.Contains(t, out.Errors, CodeSEPAConsentRequired)
	assert.Contains(t, out.Errors, CodeSEPAIBANInvalid)

	// Mandate granted without IBAN and account holder.
	sub = validSubmission()
	sub.SEPAGranted = true
	out = Validate(sub, []int{1, 15}, testRef)
	assert.Contains(t, out.Errors, CodeSEPAIBANRequired)
	assert.Contains(t, out.Errors, CodeSEPAAccountHolderRequired)
}

func TestValidateSEPACompleteAccepted(t *testing.T) {
	sub := validSubmission()
	sub.SEPAIBAN = "DE89 3704 0044 0532 0130 00"
	sub.SEPAAccountHolder = "Erika Musterfrau"
	sub.SEPAGranted = true

	out := Validate(sub, []int{1, 15}, testRef)

	assert.True(t, out.Accepted())
}

func TestValidateStaleEntryDateRejected(t *testing.T) {
	// The 20th was offered by an older form rendering but is no longer
	// configured for this tenant.
	sub := validSubmission()
	sub.EntryDate = "2024-04-20"

	out := Validate(sub, []int{1, 15}, testRef)

	assert.Contains(t, out.Errors, CodeEntryDateInvalid)
}

func TestValidatePastEntryDateRejected(t *testing.T) {
	sub := validSubmission()
	sub.EntryDate = "2024-03-01"

	out := Validate(sub, []int{1, 15}, testRef)

	assert.Contains(t, out.Errors, CodeEntryDateInvalid)
}

func TestValidateUnparseableDatesRejected(t *testing.T) {
	sub := validSubmission()
	sub.EntryDate = "01.04.2024"
	sub.Birthdate = "15.06.1990"

	out := Validate(sub, []int{1, 15}, testRef)

	assert.Contains(t, out.Errors, CodeEntryDateInvalid)
	assert.Contains(t, out.Errors, CodeBirthdateInvalid)
}

func TestValidateAdultWithMinorFlagWarnsOnly(t *testing.T) {
	sub := validSubmission()
	sub.IsMinor = true
	sub.GuardianName = "Hans Musterfrau"

	out := Validate(sub, []int{1, 15}, testRef)

	assert.True(t, out.Accepted())
	assert.Equal(t, []WarningCode{WarnMinorFlagMaybeWrong}, out.Warnings)
}

func TestValidateWarningNeverBlocksEvenForLargeAges(t *testing.T) {
	sub := validSubmission()
	sub.Birthdate = "1944-01-01" // age 80
	sub.IsMinor = true
	sub.GuardianName = "Betreuer"

	out := Validate(sub, []int{1, 15}, testRef)

	assert.True(t, out.Accepted())
	assert.Contains(t, out.Warnings, WarnMinorFlagMaybeWrong)
}

func TestValidateIdempotent(t *testing.T) {
	sub := validSubmission()
	sub.Email = "broken"
	sub.SEPAGranted = true

	first := Validate(sub, []int{1, 15}, testRef)
	second := Validate(sub, []int{1, 15}, testRef)

	assert.Equal(t, first, second)
}

func TestOutcomeUniqueErrors(t *testing.T) {
	out := Outcome{Errors: []ErrorCode{
		CodeEmailInvalid,
		CodeEntryDateInvalid,
		CodeEmailInvalid,
	}}

	assert.Equal(t, []ErrorCode{CodeEmailInvalid, CodeEntryDateInvalid}, out.UniqueErrors())
}

func TestErrorMessageFallsBackToLiteralCode(t *testing.T) {
	assert.Equal(t, "Bitte geben Sie eine gültige E-Mail-Adresse an.", ErrorMessage(CodeEmailInvalid))
	assert.Equal(t, "mystery_code", ErrorMessage(ErrorCode("mystery_code")))
	assert.Equal(t, "mystery_warning", WarningMessage(WarningCode("mystery_warning")))
}
