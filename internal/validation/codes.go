package validation

// ErrorCode identifies a hard rule violation that blocks acceptance.
type ErrorCode string

// WarningCode identifies a non-blocking finding surfaced to staff.
type WarningCode string

const (
	CodeFullNameRequired            ErrorCode = "full_name_required"
	CodeBirthdateRequired           ErrorCode = "birthdate_required"
	CodeBirthdateInvalid            ErrorCode = "birthdate_invalid"
	CodeStreetRequired              ErrorCode = "street_required"
	CodeZipRequired                 ErrorCode = "zip_required"
	CodeCityRequired                ErrorCode = "city_required"
	CodePhoneRequired               ErrorCode = "phone_required"
	CodeEmailRequired               ErrorCode = "email_required"
	CodeEmailInvalid                ErrorCode = "email_invalid"
	CodeMembershipRequired          ErrorCode = "membership_required"
	CodeEntryDateRequired           ErrorCode = "entry_date_required"
	CodeEntryDateInvalid            ErrorCode = "entry_date_invalid"
	CodePrivacyRequired             ErrorCode = "privacy_required"
	CodeMinorCheckboxRequired       ErrorCode = "minor_checkbox_required"
	CodeGuardianNameRequired        ErrorCode = "guardian_name_required"
	CodeGuardianEmailInvalid        ErrorCode = "guardian_email_invalid"
	CodeSEPAConsentRequired         ErrorCode = "sepa_ok_required"
	CodeSEPAIBANRequired            ErrorCode = "sepa_iban_required"
	CodeSEPAAccountHolderRequired   ErrorCode = "sepa_account_holder_required"
	CodeSEPAIBANInvalid             ErrorCode = "sepa_iban_invalid"
)

const (
	WarnMinorFlagMaybeWrong WarningCode = "minor_flag_maybe_wrong"
)

var errorMessages = map[ErrorCode]string{
	CodeFullNameRequired:          "Bitte geben Sie Ihren vollständigen Namen an.",
	CodeBirthdateRequired:         "Bitte geben Sie Ihr Geburtsdatum an.",
	CodeBirthdateInvalid:          "Bitte geben Sie ein gültiges Geburtsdatum ein.",
	CodeStreetRequired:            "Bitte geben Sie Ihre Straße und Hausnummer an.",
	CodeZipRequired:               "Bitte geben Sie Ihre Postleitzahl an.",
	CodeCityRequired:              "Bitte geben Sie Ihren Wohnort an.",
	CodePhoneRequired:             "Bitte geben Sie eine Telefonnummer an.",
	CodeEmailRequired:             "Bitte geben Sie eine E-Mail-Adresse an.",
	CodeEmailInvalid:              "Bitte geben Sie eine gültige E-Mail-Adresse an.",
	CodeMembershipRequired:        "Bitte wählen Sie eine Mitgliedschaft.",
	CodeEntryDateRequired:         "Bitte wählen Sie einen Eintrittstermin.",
	CodeEntryDateInvalid:          "Der gewählte Eintrittstermin ist nicht gültig.",
	CodePrivacyRequired:           "Bitte stimmen Sie der Datenschutzerklärung zu.",
	CodeMinorCheckboxRequired:     "Bei minderjährigen Mitgliedern muss das Feld „Ich bin minderjährig“ markiert sein.",
	CodeGuardianNameRequired:      "Bei minderjährigen Mitgliedern muss ein gesetzlicher Vertreter eingetragen werden.",
	CodeGuardianEmailInvalid:      "Die E-Mail-Adresse des gesetzlichen Vertreters ist nicht gültig.",
	CodeSEPAConsentRequired:       "Wenn eine IBAN eingetragen ist, muss das SEPA-Lastschriftmandat bestätigt werden.",
	CodeSEPAIBANRequired:          "Wenn ein SEPA-Mandat erteilt wird, muss eine IBAN eingetragen werden.",
	CodeSEPAAccountHolderRequired: "Wenn ein SEPA-Mandat erteilt wird, muss der Kontoinhaber eingetragen werden.",
	CodeSEPAIBANInvalid:           "Die angegebene IBAN ist nicht gültig.",
}

var warningMessages = map[WarningCode]string{
	WarnMinorFlagMaybeWrong: "Laut Geburtsdatum volljährig, aber als minderjährig markiert – bitte prüfen.",
}

// ErrorMessage resolves the user-facing text for an error code. Unknown codes
// render as the literal code so a rejection is never shown without explanation.
func ErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return string(code)
}

// WarningMessage resolves the staff-facing text for a warning code, falling
// back to the literal code for unknown values.
func WarningMessage(code WarningCode) string {
	if msg, ok := warningMessages[code]; ok {
		return msg
	}
	return string(code)
}
