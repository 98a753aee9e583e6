package validation

import "strings"

// IsValidIBAN checks structural validity and the mod-97 checksum of an IBAN.
// Malformed input yields false, never an error.
func IsValidIBAN(raw string) bool {
	iban := strings.ToUpper(strings.ReplaceAll(raw, " ", ""))

	if len(iban) < 15 || len(iban) > 34 {
		return false
	}
	for i := 0; i < len(iban); i++ {
		ch := iban[i]
		if (ch < 'A' || ch > 'Z') && (ch < '0' || ch > '9') {
			return false
		}
	}

	// Move the country code and check digits to the end.
	rearranged := iban[4:] + iban[:4]

	// Letters expand to their two-digit value (A=10 .. Z=35); the running
	// remainder avoids materializing the full number.
	remainder := 0
	for i := 0; i < len(rearranged); i++ {
		ch := rearranged[i]
		if ch >= 'A' && ch <= 'Z' {
			value := int(ch - 'A' + 10)
			remainder = (remainder*10 + value/10) % 97
			remainder = (remainder*10 + value%10) % 97
		} else {
			remainder = (remainder*10 + int(ch-'0')) % 97
		}
	}

	return remainder == 1
}
