package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidIBANAcceptsKnownGoodSamples(t *testing.T) {
	samples := []string{
		"DE89370400440532013000",
		"DE89 3704 0044 0532 0130 00",
		"de89370400440532013000",
		"AT611904300234573201",
		"CH9300762011623852957",
		"FR1420041010050500013M02606",
		"GB29NWBK60161331926819",
	}
	for _, iban := range samples {
		assert.True(t, IsValidIBAN(iban), "expected %q to be valid", iban)
	}
}

func TestIsValidIBANRejectsMutatedChecksums(t *testing.T) {
	samples := []string{
		"DE89370400440532013001",
		"DE88370400440532013000",
		"DE89370400440532013010",
		"AT611904300234573202",
		"CH9300762011623852958",
	}
	for _, iban := range samples {
		assert.False(t, IsValidIBAN(iban), "expected %q to be invalid", iban)
	}
}

func TestIsValidIBANRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":              "",
		"too short":          "DE8937040044",
		"too long":           "DE893704004405320130001234567890123",
		"bad characters":     "DE89-3704-0044-0532-0130-00",
		"lowercase umlaut":   "DEä9370400440532013000",
		"whitespace only":    "     ",
	}
	for name, iban := range cases {
		t.Run(name, func(t *testing.T) {
			assert.False(t, IsValidIBAN(iban))
		})
	}
}
