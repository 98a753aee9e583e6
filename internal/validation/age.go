package validation

import (
	"errors"
	"time"
)

const maxPlausibleAge = 120

// ErrBirthdateImplausible flags birthdates in the future or implying an age
// beyond any plausible applicant.
var ErrBirthdateImplausible = errors.New("birthdate implausible")

// ComputeAge returns whole years elapsed between birthdate and the reference
// day, decremented by one when the anniversary has not yet occurred.
func ComputeAge(birthdate, ref time.Time) (int, error) {
	birth := truncateToDay(birthdate)
	today := truncateToDay(ref)

	if birth.After(today) {
		return 0, ErrBirthdateImplausible
	}

	age := today.Year() - birth.Year()
	anniversary := time.Date(today.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, today.Location())
	if today.Before(anniversary) {
		age--
	}

	if age > maxPlausibleAge {
		return 0, ErrBirthdateImplausible
	}
	return age, nil
}

// IsMinor classifies an age as legally minor.
func IsMinor(age int) bool {
	return age < 18
}
