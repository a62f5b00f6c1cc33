package forms

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

const licenseNumberLength = 8

var (
	ErrLicenseLength  = errors.New("License number should consist of 8 characters")
	ErrLicensePrefix  = errors.New("First 3 characters should be uppercase letters")
	ErrLicenseDigits  = errors.New("Last 5 characters should be digits")
	licensePrefixRule = regexp.MustCompile(`^[A-Z]{3}`)
	licenseDigitsRule = regexp.MustCompile(`[0-9]{5}$`)
)

// ValidateLicenseNumber checks a driver's license number: three uppercase
// Latin letters followed by five digits, e.g. "HRN84739". The first failing
// rule is reported.
func ValidateLicenseNumber(number string) error {
	if utf8.RuneCountInString(number) != licenseNumberLength {
		return ErrLicenseLength
	}
	if !licensePrefixRule.MatchString(number) {
		return ErrLicensePrefix
	}
	if !licenseDigitsRule.MatchString(number) {
		return ErrLicenseDigits
	}
	return nil
}

func cleanLicenseNumber(errs Errors, number string) {
	if number == "" || errs.Has("license_number") {
		return
	}
	if err := ValidateLicenseNumber(number); err != nil {
		errs.Add("license_number", err.Error())
	}
}
