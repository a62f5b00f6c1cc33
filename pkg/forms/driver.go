package forms

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minPasswordLength = 8
	// bcrypt rejects longer input.
	maxPasswordBytes = 72
)

// MsgPasswordTooLong is reported on password2 for passwords bcrypt cannot hash.
const MsgPasswordTooLong = "This password is too long. It must contain at most 72 bytes."

type DriverCreationForm struct {
	Username      string `form:"username" json:"username" validate:"required,max=150,username"`
	LicenseNumber string `form:"license_number" json:"license_number" validate:"required"`
	FirstName     string `form:"first_name" json:"first_name" validate:"max=150"`
	LastName      string `form:"last_name" json:"last_name" validate:"max=150"`
	Password1     string `form:"password1" json:"password1" validate:"required"`
	Password2     string `form:"password2" json:"password2" validate:"required"`
}

func (f *DriverCreationForm) normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.LicenseNumber = strings.TrimSpace(f.LicenseNumber)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
}

// Validate trims text fields in place and checks the form.
func (f *DriverCreationForm) Validate() error {
	f.normalize()

	errs := validateStruct(f)
	cleanLicenseNumber(errs, f.LicenseNumber)

	if f.Password1 != "" && f.Password2 != "" && f.Password1 != f.Password2 {
		errs.Add("password2", "The two password fields didn't match.")
	}
	if f.Password1 != "" && !errs.Has("password2") {
		for _, msg := range passwordProblems(f.Password1, f.Username) {
			errs.Add("password2", msg)
		}
	}

	return errs.Err()
}

func passwordProblems(password, username string) []string {
	var problems []string

	if utf8.RuneCountInString(password) < minPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if len(password) > maxPasswordBytes {
		problems = append(problems, MsgPasswordTooLong)
	}
	if isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	if username != "" && strings.EqualFold(password, username) {
		problems = append(problems, "The password is too similar to the username.")
	}
	return problems
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

type DriverLicenseUpdateForm struct {
	LicenseNumber string `form:"license_number" json:"license_number" validate:"required"`
}

func (f *DriverLicenseUpdateForm) Validate() error {
	f.LicenseNumber = strings.TrimSpace(f.LicenseNumber)

	errs := validateStruct(f)
	cleanLicenseNumber(errs, f.LicenseNumber)
	return errs.Err()
}
