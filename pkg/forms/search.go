package forms

import "strings"

// Search forms never require input: a blank term lists everything.

type CarModelSearchForm struct {
	Model string `form:"model" json:"model" validate:"max=255"`
}

func (f *CarModelSearchForm) Validate() error {
	f.Model = strings.TrimSpace(f.Model)
	return validateStruct(f).Err()
}

type ManufacturerNameSearchForm struct {
	Name string `form:"name" json:"name" validate:"max=255"`
}

func (f *ManufacturerNameSearchForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	return validateStruct(f).Err()
}

type DriverUsernameSearchForm struct {
	Username string `form:"username" json:"username" validate:"max=255"`
}

func (f *DriverUsernameSearchForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	return validateStruct(f).Err()
}
