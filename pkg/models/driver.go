package models

import (
	"fmt"
	"time"
)

type Driver struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	LicenseNumber string    `json:"license_number"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	Cars          []*Car    `json:"cars,omitempty"`
}

// String renders "username (first last)".
func (d Driver) String() string {
	return fmt.Sprintf("%s (%s %s)", d.Username, d.FirstName, d.LastName)
}

func (d Driver) AbsoluteURL() string {
	return fmt.Sprintf("/drivers/%d/", d.ID)
}
