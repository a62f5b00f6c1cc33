package models

import "fmt"

type Car struct {
	ID             int64         `json:"id"`
	Model          string        `json:"model"`
	ManufacturerID int64         `json:"manufacturer_id"`
	Manufacturer   *Manufacturer `json:"manufacturer,omitempty"`
	Drivers        []*Driver     `json:"drivers,omitempty"`
}

func (c Car) String() string {
	return c.Model
}

func (c Car) AbsoluteURL() string {
	return fmt.Sprintf("/cars/%d/", c.ID)
}
