package models

import "fmt"

type Manufacturer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

func (m Manufacturer) String() string {
	return fmt.Sprintf("%s %s", m.Name, m.Country)
}

func (m Manufacturer) AbsoluteURL() string {
	return fmt.Sprintf("/manufacturers/%d/", m.ID)
}
