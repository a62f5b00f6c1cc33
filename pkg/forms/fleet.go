package forms

import "strings"

type ManufacturerForm struct {
	Name    string `form:"name" json:"name" validate:"required,max=255"`
	Country string `form:"country" json:"country" validate:"required,max=255"`
}

func (f *ManufacturerForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Country = strings.TrimSpace(f.Country)
	return validateStruct(f).Err()
}

type CarForm struct {
	Model          string  `form:"model" json:"model" validate:"required,max=255"`
	ManufacturerID int64   `form:"manufacturer_id" json:"manufacturer_id" validate:"required,gt=0"`
	DriverIDs      []int64 `form:"driver_ids" json:"driver_ids" validate:"omitempty,dive,gt=0"`
}

// Validate trims the model and drops duplicate driver ids.
func (f *CarForm) Validate() error {
	f.Model = strings.TrimSpace(f.Model)

	seen := make(map[int64]bool, len(f.DriverIDs))
	ids := f.DriverIDs[:0]
	for _, id := range f.DriverIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	f.DriverIDs = ids

	return validateStruct(f).Err()
}
