package memory

import (
	"context"

	"taxifleet/pkg/models"
	"taxifleet/storage"
)

type driverRepo struct {
	s *Store
}

// conflict reports the first unique column d collides on, or nil.
func (r *driverRepo) conflict(d models.Driver) error {
	for id, other := range r.s.drivers {
		if id == d.ID {
			continue
		}
		if other.Username == d.Username {
			return &storage.ConflictError{Column: "username"}
		}
		if other.LicenseNumber == d.LicenseNumber {
			return &storage.ConflictError{Column: "license_number"}
		}
	}
	return nil
}

func (r *driverRepo) Create(_ context.Context, d *models.Driver) (*models.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	created := *d
	created.ID = 0
	created.Cars = nil
	if err := r.conflict(created); err != nil {
		return nil, err
	}

	r.s.lastDriverID++
	created.ID = r.s.lastDriverID
	created.CreatedAt = r.s.now()
	r.s.drivers[created.ID] = created

	out := created
	return &out, nil
}

func (r *driverRepo) UpdateLicense(_ context.Context, id int64, licenseNumber string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.drivers[id]
	if !ok {
		return nil
	}
	d.LicenseNumber = licenseNumber
	if err := r.conflict(d); err != nil {
		return err
	}
	r.s.drivers[id] = d
	return nil
}

func (r *driverRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.drivers, id)
	for _, set := range r.s.carDrivers {
		delete(set, id)
	}
	return nil
}

func (r *driverRepo) GetByID(_ context.Context, id int64) (*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.drivers[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *driverRepo) find(match func(models.Driver) bool) *models.Driver {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.drivers {
		if match(d) {
			found := d
			return &found
		}
	}
	return nil
}

func (r *driverRepo) GetByUsername(_ context.Context, username string) (*models.Driver, error) {
	return r.find(func(d models.Driver) bool { return d.Username == username }), nil
}

func (r *driverRepo) GetByLicenseNumber(_ context.Context, licenseNumber string) (*models.Driver, error) {
	return r.find(func(d models.Driver) bool { return d.LicenseNumber == licenseNumber }), nil
}

func (r *driverRepo) GetList(_ context.Context, req models.ListRequest) (*models.List[*models.Driver], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var items []*models.Driver
	for _, d := range r.s.drivers {
		if req.Matches(d.Username) {
			found := d
			items = append(items, &found)
		}
	}
	sortDrivers(items)
	return page(items, req), nil
}

func (r *driverRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.drivers), nil
}
