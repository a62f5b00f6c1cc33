package memory

import (
	"context"

	"taxifleet/pkg/models"
	"taxifleet/storage"
)

type manufacturerRepo struct {
	s *Store
}

func (r *manufacturerRepo) nameTaken(name string, exceptID int64) bool {
	for id, m := range r.s.manufacturers {
		if id != exceptID && m.Name == name {
			return true
		}
	}
	return false
}

func (r *manufacturerRepo) Create(_ context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(m.Name, 0) {
		return nil, &storage.ConflictError{Column: "name"}
	}

	r.s.lastManufacturerID++
	created := models.Manufacturer{ID: r.s.lastManufacturerID, Name: m.Name, Country: m.Country}
	r.s.manufacturers[created.ID] = created
	return &created, nil
}

func (r *manufacturerRepo) Update(_ context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.manufacturers[m.ID]; !ok {
		return nil, nil
	}
	if r.nameTaken(m.Name, m.ID) {
		return nil, &storage.ConflictError{Column: "name"}
	}

	updated := models.Manufacturer{ID: m.ID, Name: m.Name, Country: m.Country}
	r.s.manufacturers[m.ID] = updated
	return &updated, nil
}

func (r *manufacturerRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.manufacturers, id)
	for carID, car := range r.s.cars {
		if car.ManufacturerID == id {
			delete(r.s.cars, carID)
			delete(r.s.carDrivers, carID)
		}
	}
	return nil
}

func (r *manufacturerRepo) GetByID(_ context.Context, id int64) (*models.Manufacturer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.manufacturers[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *manufacturerRepo) GetByName(_ context.Context, name string) (*models.Manufacturer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.manufacturers {
		if m.Name == name {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (r *manufacturerRepo) GetList(_ context.Context, req models.ListRequest) (*models.List[*models.Manufacturer], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var items []*models.Manufacturer
	for _, m := range r.s.manufacturers {
		if req.Matches(m.Name) {
			found := m
			items = append(items, &found)
		}
	}
	sortManufacturers(items)
	return page(items, req), nil
}

func (r *manufacturerRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.manufacturers), nil
}
