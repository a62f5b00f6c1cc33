package memory

import (
	"context"
	"fmt"

	"taxifleet/pkg/models"
)

type carRepo struct {
	s *Store
}

// withManufacturer copies car and attaches its manufacturer. Callers hold
// the lock.
func (r *carRepo) withManufacturer(car models.Car) *models.Car {
	out := car
	if m, ok := r.s.manufacturers[car.ManufacturerID]; ok {
		out.Manufacturer = &m
	}
	out.Drivers = nil
	return &out
}

// driverSet checks every id before anything is written. Callers hold the
// lock.
func (r *carRepo) driverSet(driverIDs []int64) (map[int64]bool, error) {
	set := make(map[int64]bool, len(driverIDs))
	for _, id := range driverIDs {
		if _, ok := r.s.drivers[id]; !ok {
			return nil, fmt.Errorf("driver %d does not exist", id)
		}
		set[id] = true
	}
	return set, nil
}

func (r *carRepo) Create(_ context.Context, car *models.Car, driverIDs []int64) (*models.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.manufacturers[car.ManufacturerID]; !ok {
		return nil, fmt.Errorf("manufacturer %d does not exist", car.ManufacturerID)
	}
	set, err := r.driverSet(driverIDs)
	if err != nil {
		return nil, err
	}

	r.s.lastCarID++
	created := models.Car{ID: r.s.lastCarID, Model: car.Model, ManufacturerID: car.ManufacturerID}
	r.s.cars[created.ID] = created
	r.s.carDrivers[created.ID] = set
	return r.withManufacturer(created), nil
}

func (r *carRepo) Update(_ context.Context, car *models.Car, driverIDs []int64) (*models.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cars[car.ID]; !ok {
		return nil, nil
	}
	if _, ok := r.s.manufacturers[car.ManufacturerID]; !ok {
		return nil, fmt.Errorf("manufacturer %d does not exist", car.ManufacturerID)
	}
	set, err := r.driverSet(driverIDs)
	if err != nil {
		return nil, err
	}

	updated := models.Car{ID: car.ID, Model: car.Model, ManufacturerID: car.ManufacturerID}
	r.s.cars[car.ID] = updated
	r.s.carDrivers[car.ID] = set
	return r.withManufacturer(updated), nil
}

func (r *carRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.cars, id)
	delete(r.s.carDrivers, id)
	return nil
}

func (r *carRepo) GetByID(_ context.Context, id int64) (*models.Car, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	car, ok := r.s.cars[id]
	if !ok {
		return nil, nil
	}
	return r.withManufacturer(car), nil
}

func (r *carRepo) GetList(_ context.Context, req models.ListRequest) (*models.List[*models.Car], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var items []*models.Car
	for _, car := range r.s.cars {
		if req.Matches(car.Model) {
			items = append(items, r.withManufacturer(car))
		}
	}
	sortCars(items)
	return page(items, req), nil
}

func (r *carRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.cars), nil
}

func (r *carRepo) ToggleDriver(_ context.Context, carID, driverID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cars[carID]; !ok {
		return false, fmt.Errorf("car %d does not exist", carID)
	}
	if _, ok := r.s.drivers[driverID]; !ok {
		return false, fmt.Errorf("driver %d does not exist", driverID)
	}

	set := r.s.carDrivers[carID]
	if set[driverID] {
		delete(set, driverID)
		return false, nil
	}
	if set == nil {
		set = make(map[int64]bool)
		r.s.carDrivers[carID] = set
	}
	set[driverID] = true
	return true, nil
}

func (r *carRepo) GetCarDrivers(_ context.Context, carID int64) ([]*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var drivers []*models.Driver
	for id := range r.s.carDrivers[carID] {
		if d, ok := r.s.drivers[id]; ok {
			drivers = append(drivers, &d)
		}
	}
	sortDrivers(drivers)
	return drivers, nil
}

func (r *carRepo) GetDriverCars(_ context.Context, driverID int64) ([]*models.Car, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var cars []*models.Car
	for carID, set := range r.s.carDrivers {
		if !set[driverID] {
			continue
		}
		if car, ok := r.s.cars[carID]; ok {
			cars = append(cars, r.withManufacturer(car))
		}
	}
	sortCars(cars)
	return cars, nil
}
