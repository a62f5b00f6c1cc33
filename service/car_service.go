package service

import (
	"context"
	"fmt"

	"taxifleet/pkg/forms"
	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

type CarService interface {
	Create(ctx context.Context, form forms.CarForm) (*models.Car, error)
	Update(ctx context.Context, id int64, form forms.CarForm) (*models.Car, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Car, error)
	List(ctx context.Context, search forms.CarModelSearchForm, page int) (*models.List[*models.Car], error)
}

type carService struct {
	cars          storage.ICarStorage
	manufacturers storage.IManufacturerStorage
	drivers       storage.IDriverStorage
	log           logger.ILogger
	pageSize      int
}

func NewCarService(stg storage.IStorage, log logger.ILogger, pageSize int) CarService {
	return &carService{
		cars:          stg.Car(),
		manufacturers: stg.Manufacturer(),
		drivers:       stg.Driver(),
		log:           log,
		pageSize:      pageSize,
	}
}

// checkReferences makes sure the manufacturer and every driver exist.
func (s *carService) checkReferences(ctx context.Context, form forms.CarForm) error {
	errs := forms.Errors{}

	m, err := s.manufacturers.GetByID(ctx, form.ManufacturerID)
	if err != nil {
		return err
	}
	if m == nil {
		errs.Add("manufacturer_id", "Select a valid choice. That choice is not one of the available choices.")
	}

	for _, id := range form.DriverIDs {
		d, err := s.drivers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			errs.Add("driver_ids", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", id))
		}
	}

	return errs.Err()
}

func (s *carService) Create(ctx context.Context, form forms.CarForm) (*models.Car, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, form); err != nil {
		return nil, err
	}

	car, err := s.cars.Create(ctx, &models.Car{Model: form.Model, ManufacturerID: form.ManufacturerID}, form.DriverIDs)
	if err != nil {
		return nil, err
	}

	s.log.Info("car created", logger.Int64("id", car.ID), logger.String("model", car.Model))
	return s.Get(ctx, car.ID)
}

func (s *carService) Update(ctx context.Context, id int64, form forms.CarForm) (*models.Car, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, form); err != nil {
		return nil, err
	}

	car, err := s.cars.Update(ctx, &models.Car{ID: id, Model: form.Model, ManufacturerID: form.ManufacturerID}, form.DriverIDs)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *carService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.cars.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("car deleted", logger.Int64("id", id))
	return nil
}

// Get returns the car with its manufacturer and drivers.
func (s *carService) Get(ctx context.Context, id int64) (*models.Car, error) {
	car, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, ErrNotFound
	}

	car.Drivers, err = s.cars.GetCarDrivers(ctx, id)
	if err != nil {
		return nil, err
	}
	return car, nil
}

func (s *carService) List(ctx context.Context, search forms.CarModelSearchForm, page int) (*models.List[*models.Car], error) {
	if err := search.Validate(); err != nil {
		return nil, err
	}
	return s.cars.GetList(ctx, models.ListRequest{Search: search.Model, Page: page, Limit: s.pageSize})
}
