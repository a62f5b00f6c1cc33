package storage

import (
	"context"
	"errors"

	"taxifleet/pkg/models"
)

// ErrConflict is returned when a write would break a unique constraint.
var ErrConflict = errors.New("storage: unique constraint violated")

// ConflictError names the column whose unique constraint was violated.
// It matches ErrConflict with errors.Is.
type ConflictError struct {
	Column string
}

func (e *ConflictError) Error() string {
	if e.Column == "" {
		return ErrConflict.Error()
	}
	return ErrConflict.Error() + ": " + e.Column
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

type IStorage interface {
	Manufacturer() IManufacturerStorage
	Car() ICarStorage
	Driver() IDriverStorage
	Close()
}

// Get* methods return nil, nil when the row does not exist.

type IManufacturerStorage interface {
	Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error)
	Update(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Manufacturer, error)
	GetByName(ctx context.Context, name string) (*models.Manufacturer, error)
	GetList(ctx context.Context, req models.ListRequest) (*models.List[*models.Manufacturer], error)
	Count(ctx context.Context) (int, error)
}

type ICarStorage interface {
	// Create and Update write the car and replace its driver set atomically.
	Create(ctx context.Context, car *models.Car, driverIDs []int64) (*models.Car, error)
	Update(ctx context.Context, car *models.Car, driverIDs []int64) (*models.Car, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Car, error)
	GetList(ctx context.Context, req models.ListRequest) (*models.List[*models.Car], error)
	Count(ctx context.Context) (int, error)

	ToggleDriver(ctx context.Context, carID, driverID int64) (bool, error)
	GetCarDrivers(ctx context.Context, carID int64) ([]*models.Driver, error)
	GetDriverCars(ctx context.Context, driverID int64) ([]*models.Car, error)
}

type IDriverStorage interface {
	Create(ctx context.Context, d *models.Driver) (*models.Driver, error)
	UpdateLicense(ctx context.Context, id int64, licenseNumber string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Driver, error)
	GetByUsername(ctx context.Context, username string) (*models.Driver, error)
	GetByLicenseNumber(ctx context.Context, licenseNumber string) (*models.Driver, error)
	GetList(ctx context.Context, req models.ListRequest) (*models.List[*models.Driver], error)
	Count(ctx context.Context) (int, error)
}
