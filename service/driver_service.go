package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"taxifleet/pkg/forms"
	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

const (
	defaultBcryptCost = bcrypt.DefaultCost

	msgUsernameExists = "A user with that username already exists."
	msgLicenseExists  = "Driver with this License number already exists."
)

type DriverService interface {
	Create(ctx context.Context, form forms.DriverCreationForm) (*models.Driver, error)
	UpdateLicense(ctx context.Context, id int64, form forms.DriverLicenseUpdateForm) (*models.Driver, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Driver, error)
	List(ctx context.Context, search forms.DriverUsernameSearchForm, page int) (*models.List[*models.Driver], error)
	Authenticate(ctx context.Context, username, password string) (*models.Driver, error)
	ToggleCarAssignment(ctx context.Context, driverID, carID int64) (bool, error)
}

type driverService struct {
	drivers    storage.IDriverStorage
	cars       storage.ICarStorage
	log        logger.ILogger
	pageSize   int
	bcryptCost int
}

func NewDriverService(stg storage.IStorage, log logger.ILogger, pageSize, bcryptCost int) DriverService {
	return &driverService{
		drivers:    stg.Driver(),
		cars:       stg.Car(),
		log:        log,
		pageSize:   pageSize,
		bcryptCost: bcryptCost,
	}
}

func (s *driverService) checkLicense(ctx context.Context, license string, exceptID int64) error {
	existing, err := s.drivers.GetByLicenseNumber(ctx, license)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return forms.FieldError("license_number", msgLicenseExists)
	}
	return nil
}

// conflictFieldError reports a storage unique violation on the form field of
// the violated column.
func conflictFieldError(err error) error {
	var conflict *storage.ConflictError
	if errors.As(err, &conflict) && conflict.Column == "license_number" {
		return forms.FieldError("license_number", msgLicenseExists)
	}
	return forms.FieldError("username", msgUsernameExists)
}

func (s *driverService) Create(ctx context.Context, form forms.DriverCreationForm) (*models.Driver, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.drivers.GetByUsername(ctx, form.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, forms.FieldError("username", msgUsernameExists)
	}
	if err := s.checkLicense(ctx, form.LicenseNumber, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password1), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, forms.FieldError("password2", forms.MsgPasswordTooLong)
	}
	if err != nil {
		s.log.Error("failed to hash password", logger.Error(err))
		return nil, err
	}

	d, err := s.drivers.Create(ctx, &models.Driver{
		Username:      form.Username,
		LicenseNumber: form.LicenseNumber,
		FirstName:     form.FirstName,
		LastName:      form.LastName,
		PasswordHash:  string(hash),
	})
	if errors.Is(err, storage.ErrConflict) {
		return nil, conflictFieldError(err)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("driver created", logger.Int64("id", d.ID), logger.String("username", d.Username))
	return d, nil
}

func (s *driverService) UpdateLicense(ctx context.Context, id int64, form forms.DriverLicenseUpdateForm) (*models.Driver, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.checkLicense(ctx, form.LicenseNumber, id); err != nil {
		return nil, err
	}

	err := s.drivers.UpdateLicense(ctx, id, form.LicenseNumber)
	if errors.Is(err, storage.ErrConflict) {
		return nil, forms.FieldError("license_number", msgLicenseExists)
	}
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *driverService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.drivers.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("driver deleted", logger.Int64("id", id))
	return nil
}

// Get returns the driver with the cars they are assigned to.
func (s *driverService) Get(ctx context.Context, id int64) (*models.Driver, error) {
	d, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}

	d.Cars, err = s.cars.GetDriverCars(ctx, id)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *driverService) List(ctx context.Context, search forms.DriverUsernameSearchForm, page int) (*models.List[*models.Driver], error) {
	if err := search.Validate(); err != nil {
		return nil, err
	}
	return s.drivers.GetList(ctx, models.ListRequest{Search: search.Username, Page: page, Limit: s.pageSize})
}

func (s *driverService) Authenticate(ctx context.Context, username, password string) (*models.Driver, error) {
	d, err := s.drivers.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return d, nil
}

// ToggleCarAssignment adds the driver to the car, or removes them when
// already assigned. It reports whether the driver is assigned afterwards.
func (s *driverService) ToggleCarAssignment(ctx context.Context, driverID, carID int64) (bool, error) {
	d, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return false, err
	}
	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return false, err
	}
	if d == nil || car == nil {
		return false, ErrNotFound
	}

	assigned, err := s.cars.ToggleDriver(ctx, carID, driverID)
	if err != nil {
		return false, err
	}
	s.log.Info("car assignment toggled",
		logger.Int64("driver_id", driverID),
		logger.Int64("car_id", carID),
		logger.Bool("assigned", assigned),
	)
	return assigned, nil
}
