package service

import (
	"errors"

	"taxifleet/pkg/logger"
	"taxifleet/storage"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type IServiceManager interface {
	Manufacturer() ManufacturerService
	Car() CarService
	Driver() DriverService
	Stats() StatsService
}

type service struct {
	manufacturerService ManufacturerService
	carService          CarService
	driverService       DriverService
	statsService        StatsService
}

// New wires every service over stg. pageSize bounds list results.
func New(stg storage.IStorage, log logger.ILogger, pageSize int, opts ...Option) IServiceManager {
	o := options{bcryptCost: defaultBcryptCost}
	for _, opt := range opts {
		opt(&o)
	}

	return &service{
		manufacturerService: NewManufacturerService(stg, log, pageSize),
		carService:          NewCarService(stg, log, pageSize),
		driverService:       NewDriverService(stg, log, pageSize, o.bcryptCost),
		statsService:        NewStatsService(stg, log),
	}
}

func (s *service) Manufacturer() ManufacturerService {
	return s.manufacturerService
}

func (s *service) Car() CarService {
	return s.carService
}

func (s *service) Driver() DriverService {
	return s.driverService
}

func (s *service) Stats() StatsService {
	return s.statsService
}

type options struct {
	bcryptCost int
}

type Option func(*options)

// WithBcryptCost overrides the password hashing cost, mostly for tests.
func WithBcryptCost(cost int) Option {
	return func(o *options) {
		o.bcryptCost = cost
	}
}
