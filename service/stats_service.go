package service

import (
	"context"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

type StatsService interface {
	Index(ctx context.Context) (*models.Stats, error)
}

type statsService struct {
	stg storage.IStorage
	log logger.ILogger
}

func NewStatsService(stg storage.IStorage, log logger.ILogger) StatsService {
	return &statsService{stg: stg, log: log}
}

func (s *statsService) Index(ctx context.Context) (*models.Stats, error) {
	var (
		stats models.Stats
		err   error
	)

	if stats.Drivers, err = s.stg.Driver().Count(ctx); err != nil {
		s.log.Error("failed to count drivers", logger.Error(err))
		return nil, err
	}
	if stats.Cars, err = s.stg.Car().Count(ctx); err != nil {
		s.log.Error("failed to count cars", logger.Error(err))
		return nil, err
	}
	if stats.Manufacturers, err = s.stg.Manufacturer().Count(ctx); err != nil {
		s.log.Error("failed to count manufacturers", logger.Error(err))
		return nil, err
	}
	return &stats, nil
}
