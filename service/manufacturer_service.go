package service

import (
	"context"
	"errors"

	"taxifleet/pkg/forms"
	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

const msgManufacturerExists = "Manufacturer with this Name already exists."

type ManufacturerService interface {
	Create(ctx context.Context, form forms.ManufacturerForm) (*models.Manufacturer, error)
	Update(ctx context.Context, id int64, form forms.ManufacturerForm) (*models.Manufacturer, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Manufacturer, error)
	List(ctx context.Context, search forms.ManufacturerNameSearchForm, page int) (*models.List[*models.Manufacturer], error)
}

type manufacturerService struct {
	stg      storage.IManufacturerStorage
	log      logger.ILogger
	pageSize int
}

func NewManufacturerService(stg storage.IStorage, log logger.ILogger, pageSize int) ManufacturerService {
	return &manufacturerService{
		stg:      stg.Manufacturer(),
		log:      log,
		pageSize: pageSize,
	}
}

func (s *manufacturerService) checkName(ctx context.Context, name string, exceptID int64) error {
	existing, err := s.stg.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return forms.FieldError("name", msgManufacturerExists)
	}
	return nil
}

func (s *manufacturerService) Create(ctx context.Context, form forms.ManufacturerForm) (*models.Manufacturer, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, form.Name, 0); err != nil {
		return nil, err
	}

	m, err := s.stg.Create(ctx, &models.Manufacturer{Name: form.Name, Country: form.Country})
	if errors.Is(err, storage.ErrConflict) {
		return nil, forms.FieldError("name", msgManufacturerExists)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("manufacturer created", logger.Int64("id", m.ID), logger.String("name", m.Name))
	return m, nil
}

func (s *manufacturerService) Update(ctx context.Context, id int64, form forms.ManufacturerForm) (*models.Manufacturer, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, form.Name, id); err != nil {
		return nil, err
	}

	m, err := s.stg.Update(ctx, &models.Manufacturer{ID: id, Name: form.Name, Country: form.Country})
	if errors.Is(err, storage.ErrConflict) {
		return nil, forms.FieldError("name", msgManufacturerExists)
	}
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *manufacturerService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.stg.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("manufacturer deleted", logger.Int64("id", id))
	return nil
}

func (s *manufacturerService) Get(ctx context.Context, id int64) (*models.Manufacturer, error) {
	m, err := s.stg.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *manufacturerService) List(ctx context.Context, search forms.ManufacturerNameSearchForm, page int) (*models.List[*models.Manufacturer], error) {
	if err := search.Validate(); err != nil {
		return nil, err
	}
	return s.stg.GetList(ctx, models.ListRequest{Search: search.Name, Page: page, Limit: s.pageSize})
}
