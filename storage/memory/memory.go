// Package memory is a process-local storage backend with the same semantics
// as the Postgres one: unique names, cascading deletes and case-insensitive
// search. It backs local runs with STORAGE_DRIVER=memory and the tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"taxifleet/pkg/models"
	"taxifleet/storage"
)

type Store struct {
	mu sync.RWMutex

	manufacturers map[int64]models.Manufacturer
	cars          map[int64]models.Car
	drivers       map[int64]models.Driver
	carDrivers    map[int64]map[int64]bool

	lastManufacturerID int64
	lastCarID          int64
	lastDriverID       int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		manufacturers: make(map[int64]models.Manufacturer),
		cars:          make(map[int64]models.Car),
		drivers:       make(map[int64]models.Driver),
		carDrivers:    make(map[int64]map[int64]bool),
		now:           time.Now,
	}
}

func (s *Store) Close() {}

func (s *Store) Manufacturer() storage.IManufacturerStorage { return &manufacturerRepo{s: s} }
func (s *Store) Car() storage.ICarStorage                   { return &carRepo{s: s} }
func (s *Store) Driver() storage.IDriverStorage             { return &driverRepo{s: s} }

// page slices sorted items the way LIMIT/OFFSET would.
func page[T any](items []T, req models.ListRequest) *models.List[T] {
	list := &models.List[T]{Count: len(items)}

	offset := req.Offset()
	if offset > len(items) {
		offset = len(items)
	}
	end := len(items)
	if req.Limit > 0 && offset+req.Limit < end {
		end = offset + req.Limit
	}
	list.Items = append([]T{}, items[offset:end]...)
	list.Paginate(req)
	return list
}

func sortManufacturers(items []*models.Manufacturer) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}

func sortCars(items []*models.Car) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Model != items[j].Model {
			return items[i].Model < items[j].Model
		}
		return items[i].ID < items[j].ID
	})
}

func sortDrivers(items []*models.Driver) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Username < items[j].Username
	})
}
