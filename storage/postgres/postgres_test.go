package postgres

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

// newTestStore connects to TEST_POSTGRES_URL, migrates and truncates.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TEST_POSTGRES_URL is not set")
	}

	ctx := context.Background()
	store, err := NewFromURL(ctx, url, "../../migrations", logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.Truncate(ctx))
	return store
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "", likePattern("  "))
	assert.Equal(t, "%m5%", likePattern(" m5 "))
	assert.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}

func TestLimitArg(t *testing.T) {
	assert.Nil(t, limitArg(0))
	assert.Equal(t, 5, limitArg(5))
}

func TestMapWriteError(t *testing.T) {
	cases := []struct {
		name   string
		pgErr  *pgconn.PgError
		column string
	}{
		{"username", &pgconn.PgError{Code: "23505", TableName: "drivers", ConstraintName: "drivers_username_key"}, "username"},
		{"license", &pgconn.PgError{Code: "23505", TableName: "drivers", ConstraintName: "drivers_license_number_key"}, "license_number"},
		{"manufacturer", &pgconn.PgError{Code: "23505", TableName: "manufacturers", ConstraintName: "manufacturers_name_key"}, "name"},
		{"primary key", &pgconn.PgError{Code: "23505", TableName: "car_drivers", ConstraintName: "car_drivers_pkey"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := mapWriteError(fmt.Errorf("insert: %w", tc.pgErr))
			require.ErrorIs(t, err, storage.ErrConflict)

			var conflict *storage.ConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, tc.column, conflict.Column)
		})
	}

	fk := &pgconn.PgError{Code: "23503"}
	assert.Same(t, fk, mapWriteError(fk))
}

func TestManufacturerRepo(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Manufacturer()

	bmw, err := repo.Create(ctx, &models.Manufacturer{Name: "BMW", Country: "Germany"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Manufacturer{Name: "Test manufacture", Country: "USA"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.Manufacturer{Name: "BMW", Country: "Austria"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	got, err := repo.GetByName(ctx, "BMW")
	require.NoError(t, err)
	assert.Equal(t, bmw.ID, got.ID)

	list, err := repo.GetList(ctx, models.ListRequest{Search: "test"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "Test manufacture USA", list.Items[0].String())

	all, err := repo.GetList(ctx, models.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Count)

	missing, err := repo.GetByID(ctx, bmw.ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCarAndDriverRepo(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m, err := store.Manufacturer().Create(ctx, &models.Manufacturer{Name: "BMW", Country: "Germany"})
	require.NoError(t, err)

	d, err := store.Driver().Create(ctx, &models.Driver{
		Username:      "new_driver",
		LicenseNumber: "HRN84739",
		PasswordHash:  "hash",
		FirstName:     "Name",
		LastName:      "Surname",
	})
	require.NoError(t, err)
	assert.Equal(t, "/drivers/1/", d.AbsoluteURL())

	car, err := store.Car().Create(ctx, &models.Car{Model: "M5", ManufacturerID: m.ID}, []int64{d.ID})
	require.NoError(t, err)
	assert.Equal(t, "BMW", car.Manufacturer.Name)

	drivers, err := store.Car().GetCarDrivers(ctx, car.ID)
	require.NoError(t, err)
	require.Len(t, drivers, 1)

	assigned, err := store.Car().ToggleDriver(ctx, car.ID, d.ID)
	require.NoError(t, err)
	assert.False(t, assigned)

	cars, err := store.Car().GetDriverCars(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, cars)

	require.NoError(t, store.Driver().UpdateLicense(ctx, d.ID, "ABC12345"))
	byLicense, err := store.Driver().GetByLicenseNumber(ctx, "ABC12345")
	require.NoError(t, err)
	assert.Equal(t, d.ID, byLicense.ID)

	require.NoError(t, store.Manufacturer().Delete(ctx, m.ID))
	count, err := store.Car().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDriverRepoConflictColumn(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Driver().Create(ctx, &models.Driver{Username: "first", LicenseNumber: "ABC12345", PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = store.Driver().Create(ctx, &models.Driver{Username: "second", LicenseNumber: "ABC12345", PasswordHash: "hash"})
	var conflict *storage.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "license_number", conflict.Column)
}

func TestCarCreateWithUnknownDriverRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m, err := store.Manufacturer().Create(ctx, &models.Manufacturer{Name: "BMW", Country: "Germany"})
	require.NoError(t, err)

	_, err = store.Car().Create(ctx, &models.Car{Model: "M5", ManufacturerID: m.ID}, []int64{999})
	require.Error(t, err)

	count, err := store.Car().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	car, err := store.Car().Create(ctx, &models.Car{Model: "M5", ManufacturerID: m.ID}, nil)
	require.NoError(t, err)

	_, err = store.Car().Update(ctx, &models.Car{ID: car.ID, Model: "X5", ManufacturerID: m.ID}, []int64{999})
	require.Error(t, err)

	got, err := store.Car().GetByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, "M5", got.Model)
}

func TestToggleDriverConcurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m, err := store.Manufacturer().Create(ctx, &models.Manufacturer{Name: "BMW", Country: "Germany"})
	require.NoError(t, err)
	d, err := store.Driver().Create(ctx, &models.Driver{Username: "new_driver", LicenseNumber: "HRN84739", PasswordHash: "hash"})
	require.NoError(t, err)
	car, err := store.Car().Create(ctx, &models.Car{Model: "M5", ManufacturerID: m.ID}, nil)
	require.NoError(t, err)

	const toggles = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		assigned int
	)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Car().ToggleDriver(ctx, car.ID, d.ID)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				assigned++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, toggles/2, assigned)
	drivers, err := store.Car().GetCarDrivers(ctx, car.ID)
	require.NoError(t, err)
	assert.Empty(t, drivers)
}
