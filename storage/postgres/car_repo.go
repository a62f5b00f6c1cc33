package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

const carSelect = `
	SELECT c.id, c.model, c.manufacturer_id, m.id, m.name, m.country
	FROM cars c
	JOIN manufacturers m ON m.id = c.manufacturer_id
`

type carRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewCarRepo(db *pgxpool.Pool, log logger.ILogger) storage.ICarStorage {
	return &carRepo{db: db, log: log}
}

func scanCar(row pgx.Row) (*models.Car, error) {
	var c models.Car
	var m models.Manufacturer
	if err := row.Scan(&c.ID, &c.Model, &c.ManufacturerID, &m.ID, &m.Name, &m.Country); err != nil {
		return nil, err
	}
	c.Manufacturer = &m
	return &c, nil
}

// Create inserts the car and its driver set in one transaction.
func (r *carRepo) Create(ctx context.Context, car *models.Car, driverIDs []int64) (*models.Car, error) {
	var id int64
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		query := `INSERT INTO cars (model, manufacturer_id) VALUES ($1, $2) RETURNING id`
		if err := tx.QueryRow(ctx, query, car.Model, car.ManufacturerID).Scan(&id); err != nil {
			return err
		}
		return setDrivers(ctx, tx, id, driverIDs)
	})
	if err != nil {
		r.log.Error("failed to create car", logger.Error(err))
		return nil, mapWriteError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *carRepo) Update(ctx context.Context, car *models.Car, driverIDs []int64) (*models.Car, error) {
	var found bool
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE cars SET model = $1, manufacturer_id = $2 WHERE id = $3`, car.Model, car.ManufacturerID, car.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		found = true
		return setDrivers(ctx, tx, car.ID, driverIDs)
	})
	if err != nil {
		r.log.Error("failed to update car", logger.Error(err), logger.Int64("id", car.ID))
		return nil, mapWriteError(err)
	}
	if !found {
		return nil, nil
	}
	return r.GetByID(ctx, car.ID)
}

// setDrivers replaces the car's driver set inside tx.
func setDrivers(ctx context.Context, tx pgx.Tx, carID int64, driverIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM car_drivers WHERE car_id = $1`, carID); err != nil {
		return err
	}
	if len(driverIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `INSERT INTO car_drivers (car_id, driver_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`, carID, driverIDs)
	return err
}

func (r *carRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	return err
}

func (r *carRepo) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	car, err := scanCar(r.db.QueryRow(ctx, carSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get car", logger.Error(err), logger.Int64("id", id))
		return nil, err
	}
	return car, nil
}

func (r *carRepo) GetList(ctx context.Context, req models.ListRequest) (*models.List[*models.Car], error) {
	pattern := likePattern(req.Search)
	list := &models.List[*models.Car]{Items: []*models.Car{}}

	err := r.db.QueryRow(ctx, `SELECT count(*) FROM cars WHERE ($1 = '' OR model ILIKE $1)`, pattern).Scan(&list.Count)
	if err != nil {
		r.log.Error("failed to count cars", logger.Error(err))
		return nil, err
	}

	query := carSelect + `
		WHERE ($1 = '' OR c.model ILIKE $1)
		ORDER BY c.model, c.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, pattern, limitArg(req.Limit), req.Offset())
	if err != nil {
		r.log.Error("failed to list cars", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, car)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	list.Paginate(req)
	return list, nil
}

func (r *carRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM cars").Scan(&count)
	return count, err
}

// ToggleDriver locks the car row so concurrent toggles of the same car
// apply one after another.
func (r *carRepo) ToggleDriver(ctx context.Context, carID, driverID int64) (bool, error) {
	var assigned bool
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var locked int64
		if err := tx.QueryRow(ctx, `SELECT id FROM cars WHERE id = $1 FOR UPDATE`, carID).Scan(&locked); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, "DELETE FROM car_drivers WHERE car_id = $1 AND driver_id = $2", carID, driverID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			assigned = false
			return nil
		}

		if _, err := tx.Exec(ctx, "INSERT INTO car_drivers (car_id, driver_id) VALUES ($1, $2)", carID, driverID); err != nil {
			return err
		}
		assigned = true
		return nil
	})
	if err != nil {
		r.log.Error("failed to toggle car driver", logger.Error(err), logger.Int64("car_id", carID), logger.Int64("driver_id", driverID))
		return false, err
	}
	return assigned, nil
}

func (r *carRepo) GetCarDrivers(ctx context.Context, carID int64) ([]*models.Driver, error) {
	query := `
		SELECT ` + driverColumns("d") + `
		FROM drivers d
		JOIN car_drivers cd ON cd.driver_id = d.id
		WHERE cd.car_id = $1
		ORDER BY d.username
	`
	rows, err := r.db.Query(ctx, query, carID)
	if err != nil {
		r.log.Error("failed to get car drivers", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	var drivers []*models.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (r *carRepo) GetDriverCars(ctx context.Context, driverID int64) ([]*models.Car, error) {
	query := carSelect + `
		JOIN car_drivers cd ON cd.car_id = c.id
		WHERE cd.driver_id = $1
		ORDER BY c.model, c.id
	`
	rows, err := r.db.Query(ctx, query, driverID)
	if err != nil {
		r.log.Error("failed to get driver cars", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	var cars []*models.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}
