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

type manufacturerRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewManufacturerRepo(db *pgxpool.Pool, log logger.ILogger) storage.IManufacturerStorage {
	return &manufacturerRepo{db: db, log: log}
}

func (r *manufacturerRepo) Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	var created models.Manufacturer
	query := `INSERT INTO manufacturers (name, country) VALUES ($1, $2) RETURNING id, name, country`
	err := r.db.QueryRow(ctx, query, m.Name, m.Country).Scan(&created.ID, &created.Name, &created.Country)
	if err != nil {
		r.log.Error("failed to create manufacturer", logger.Error(err))
		return nil, mapWriteError(err)
	}
	return &created, nil
}

func (r *manufacturerRepo) Update(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	var updated models.Manufacturer
	query := `UPDATE manufacturers SET name = $1, country = $2 WHERE id = $3 RETURNING id, name, country`
	err := r.db.QueryRow(ctx, query, m.Name, m.Country, m.ID).Scan(&updated.ID, &updated.Name, &updated.Country)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to update manufacturer", logger.Error(err), logger.Int64("id", m.ID))
		return nil, mapWriteError(err)
	}
	return &updated, nil
}

func (r *manufacturerRepo) Delete(ctx context.Context, id int64) error {
	// cars cascade, and car_drivers cascade from cars
	_, err := r.db.Exec(ctx, `DELETE FROM manufacturers WHERE id = $1`, id)
	return err
}

func (r *manufacturerRepo) GetByID(ctx context.Context, id int64) (*models.Manufacturer, error) {
	return r.getOne(ctx, `SELECT id, name, country FROM manufacturers WHERE id = $1`, id)
}

func (r *manufacturerRepo) GetByName(ctx context.Context, name string) (*models.Manufacturer, error) {
	return r.getOne(ctx, `SELECT id, name, country FROM manufacturers WHERE name = $1`, name)
}

func (r *manufacturerRepo) getOne(ctx context.Context, query string, arg interface{}) (*models.Manufacturer, error) {
	var m models.Manufacturer
	err := r.db.QueryRow(ctx, query, arg).Scan(&m.ID, &m.Name, &m.Country)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get manufacturer", logger.Error(err))
		return nil, err
	}
	return &m, nil
}

func (r *manufacturerRepo) GetList(ctx context.Context, req models.ListRequest) (*models.List[*models.Manufacturer], error) {
	pattern := likePattern(req.Search)
	list := &models.List[*models.Manufacturer]{Items: []*models.Manufacturer{}}

	err := r.db.QueryRow(ctx, `SELECT count(*) FROM manufacturers WHERE ($1 = '' OR name ILIKE $1)`, pattern).Scan(&list.Count)
	if err != nil {
		r.log.Error("failed to count manufacturers", logger.Error(err))
		return nil, err
	}

	query := `
		SELECT id, name, country FROM manufacturers
		WHERE ($1 = '' OR name ILIKE $1)
		ORDER BY name, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, pattern, limitArg(req.Limit), req.Offset())
	if err != nil {
		r.log.Error("failed to list manufacturers", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Manufacturer
		if err := rows.Scan(&m.ID, &m.Name, &m.Country); err != nil {
			return nil, err
		}
		list.Items = append(list.Items, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	list.Paginate(req)
	return list, nil
}

func (r *manufacturerRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM manufacturers").Scan(&count)
	return count, err
}
