package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

type driverRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewDriverRepo(db *pgxpool.Pool, log logger.ILogger) storage.IDriverStorage {
	return &driverRepo{db: db, log: log}
}

func driverColumns(alias string) string {
	return fmt.Sprintf("%[1]s.id, %[1]s.username, %[1]s.license_number, %[1]s.password_hash, %[1]s.first_name, %[1]s.last_name, %[1]s.created_at", alias)
}

func scanDriver(row pgx.Row) (*models.Driver, error) {
	var d models.Driver
	err := row.Scan(&d.ID, &d.Username, &d.LicenseNumber, &d.PasswordHash, &d.FirstName, &d.LastName, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *driverRepo) Create(ctx context.Context, d *models.Driver) (*models.Driver, error) {
	query := `
		INSERT INTO drivers (username, license_number, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + driverColumns("drivers")
	created, err := scanDriver(r.db.QueryRow(ctx, query, d.Username, d.LicenseNumber, d.PasswordHash, d.FirstName, d.LastName))
	if err != nil {
		r.log.Error("failed to create driver", logger.Error(err), logger.String("username", d.Username))
		return nil, mapWriteError(err)
	}
	return created, nil
}

func (r *driverRepo) UpdateLicense(ctx context.Context, id int64, licenseNumber string) error {
	_, err := r.db.Exec(ctx, "UPDATE drivers SET license_number = $1 WHERE id = $2", licenseNumber, id)
	if err != nil {
		r.log.Error("failed to update license number", logger.Error(err), logger.Int64("id", id))
		return mapWriteError(err)
	}
	return nil
}

func (r *driverRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	return err
}

func (r *driverRepo) GetByID(ctx context.Context, id int64) (*models.Driver, error) {
	return r.getOne(ctx, "id", id)
}

func (r *driverRepo) GetByUsername(ctx context.Context, username string) (*models.Driver, error) {
	return r.getOne(ctx, "username", username)
}

func (r *driverRepo) GetByLicenseNumber(ctx context.Context, licenseNumber string) (*models.Driver, error) {
	return r.getOne(ctx, "license_number", licenseNumber)
}

// getOne looks a driver up by one of the fixed column names above.
func (r *driverRepo) getOne(ctx context.Context, column string, arg interface{}) (*models.Driver, error) {
	query := `SELECT ` + driverColumns("d") + ` FROM drivers d WHERE d.` + column + ` = $1`
	d, err := scanDriver(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get driver", logger.Error(err), logger.String("by", column))
		return nil, err
	}
	return d, nil
}

func (r *driverRepo) GetList(ctx context.Context, req models.ListRequest) (*models.List[*models.Driver], error) {
	pattern := likePattern(req.Search)
	list := &models.List[*models.Driver]{Items: []*models.Driver{}}

	err := r.db.QueryRow(ctx, `SELECT count(*) FROM drivers WHERE ($1 = '' OR username ILIKE $1)`, pattern).Scan(&list.Count)
	if err != nil {
		r.log.Error("failed to count drivers", logger.Error(err))
		return nil, err
	}

	query := `
		SELECT ` + driverColumns("d") + ` FROM drivers d
		WHERE ($1 = '' OR d.username ILIKE $1)
		ORDER BY d.username
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, pattern, limitArg(req.Limit), req.Offset())
	if err != nil {
		r.log.Error("failed to list drivers", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	list.Paginate(req)
	return list, nil
}

func (r *driverRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM drivers").Scan(&count)
	return count, err
}
