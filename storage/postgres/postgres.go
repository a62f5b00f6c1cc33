package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxifleet/config"
	"taxifleet/pkg/logger"
	"taxifleet/storage"
)

type Store struct {
	pool *pgxpool.Pool
	log  logger.ILogger
}

func URL(cfg config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser,
		cfg.PostgresPassword,
		cfg.PostgresHost,
		cfg.PostgresPort,
		cfg.PostgresDB,
	)
}

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (*Store, error) {
	return NewFromURL(ctx, URL(cfg), cfg.MigrationsPath, log)
}

// NewFromURL connects to url and applies migrations found under
// migrationsPath. An empty migrationsPath skips migrations.
func NewFromURL(ctx context.Context, url, migrationsPath string, log logger.ILogger) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Error("error while parsing Postgres config", logger.Error(err))
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("failed to connect Postgres", logger.Error(err))
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error("failed to ping Postgres", logger.Error(err))
		return nil, err
	}

	if migrationsPath != "" {
		if err := Migrate(url, migrationsPath, log); err != nil {
			pool.Close()
			return nil, err
		}
	}

	log.Info("Postgres connected")

	return &Store{
		pool: pool,
		log:  log,
	}, nil
}

// Migrate applies every pending up migration.
func Migrate(url, migrationsPath string, log logger.ILogger) error {
	m, err := migrate.New("file://"+migrationsPath, url)
	if err != nil {
		log.Error("migration init error", logger.Error(err), logger.String("path", migrationsPath))
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
			return nil
		}
		log.Error("migration up error", logger.Error(err))
		return fmt.Errorf("apply migrations: %w", err)
	}

	log.Info("migrations applied")
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Truncate removes every fleet row and resets identities.
func (s *Store) Truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "TRUNCATE TABLE car_drivers, cars, drivers, manufacturers RESTART IDENTITY CASCADE")
	return err
}

func (s *Store) Manufacturer() storage.IManufacturerStorage {
	return NewManufacturerRepo(s.pool, s.log)
}
func (s *Store) Car() storage.ICarStorage       { return NewCarRepo(s.pool, s.log) }
func (s *Store) Driver() storage.IDriverStorage { return NewDriverRepo(s.pool, s.log) }

// likePattern turns a search term into an ILIKE pattern; blank stays blank.
func likePattern(search string) string {
	search = strings.TrimSpace(search)
	if search == "" {
		return ""
	}
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(search) + "%"
}

// limitArg maps a non-positive limit to NULL, i.e. no limit.
func limitArg(limit int) interface{} {
	if limit <= 0 {
		return nil
	}
	return limit
}

const uniqueViolation = "23505"

// mapWriteError turns unique violations into *storage.ConflictError.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &storage.ConflictError{Column: conflictColumn(pgErr)}
	}
	return err
}

// conflictColumn recovers the column from Postgres' default unique
// constraint name, <table>_<column>_key.
func conflictColumn(pgErr *pgconn.PgError) string {
	name := pgErr.ConstraintName
	prefix := pgErr.TableName + "_"
	if pgErr.TableName == "" || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, "_key") {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(name, prefix), "_key")
}
