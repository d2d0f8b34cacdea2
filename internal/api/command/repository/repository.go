package commandRepository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"CommandCore/internal/entity"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
	Migrate(ctx context.Context) error
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		CommandLogs: &commandLogRepository{q: sqlExecutor, log: r.log},
		Commit:      commitFunc,
		Rollback:    rollbackFunc,
	}, nil
}

// Migrate creates the command log table and its index when they do not exist.
func (r *repository) Migrate(ctx context.Context) error {
	for _, stmt := range []string{querySchema, querySchemaIndex} {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate command log: %w", err)
		}
	}
	return nil
}

type ListFilter struct {
	Operation string
	Limit     int
	Offset    int
}

type Client struct {
	CommandLogs interface {
		CreateCommandLog(ctx context.Context, log entity.CommandLog) error
		GetCommandLogByID(ctx context.Context, id string) (entity.CommandLog, error)
		ListCommandLogs(ctx context.Context, filter ListFilter) ([]entity.CommandLog, int, error)
	}

	Commit   func() error
	Rollback func() error
}

type commandLogRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
