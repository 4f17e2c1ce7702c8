package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-owners/internal/adapters/storage/orm"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/juju/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"go.uber.org/zap"
)

// Open abre un pool a Postgres usando pgx (database/sql) y lo envuelve en bun.
func Open(dsn string, log *zap.Logger) (*bun.DB, error) {
	sqldb, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Annotate(err, "opening postgres")
	}

	// defaults razonables para el demo (ajustable luego)
	sqldb.SetMaxOpenConns(10)
	sqldb.SetMaxIdleConns(5)
	sqldb.SetConnMaxIdleTime(5 * time.Minute)
	sqldb.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, errors.Annotate(err, "pinging postgres")
	}

	return orm.Wrap(sqldb, pgdialect.New(), log), nil
}
