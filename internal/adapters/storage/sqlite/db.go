package sqlite

import (
	"context"
	"database/sql"

	"pet-owners/internal/adapters/storage/orm"

	"github.com/juju/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Open abre una base SQLite (archivo o ":memory:") y la envuelve en bun.
// Se usa una sola conexión: SQLite admite un único escritor y ":memory:" vive por conexión.
func Open(dsn string, log *zap.Logger) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Annotatef(err, "opening sqlite %q", dsn)
	}

	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)
	sqldb.SetConnMaxIdleTime(0)

	if _, err := sqldb.ExecContext(context.Background(), "PRAGMA foreign_keys = ON"); err != nil {
		_ = sqldb.Close()
		return nil, errors.Annotate(err, "enabling sqlite foreign keys")
	}

	return orm.Wrap(sqldb, sqlitedialect.New(), log), nil
}
