package orm

import (
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/schema"
	"go.uber.org/zap"
)

// Wrap envuelve un pool database/sql en bun.DB con el dialecto indicado.
// En nivel debug se agrega el hook que imprime cada query (BUNDEBUG=0 lo apaga).
func Wrap(sqldb *sql.DB, dialect schema.Dialect, log *zap.Logger) *bun.DB {
	db := bun.NewDB(sqldb, dialect)

	if log != nil && log.Core().Enabled(zap.DebugLevel) {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}

	return db
}
