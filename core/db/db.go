package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tokenscope/memebot/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// NewDB opens the postgres connection described by cfg. The caller owns the
// handle and passes it to whoever needs it.
func NewDB(cfg config.PostgresqlConfig) *bun.DB {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&connect_timeout=10",
		cfg.Account, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithConnParams(map[string]interface{}{
		"search_path": cfg.SchemaName,
	})))

	sqldb.SetMaxOpenConns(10)
	sqldb.SetMaxIdleConns(5)
	sqldb.SetConnMaxLifetime(time.Hour)

	return bun.NewDB(sqldb, pgdialect.New())
}
