package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/tair/pharmadistrib/pkg/logger"
)

// MySQLDSN renders a go-sql-driver DSN from the shared config
func (c Config) MySQLDSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = c.Host + ":" + c.Port
	mc.DBName = c.DBName
	mc.ParseTime = true
	mc.Timeout = 5 * time.Second
	return mc.FormatDSN()
}

// NewMySQLConnection opens a MySQL connection through database/sql
func NewMySQLConnection(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.MySQLDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	configurePool(db)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Logger.Info().
		Str("host", cfg.Host).
		Str("database", cfg.DBName).
		Msg("Successfully connected to MySQL database")
	return db, nil
}
