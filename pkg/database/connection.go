// -----------------------------------------------------------------------------
// Database Connection
// -----------------------------------------------------------------------------
// Uygulamanın veritabanına bağlanmasını sağlayan merkezi bağlantı fonksiyonu.
// Desteklenen driver'lar: mysql (go-sql-driver), postgres (lib/pq) ve
// sqlite (modernc.org/sqlite, cgo gerektirmez).
// -----------------------------------------------------------------------------

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/ceopag/eloquence-base/pkg/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// UnsupportedDriverError, tanınmayan driver adı için döner.
type UnsupportedDriverError struct {
	Driver string
}

func (e *UnsupportedDriverError) Error() string {
	return fmt.Sprintf("database: unsupported driver %q", e.Driver)
}

// ConnectionConfig, bağlantı ve havuz ayarları.
type ConnectionConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect, verilen ayarlarla veritabanına bağlanır ve *sql.DB döner.
//
//  1. sql.Open ile sürücü ve DSN kullanılarak bağlantı nesnesi oluşturulur.
//  2. Havuz ayarları uygulanır (sıfır değerler için 25/25/5dk).
//  3. PingContext ile veritabanının erişilebilirliği kontrol edilir.
//  4. Hata varsa bağlantı kapatılır ve error döner.
func Connect(ctx context.Context, cfg ConnectionConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return nil, &UnsupportedDriverError{Driver: cfg.Driver}
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	maxOpen, maxIdle, lifetime := cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime
	if maxOpen <= 0 {
		maxOpen = 25
	}
	if maxIdle <= 0 {
		maxIdle = 25
	}
	if lifetime <= 0 {
		lifetime = 5 * time.Minute
	}
	if cfg.Driver == DriverSQLite {
		// in-memory SQLite her bağlantıda ayrı bir veritabanı açar
		maxOpen, maxIdle, lifetime = 1, 1, 0
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	logger.Info().Str("driver", cfg.Driver).Msg("connecting to database")
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info().Str("driver", cfg.Driver).Msg("database connection established")
	return db, nil
}

// GrammarFor, driver adına göre uygun Grammar'ı döner.
func GrammarFor(driver string) (Grammar, error) {
	switch driver {
	case DriverMySQL:
		return NewMySQLGrammar(), nil
	case DriverPostgres:
		return NewPostgresGrammar(), nil
	case DriverSQLite:
		return NewSQLiteGrammar(), nil
	}
	return nil, &UnsupportedDriverError{Driver: driver}
}
