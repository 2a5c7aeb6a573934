package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Pool defaults applied when the corresponding Config field is zero.
// The workload is short single-row queries, so the pool stays small.
const (
	defaultMaxOpenConns    = 20
	defaultMaxIdleConns    = 4
	defaultConnMaxLifetime = 10 * time.Minute

	pingAttempts = 5
)

// Config holds the MySQL connection settings
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c Config) dsn() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	mc.DBName = c.Database
	mc.Collation = "utf8mb4_unicode_ci"
	mc.ParseTime = true
	return mc.FormatDSN()
}

// Connection wraps the shared sql.DB pool
type Connection struct {
	DB *sql.DB
}

// NewConnection opens the pool and waits for the server to accept a
// ping. The database container may still be starting when the process
// boots, so the ping is retried with a growing delay.
func NewConnection(cfg Config) (*Connection, error) {
	db, err := sql.Open("mysql", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for attempt := 1; ; attempt++ {
		if err = db.Ping(); err == nil {
			break
		}
		if attempt == pingAttempts {
			db.Close()
			return nil, fmt.Errorf("failed to ping database after %d attempts: %w", pingAttempts, err)
		}
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = defaultConnMaxLifetime
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	return &Connection{DB: db}, nil
}

// Close closes the underlying pool
func (c *Connection) Close() error {
	return c.DB.Close()
}

// Ping verifies the connection is alive
func (c *Connection) Ping() error {
	return c.DB.Ping()
}
