package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"kpslogistics/db"
)

// PostgresDB owns the shared *sql.DB pool used by every Postgres repository.
type PostgresDB struct {
	Conn *sql.DB
	URL  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewPostgresDB sizes the pool for a small back office.
func NewPostgresDB(url string) *PostgresDB {
	return &PostgresDB{
		URL:             url,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// Connect opens the pool and verifies it with a ping bounded by ctx.
func (p *PostgresDB) Connect(ctx context.Context) error {
	if p.URL == "" {
		return errors.New("postgres.Connect: POSTGRES_URL not set")
	}
	conn, err := sql.Open("postgres", p.URL)
	if err != nil {
		return fmt.Errorf("postgres.Connect: %w", err)
	}
	conn.SetMaxOpenConns(p.MaxOpenConns)
	conn.SetMaxIdleConns(p.MaxIdleConns)
	conn.SetConnMaxLifetime(p.ConnMaxLifetime)

	p.Conn = conn
	if err := p.Ping(ctx); err != nil {
		_ = conn.Close()
		p.Conn = nil
		return err
	}
	return nil
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	if p.Conn == nil {
		return errors.New("postgres.Ping: not connected")
	}
	if err := p.Conn.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres.Ping: %w", err)
	}
	return nil
}

func (p *PostgresDB) Disconnect() error {
	if p.Conn == nil {
		return nil
	}
	return p.Conn.Close()
}

var _ db.DB = (*PostgresDB)(nil)
