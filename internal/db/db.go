package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"social/internal/config"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
)

// Repository provides methods for working with the database.
// Queries are written with ? placeholders and rebound for the active dialect.
type Repository struct {
	db      *sql.DB
	dialect *dialect
}

type dialect struct {
	driver string
	schema []string
	// numbered reports whether placeholders are $1, $2, ... instead of ?.
	numbered bool
}

var (
	sqliteDialect   = &dialect{driver: "sqlite3", schema: sqliteSchema}
	postgresDialect = &dialect{driver: "pgx", schema: postgresSchema, numbered: true}
)

// NewRepository opens the database described by cfg and checks that it is reachable.
func NewRepository(cfg *config.Config) (*Repository, error) {
	d := sqliteDialect
	dsn := cfg.DSN()
	switch {
	case cfg.DBDriver == "" || cfg.DBDriver == "sqlite3":
		dsn = sqliteDSN(dsn)
	case cfg.Postgres():
		d = postgresDialect
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	conn, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if d == sqliteDialect && strings.HasPrefix(cfg.DSN(), ":memory:") {
		// every connection to :memory: is a separate database
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Repository{db: conn, dialect: d}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Ping checks that the database is still reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// rebind rewrites ? placeholders into the dialect's form.
func (r *Repository) rebind(query string) string {
	if !r.dialect.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *Repository) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := r.db.ExecContext(ctx, r.rebind(query), args...)
	return res, translate(err)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	return rows, translate(err)
}

// queryRow returns the first matching row; errors surface from Scan and
// should be passed through translate.
func (r *Repository) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.db.QueryRowContext(ctx, r.rebind(query), args...)
}

// insertReturningID runs an INSERT ... RETURNING id statement.
func (r *Repository) insertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := r.queryRow(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, translate(err)
	}
	return id, nil
}

// translate maps driver specific failures onto ErrNotFound and ErrConflict.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", ErrConflict, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %v", ErrConflict, err)
		case "23503":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}
