package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/geo-auth-be/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect names the SQL flavour a SQLStore talks to.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

const userColumns = "id, name, email, password_hash, latitude, longitude, created_at, updated_at"

// SQLStore is a UserStore backed by database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore creates a SQLStore over an open, migrated database.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// scanUser is a helper to scan a user from a row.
func scanUser(scanner interface{ Scan(...interface{}) error }) (models.User, error) {
	var user models.User
	var lat, lng sql.NullFloat64
	err := scanner.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&lat, &lng, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	if lat.Valid && lng.Valid {
		user.Location = &models.Location{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	return user, nil
}

func (s *SQLStore) findOne(ctx context.Context, where string, arg string) (models.User, error) {
	query := s.rebind("SELECT " + userColumns + " FROM users WHERE " + where + " = ?")
	user, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// FindByEmail retrieves a single user by email, including the password hash.
func (s *SQLStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, "email", email)
}

// FindByID retrieves a single user by id.
func (s *SQLStore) FindByID(ctx context.Context, id string) (models.User, error) {
	return s.findOne(ctx, "id", id)
}

// Create inserts a new user. The UNIQUE constraint on email decides races.
func (s *SQLStore) Create(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC()
	user.ID = uuid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	lat, lng := locationArgs(user.Location)
	query := s.rebind("INSERT INTO users (" + userColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, lat, lng, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateKey
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// Save updates the mutable columns of an existing user.
func (s *SQLStore) Save(ctx context.Context, user models.User) (models.User, error) {
	user.UpdatedAt = time.Now().UTC()

	lat, lng := locationArgs(user.Location)
	query := s.rebind(`UPDATE users
		SET name = ?, email = ?, password_hash = ?, latitude = ?, longitude = ?, updated_at = ?
		WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, lat, lng, user.UpdatedAt, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateKey
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func locationArgs(loc *models.Location) (sql.NullFloat64, sql.NullFloat64) {
	if loc == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Latitude, Valid: true},
		sql.NullFloat64{Float64: loc.Longitude, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE")
	}
	return false
}

var _ UserStore = (*SQLStore)(nil)
