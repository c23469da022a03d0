package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrUserNotFound is returned when no account matches.
var ErrUserNotFound = errors.New("user not found")

// User is an account row.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}

// Queries wraps the account statements.
type Queries struct {
	db *sql.DB
}

// New creates a Queries over database.
func New(database *sql.DB) *Queries {
	return &Queries{db: database}
}

// CreateUserParams holds the columns of a new account.
type CreateUserParams struct {
	Username     string
	PasswordHash string
	DisplayName  string
}

// CreateUser inserts an account and returns it.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, display_name, created_at) VALUES (?, ?, ?, ?)`,
		arg.Username, arg.PasswordHash, arg.DisplayName, time.Now().Unix())
	if err != nil {
		return User{}, fmt.Errorf("create user %q: %w", arg.Username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return q.GetUser(ctx, id)
}

// GetUser loads an account by id.
func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, display_name, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByUsername loads an account by login name.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, display_name, created_at FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	var created int64
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	u.CreatedAt = time.Unix(created, 0)
	return u, nil
}
