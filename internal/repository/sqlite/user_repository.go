package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"users-api/internal/domain"
	"users-api/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL,
	username TEXT NOT NULL,
	age INTEGER NOT NULL,
	hobbies TEXT NOT NULL
);
`

const createUsersIDIndex = `CREATE INDEX IF NOT EXISTS users_id_idx ON users (id);`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createUsersIDIndex); err != nil {
		return fmt.Errorf("create users id index: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, age, hobbies
FROM users
WHERE id = ?
ORDER BY seq
LIMIT 1`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, username, age, hobbies
FROM users
ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Insert(ctx context.Context, user domain.User) error {
	hobbies, err := encodeHobbies(user.Hobbies)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, username, age, hobbies)
VALUES (?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Age,
		hobbies,
	); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update rewrites the first row carrying user.ID. Zero matching rows is not
// an error.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	hobbies, err := encodeHobbies(user.Hobbies)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `
UPDATE users
SET username = ?, age = ?, hobbies = ?
WHERE seq = (SELECT seq FROM users WHERE id = ? ORDER BY seq LIMIT 1)`,
		user.Username,
		user.Age,
		hobbies,
		user.ID,
	); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM users
WHERE seq = (SELECT seq FROM users WHERE id = ? ORDER BY seq LIMIT 1)`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user rows affected: %w", err)
	}
	return affected > 0, nil
}

func encodeHobbies(hobbies []string) (string, error) {
	if hobbies == nil {
		hobbies = []string{}
	}
	data, err := json.Marshal(hobbies)
	if err != nil {
		return "", fmt.Errorf("encode hobbies: %w", err)
	}
	return string(data), nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user    domain.User
		hobbies string
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Age,
		&hobbies,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if err := json.Unmarshal([]byte(hobbies), &user.Hobbies); err != nil {
		return nil, fmt.Errorf("decode hobbies: %w", err)
	}
	if user.Hobbies == nil {
		user.Hobbies = []string{}
	}
	return &user, nil
}
