package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/user-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, password_hash, active, created_at, updated_at`

// querier is the part of *pgxpool.Pool the repository uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	pool querier
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, active)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		user.Name, user.Email, user.PasswordHash, user.Active,
	)

	created, err := scanUser(row)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET    name          = $2,
		       email         = $3,
		       password_hash = $4,
		       updated_at    = NOW()
		WHERE  id = $1
		RETURNING `+userColumns,
		user.ID, user.Name, user.Email, user.PasswordHash,
	)

	updated, err := scanUser(row)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return updated, nil
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET active = $2, updated_at = NOW()
		 WHERE id = $1 AND active = $3`,
		id, active, !active)
	if err != nil {
		if pgCode(err) == codeInvalidTextRepr {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("set active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish not-found vs already-in-desired-state
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		if active {
			return domain.ErrUserAlreadyActive
		}
		return domain.ErrUserAlreadyInactive
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		// A malformed uuid can never match a row.
		if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == codeInvalidTextRepr {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
