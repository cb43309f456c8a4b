package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/vidshare/internal/domain/user"
	"github.com/khoahotran/vidshare/pkg/apperror"
)

const pgUniqueViolation = "23505"

type postgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(db *pgxpool.Pool) user.Repository {
	return &postgresUserRepo{db: db}
}

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) (string, error) {
	id := uuid.New()
	query, args, err := psql.Insert("users").
		Columns("id", "email", "password_hash", "created_at").
		Values(id, u.Email, u.PasswordHash, u.CreatedAt).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build insert user query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return "", apperror.NewConflict("user", "email", u.Email)
		}
		return "", apperror.NewStoreError("insert user", err)
	}
	return id.String(), nil
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	u := &user.User{}
	var id uuid.UUID

	err := r.db.QueryRow(ctx, query, email).Scan(
		&id,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", email)
		}
		return nil, apperror.NewStoreError("find user", err)
	}

	u.ID = id.String()
	return u, nil
}
