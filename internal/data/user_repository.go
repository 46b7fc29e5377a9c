package data

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/KanujanS/LMS/internal/model"
)

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, input *model.RepositoryCreateUserInput) (*model.User, error) {
	query := `
INSERT INTO users (id, name, email, password_hash, image_url, role)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING
	id, name, email, password_hash, image_url, role,
	enrolled_courses, created_at, edited_at
`
	var user model.User
	err := pgxscan.Get(ctx, r.db, &user, query,
		input.Id,
		input.Name,
		input.Email,
		input.PasswordHash,
		input.ImageURL,
		input.Role,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &user, nil
}

func (r *UserRepository) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
SELECT
	id, name, email, password_hash, image_url, role,
	enrolled_courses, created_at, edited_at

FROM users
WHERE id = $1
`
	var user model.User
	err := pgxscan.Get(ctx, r.db, &user, query, id)
	if err != nil {
		return nil, handleError(err)
	}
	return &user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
SELECT
	id, name, email, password_hash, image_url, role,
	enrolled_courses, created_at, edited_at

FROM users
WHERE email = $1
`
	var user model.User
	err := pgxscan.Get(ctx, r.db, &user, query, email)
	if err != nil {
		return nil, handleError(err)
	}
	return &user, nil
}

func (r *UserRepository) UpdateUserRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	query := `
UPDATE users
SET role = $1, edited_at = now()
WHERE id = $2
RETURNING
	id, name, email, password_hash, image_url, role,
	enrolled_courses, created_at, edited_at
`
	var user model.User
	err := pgxscan.Get(ctx, r.db, &user, query, role, id)
	if err != nil {
		return nil, handleError(err)
	}
	return &user, nil
}

func (r *UserRepository) ListUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	query := `
SELECT
	id, name, email, password_hash, image_url, role,
	enrolled_courses, created_at, edited_at

FROM users
WHERE id = ANY($1)
`
	var users []*model.User
	err := pgxscan.Select(ctx, r.db, &users, query, ids)
	if err != nil {
		return nil, handleError(err)
	}
	return users, nil
}
