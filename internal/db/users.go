package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

const userColumns = `id, email, hashed_password, name, role, brand_id, permissions, status, created_at, updated_at`

// inserts a new user and returns it with its generated id.
func (s *pgStore) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	var out model.User
	query := `
	INSERT INTO users (email, hashed_password, name, role, brand_id, permissions, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	RETURNING ` + userColumns + `;`
	err := sqlx.GetContext(ctx, s.q, &out, query,
		u.Email, u.HashedPassword, u.Name, u.Role, u.BrandID, u.Permissions, u.Status)
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", mapError(err))
	}
	return out, nil
}

// fetches user by email. returns ErrNotFound if absent.
func (s *pgStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	if err := sqlx.GetContext(ctx, s.q, &u, query, email); err != nil {
		return model.User{}, mapError(err)
	}
	return u, nil
}

// fetches a user by ID. returns ErrNotFound if absent.
func (s *pgStore) GetUserByID(ctx context.Context, id int) (model.User, error) {
	var u model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1;`
	if err := sqlx.GetContext(ctx, s.q, &u, query, id); err != nil {
		return model.User{}, mapError(err)
	}
	return u, nil
}
