package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildform/siteops-backend-go/internal/domain/user"
	"github.com/buildform/siteops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type userRepository struct {
	db *database.DB
}

// Create implements user.UserRepository.
func (u *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, u.db)

	query := `
		INSERT INTO users (email, password_hash, role, oauth_provider, oauth_provider_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newUser.Email,
		newUser.PasswordHash,
		newUser.Role,
		newUser.OAuthProvider,
		newUser.OAuthProviderID,
	).Scan(&newUser.ID, &newUser.CreatedAt, &newUser.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// GetByID implements user.UserRepository.
func (u *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, u.db)

	query := `
		SELECT u.id, u.email, u.password_hash, u.role, u.oauth_provider, u.oauth_provider_id,
			   u.created_at, u.updated_at,
			   e.id AS employee_id
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id
		WHERE u.id = $1
	`

	var usr user.User
	err := q.QueryRow(ctx, query, id).Scan(
		&usr.ID, &usr.Email, &usr.PasswordHash, &usr.Role, &usr.OAuthProvider, &usr.OAuthProviderID,
		&usr.CreatedAt, &usr.UpdatedAt,
		&usr.EmployeeID,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return usr, nil
}

// GetByEmail implements user.UserRepository.
func (u *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, u.db)

	query := `
		SELECT u.id, u.email, u.password_hash, u.role, u.oauth_provider, u.oauth_provider_id,
			   u.created_at, u.updated_at,
			   e.id AS employee_id
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id
		WHERE u.email = $1
	`

	var usr user.User
	err := q.QueryRow(ctx, query, email).Scan(
		&usr.ID, &usr.Email, &usr.PasswordHash, &usr.Role, &usr.OAuthProvider, &usr.OAuthProviderID,
		&usr.CreatedAt, &usr.UpdatedAt,
		&usr.EmployeeID,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return usr, nil
}

// GetApprovers implements user.UserRepository.
func (u *userRepository) GetApprovers(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, u.db)

	query := `
		SELECT u.id, u.email, u.password_hash, u.role, u.oauth_provider, u.oauth_provider_id,
			   u.created_at, u.updated_at,
			   e.id AS employee_id
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id
		WHERE u.role IN ($1, $2)
		ORDER BY u.email
	`

	rows, err := q.Query(ctx, query, user.RoleProjectManager, user.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to query approvers: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var usr user.User
		err := rows.Scan(
			&usr.ID, &usr.Email, &usr.PasswordHash, &usr.Role, &usr.OAuthProvider, &usr.OAuthProviderID,
			&usr.CreatedAt, &usr.UpdatedAt,
			&usr.EmployeeID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, usr)
	}

	return users, nil
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepository{db: db}
}
