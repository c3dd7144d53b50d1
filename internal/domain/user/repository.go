package user

import "context"

type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// GetApprovers returns all users allowed to review attendance and leave.
	GetApprovers(ctx context.Context) ([]User, error)
}
