package auth

import "context"

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (LoginResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	// RefreshToken rotates the refresh token and issues a new access token.
	RefreshToken(ctx context.Context, refreshToken string) (LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error

	// GoogleCallback exchanges the authorization code and logs the user in,
	// creating an account on first sign-in.
	GoogleCallback(ctx context.Context, code string) (LoginResponse, error)
}
