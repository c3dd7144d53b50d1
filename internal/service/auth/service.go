package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildform/siteops-backend-go/internal/domain/auth"
	"github.com/buildform/siteops-backend-go/internal/domain/user"
	"github.com/buildform/siteops-backend-go/internal/pkg/jwt"
	"github.com/buildform/siteops-backend-go/internal/pkg/oauth"
	"github.com/buildform/siteops-backend-go/internal/repository/postgresql"
	jwtlib "github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	userRepo      user.UserRepository
	jwtService    jwt.Service
	jwtRepo       postgresql.JWTRepository
	googleService oauth.GoogleService
}

func NewAuthService(
	userRepo user.UserRepository,
	jwtService jwt.Service,
	jwtRepo postgresql.JWTRepository,
	googleService oauth.GoogleService,
) auth.AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		jwtService:    jwtService,
		jwtRepo:       jwtRepo,
		googleService: googleService,
	}
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	if _, err := a.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return auth.LoginResponse{}, user.ErrEmailExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return auth.LoginResponse{}, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashedStr := string(hashed)

	created, err := a.userRepo.Create(ctx, user.User{
		Email:        req.Email,
		PasswordHash: &hashedStr,
		Role:         user.Role(req.Role),
	})
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return a.issueTokens(ctx, created)
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	usr, err := a.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	// OAuth-only accounts have no password.
	if usr.PasswordHash == nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*usr.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, usr)
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (auth.LoginResponse, error) {
	userID, err := a.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	usr, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	// Rotate: the old refresh token dies with this exchange.
	if err := a.jwtRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	a.jwtService.RevokeToken(refreshToken)

	return a.issueTokens(ctx, usr)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	a.jwtService.RevokeToken(refreshToken)
	return a.jwtRepo.RevokeRefreshToken(ctx, refreshToken)
}

// GoogleCallback implements auth.AuthService.
func (a *AuthServiceImpl) GoogleCallback(ctx context.Context, code string) (auth.LoginResponse, error) {
	token, err := a.googleService.VerifyToken(ctx, code)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	info, err := a.googleService.VerifyUser(ctx, token)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	usr, err := a.userRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, fmt.Errorf("failed to get user: %w", err)
		}

		// First sign-in creates an account with the least privileged role.
		provider := "google"
		usr, err = a.userRepo.Create(ctx, user.User{
			Email:           info.Email,
			Role:            user.RoleEngineer,
			OAuthProvider:   &provider,
			OAuthProviderID: &info.GoogleID,
		})
		if err != nil {
			return auth.LoginResponse{}, err
		}
	}

	return a.issueTokens(ctx, usr)
}

// validateRefreshToken verifies signature, type and revocation, returning the
// subject user id.
func (a *AuthServiceImpl) validateRefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", auth.ErrInvalidToken
	}

	if a.jwtService.IsTokenRevoked(refreshToken) {
		return "", auth.ErrRefreshTokenRevoked
	}

	token, err := a.jwtService.JWTAuth().Decode(refreshToken)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired()) {
			return "", auth.ErrTokenExpired
		}
		return "", auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return "", auth.ErrInvalidToken
	}

	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return "", auth.ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", auth.ErrInvalidToken
	}

	revoked, err := a.jwtRepo.IsRefreshTokenRevoked(ctx, refreshToken)
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	if revoked {
		return "", auth.ErrRefreshTokenRevoked
	}

	return userID, nil
}

// issueTokens builds the login response with a fresh access/refresh pair.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, usr user.User) (auth.LoginResponse, error) {
	accessToken, accessExpiresAt, err := a.jwtService.GenerateAccessToken(usr.ID, usr.Email, usr.EmployeeID, usr.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := a.jwtService.GenerateRefreshToken(usr.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := a.jwtRepo.CreateRefreshToken(ctx, usr.ID, refreshToken, refreshExpiresAt); err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return auth.LoginResponse{
		User: auth.UserResponse{
			ID:         usr.ID,
			Email:      usr.Email,
			Role:       string(usr.Role),
			EmployeeID: usr.EmployeeID,
		},
		Token: auth.TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresAt:   accessExpiresAt,
		},
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
	}, nil
}
