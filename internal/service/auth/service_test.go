package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/buildform/siteops-backend-go/internal/domain/auth"
	"github.com/buildform/siteops-backend-go/internal/domain/user"
	"github.com/buildform/siteops-backend-go/internal/pkg/jwt"
	"github.com/buildform/siteops-backend-go/internal/pkg/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]user.User
	byEmail map[string]user.User
	seq     int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]user.User),
		byEmail: make(map[string]user.User),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byEmail[u.Email]; exists {
		return user.User{}, user.ErrEmailExists
	}
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetApprovers(ctx context.Context) ([]user.User, error) {
	return nil, nil
}

type fakeJWTRepo struct {
	mu      sync.Mutex
	stored  map[string]string // token -> userID
	revoked map[string]bool
}

func newFakeJWTRepo() *fakeJWTRepo {
	return &fakeJWTRepo{
		stored:  make(map[string]string),
		revoked: make(map[string]bool),
	}
}

func (f *fakeJWTRepo) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored[token] = userID
	return nil
}

func (f *fakeJWTRepo) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[token], nil
}

func (f *fakeJWTRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = true
	return nil
}

type fakeGoogleService struct {
	info oauth.GoogleInformation
	err  error
}

func (f *fakeGoogleService) GenerateState(userAgent string) string { return "state" }

func (f *fakeGoogleService) RedirectURL(state string) string { return "https://example.com/oauth" }

func (f *fakeGoogleService) VerifyToken(ctx context.Context, code string) (*oauth2.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &oauth2.Token{AccessToken: "token"}, nil
}

func (f *fakeGoogleService) VerifyUser(ctx context.Context, token *oauth2.Token) (oauth.GoogleInformation, error) {
	if f.err != nil {
		return oauth.GoogleInformation{}, f.err
	}
	return f.info, nil
}

func newTestAuthService(t *testing.T) (auth.AuthService, *fakeUserRepo, *fakeJWTRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	jwtRepo := newFakeJWTRepo()
	jwtService := jwt.NewJWTService("test-secret", "1h", "168h")
	google := &fakeGoogleService{info: oauth.GoogleInformation{GoogleID: "g-1", Email: "field@buildform.dev", VerifiedEmail: true}}
	return NewAuthService(userRepo, jwtService, jwtRepo, google), userRepo, jwtRepo
}

func registerRequest() auth.RegisterRequest {
	return auth.RegisterRequest{
		Email:           "pm@buildform.dev",
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
		Role:            "project_manager",
	}
}

func TestRegister_IssuesTokenPair(t *testing.T) {
	svc, _, jwtRepo := newTestAuthService(t)

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.Equal(t, "pm@buildform.dev", resp.User.Email)
	assert.Equal(t, "project_manager", resp.User.Role)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Contains(t, jwtRepo.stored, resp.RefreshToken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, user.ErrEmailExists)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	req := registerRequest()
	req.ConfirmPassword = "something-else"
	_, err := svc.Register(context.Background(), req)
	assert.Error(t, err)
}

func TestLogin_Success(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "pm@buildform.dev",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token.AccessToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), auth.LoginRequest{
		Email:    "pm@buildform.dev",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@buildform.dev",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefreshToken_RotatesAndRevokesOld(t *testing.T) {
	svc, _, jwtRepo := newTestAuthService(t)

	registered, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
	assert.True(t, jwtRepo.revoked[registered.RefreshToken])

	// The rotated-out token must not be usable again
	_, err = svc.RefreshToken(context.Background(), registered.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	registered, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), registered.Token.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshToken_Garbage(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	svc, _, jwtRepo := newTestAuthService(t)

	registered, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), registered.RefreshToken))
	assert.True(t, jwtRepo.revoked[registered.RefreshToken])

	_, err = svc.RefreshToken(context.Background(), registered.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestGoogleCallback_CreatesEngineerOnFirstSignIn(t *testing.T) {
	svc, userRepo, _ := newTestAuthService(t)

	resp, err := svc.GoogleCallback(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "field@buildform.dev", resp.User.Email)
	assert.Equal(t, string(user.RoleEngineer), resp.User.Role)

	created, err := userRepo.GetByEmail(context.Background(), "field@buildform.dev")
	require.NoError(t, err)
	require.NotNil(t, created.OAuthProvider)
	assert.Equal(t, "google", *created.OAuthProvider)
	assert.Nil(t, created.PasswordHash)
}

func TestGoogleCallback_ExistingUserLogsIn(t *testing.T) {
	svc, userRepo, _ := newTestAuthService(t)

	_, err := svc.GoogleCallback(context.Background(), "auth-code")
	require.NoError(t, err)

	_, err = svc.GoogleCallback(context.Background(), "auth-code")
	require.NoError(t, err)

	// No duplicate account
	userRepo.mu.Lock()
	defer userRepo.mu.Unlock()
	assert.Len(t, userRepo.byEmail, 1)
}
