package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaniki/salepoint-api/internal/domain/entity"
	"github.com/mwaniki/salepoint-api/pkg/apperror"
	"github.com/mwaniki/salepoint-api/pkg/email"
	"github.com/mwaniki/salepoint-api/pkg/utils"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, em string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == em {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByProviderID(ctx context.Context, provider, providerID string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Provider == provider && u.ProviderID != nil && *u.ProviderID == providerID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Password = hashedPassword
	}
	return nil
}

type fakeResetTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*entity.PasswordResetToken
}

func newFakeResetTokenRepo() *fakeResetTokenRepo {
	return &fakeResetTokenRepo{tokens: make(map[string]*entity.PasswordResetToken)}
}

func (r *fakeResetTokenRepo) Create(ctx context.Context, token *entity.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *token
	r.tokens[token.Token] = &cp
	return nil
}

func (r *fakeResetTokenRepo) GetByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeResetTokenRepo) MarkUsed(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok {
		t.Used = true
	}
	return nil
}

func (r *fakeResetTokenRepo) InvalidateForEmail(ctx context.Context, em string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, t := range r.tokens {
		if t.Email == em {
			delete(r.tokens, key)
		}
	}
	return nil
}

func (r *fakeResetTokenRepo) DeleteExpired(ctx context.Context) error {
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeResetTokenRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	resetRepo := newFakeResetTokenRepo()
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	emailService := email.NewEmailService(email.EmailConfig{})
	svc := NewAuthService(userRepo, resetRepo, jwtManager, emailService)
	return svc, userRepo, resetRepo
}

func registerTestUser(t *testing.T, svc *AuthService) *entity.User {
	t.Helper()
	user, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Jane Cashier",
		Username: "jane",
		Email:    "jane@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

func TestLoginByEmailOrUsername(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	registerTestUser(t, svc)

	byEmail, err := svc.Login(context.Background(), &LoginInput{
		Identifier: "jane@example.com",
		Password:   "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, byEmail.AccessToken)
	assert.NotEmpty(t, byEmail.RefreshToken)

	byUsername, err := svc.Login(context.Background(), &LoginInput{
		Identifier: "jane",
		Password:   "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, byEmail.User.ID, byUsername.User.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	registerTestUser(t, svc)

	_, err := svc.Login(context.Background(), &LoginInput{
		Identifier: "jane",
		Password:   "wrong",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginInput{
		Identifier: "nobody@example.com",
		Password:   "correct-horse",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Other",
		Username: "other",
		Email:    "jane@example.com",
		Password: "password123",
	})
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)

	_, err = svc.Register(context.Background(), &RegisterInput{
		Name:     "Other",
		Username: "jane",
		Email:    "other@example.com",
		Password: "password123",
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	registerTestUser(t, svc)

	login, err := svc.Login(context.Background(), &LoginInput{
		Identifier: "jane",
		Password:   "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	user := registerTestUser(t, svc)

	err := svc.ChangePassword(context.Background(), &ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "wrong",
		NewPassword:     "new-password",
	})
	require.Error(t, err)

	err = svc.ChangePassword(context.Background(), &ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "correct-horse",
		NewPassword:     "new-password",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginInput{
		Identifier: "jane",
		Password:   "new-password",
	})
	assert.NoError(t, err)
}

func TestResetPassword(t *testing.T) {
	svc, _, resetRepo := newAuthFixture(t)
	registerTestUser(t, svc)

	token := &entity.PasswordResetToken{
		Email:     "jane@example.com",
		Token:     "reset-token-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, resetRepo.Create(context.Background(), token))

	// Token bound to a different email is rejected
	err := svc.ResetPassword(context.Background(), &ResetPasswordInput{
		Email:       "someone-else@example.com",
		Token:       "reset-token-1",
		NewPassword: "after-reset",
	})
	require.Error(t, err)

	err = svc.ResetPassword(context.Background(), &ResetPasswordInput{
		Email:       "jane@example.com",
		Token:       "reset-token-1",
		NewPassword: "after-reset",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginInput{
		Identifier: "jane@example.com",
		Password:   "after-reset",
	})
	assert.NoError(t, err)

	// The token cannot be replayed
	err = svc.ResetPassword(context.Background(), &ResetPasswordInput{
		Email:       "jane@example.com",
		Token:       "reset-token-1",
		NewPassword: "third-password",
	})
	assert.Error(t, err)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	svc, _, resetRepo := newAuthFixture(t)

	err := svc.ForgotPassword(context.Background(), &ForgotPasswordInput{
		Email: "ghost@example.com",
	})
	assert.NoError(t, err)
	assert.Empty(t, resetRepo.tokens)
}
