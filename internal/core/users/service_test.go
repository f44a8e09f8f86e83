package users

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"Quill/internal/auth"
	"Quill/internal/core/authz"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Insert(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID string) (*User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, userID string, role authz.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *mockUserRepository) List(ctx context.Context) ([]*User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

func (m *mockUserRepository) SetResetToken(ctx context.Context, userID, token string, expiresAt int64) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *mockUserRepository) GetByResetToken(ctx context.Context, token string) (*User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// recordingMailer captures sent mail
type recordingMailer struct {
	to      []string
	subject []string
	body    []string
	err     error
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.to = append(m.to, to)
	m.subject = append(m.subject, subject)
	m.body = append(m.body, body)
	return m.err
}

var (
	testJWTSecret   = []byte("test-jwt-secret")
	testResetSecret = []byte("test-reset-secret")
)

func newTestUserService(repo Repository, mailer Mailer) Service {
	return NewUserService(repo, mailer, testJWTSecret, testResetSecret, "http://localhost:8080", nil)
}

func TestUserService_Register(t *testing.T) {
	repo := new(mockUserRepository)
	service := newTestUserService(repo, &recordingMailer{})

	ctx := context.Background()
	repo.On("GetByEmail", ctx, "new@example.com").Return(nil, ErrUserNotFound)
	repo.On("Insert", ctx, mock.MatchedBy(func(u *User) bool {
		return u.Email == "new@example.com" &&
			u.Name == "New User" &&
			u.Role == authz.RoleUser &&
			u.PasswordHash != "secret1"
	})).Return(nil)

	user, err := service.Register(ctx, RegisterRequest{
		Email:           "  New@Example.com  ",
		Name:            "  New User  ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	// The stored hash verifies against the original password
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
	repo.AssertExpectations(t)
}

func TestUserService_Register_Validation(t *testing.T) {
	repo := new(mockUserRepository)
	service := newTestUserService(repo, &recordingMailer{})

	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"invalid email", RegisterRequest{Email: "not-an-email", Name: "A", Password: "secret1", ConfirmPassword: "secret1"}},
		{"empty name", RegisterRequest{Email: "a@b.com", Name: "  ", Password: "secret1", ConfirmPassword: "secret1"}},
		{"short password", RegisterRequest{Email: "a@b.com", Name: "A", Password: "abc", ConfirmPassword: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(ctx, tt.req)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	_, err := service.Register(ctx, RegisterRequest{
		Email: "a@b.com", Name: "A", Password: "secret1", ConfirmPassword: "different",
	})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	repo := new(mockUserRepository)
	service := newTestUserService(repo, &recordingMailer{})

	ctx := context.Background()
	repo.On("GetByEmail", ctx, "taken@example.com").Return(&User{ID: "u-1"}, nil)

	_, err := service.Register(ctx, RegisterRequest{
		Email: "taken@example.com", Name: "A", Password: "secret1", ConfirmPassword: "secret1",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_Login(t *testing.T) {
	repo := new(mockUserRepository)
	service := newTestUserService(repo, &recordingMailer{})

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	ctx := context.Background()
	stored := &User{ID: "u-1", Email: "a@b.com", Role: authz.RoleAdmin, PasswordHash: string(hash)}
	repo.On("GetByEmail", ctx, "a@b.com").Return(stored, nil)

	resp, err := service.Login(ctx, "  A@B.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", resp.UserID)

	// The issued token carries the user's id and role
	claims, err := auth.Verify(testJWTSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, string(authz.RoleAdmin), claims.Role)
}

func TestUserService_Login_BadCredentials(t *testing.T) {
	repo := new(mockUserRepository)
	service := newTestUserService(repo, &recordingMailer{})

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	ctx := context.Background()
	repo.On("GetByEmail", ctx, "a@b.com").Return(&User{ID: "u-1", PasswordHash: string(hash)}, nil)
	repo.On("GetByEmail", ctx, "ghost@b.com").Return(nil, ErrUserNotFound)

	_, err = service.Login(ctx, "a@b.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown account and wrong password are indistinguishable
	_, err = service.Login(ctx, "ghost@b.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_GetName(t *testing.T) {
	repo := new(mockUserRepository)
	service := newTestUserService(repo, &recordingMailer{})

	ctx := context.Background()
	repo.On("GetByID", ctx, "u-1").Return(&User{ID: "u-1", Name: "Alice"}, nil)
	repo.On("GetByID", ctx, "ghost").Return(nil, ErrUserNotFound)

	name, err := service.GetName(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	_, err = service.GetName(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateRole(t *testing.T) {
	repo := new(mockUserRepository)
	service := newTestUserService(repo, &recordingMailer{})

	ctx := context.Background()
	self := authz.Identity{Authenticated: true, UserID: "u-1", Role: authz.RoleUser}
	admin := authz.Identity{Authenticated: true, UserID: "a-1", Role: authz.RoleAdmin}

	// A user may not change someone else's role
	_, err := service.UpdateRole(ctx, self, "u-2", "admin")
	assert.ErrorIs(t, err, authz.ErrForbidden)

	repo.On("GetByID", ctx, "u-1").Return(&User{ID: "u-1", Role: authz.RoleUser}, nil)
	repo.On("UpdateRole", ctx, "u-1", authz.RoleAdmin).Return(nil).Once()

	updated, err := service.UpdateRole(ctx, self, "u-1", "admin")
	require.NoError(t, err)
	assert.Equal(t, authz.RoleAdmin, updated.Role)

	repo.On("GetByID", ctx, "u-2").Return(&User{ID: "u-2", Role: authz.RoleUser}, nil)
	repo.On("UpdateRole", ctx, "u-2", authz.RoleAdmin).Return(nil).Once()

	_, err = service.UpdateRole(ctx, admin, "u-2", "admin")
	assert.NoError(t, err)
}

func TestUserService_ForgotPassword_SendsResetLink(t *testing.T) {
	repo := new(mockUserRepository)
	mailer := &recordingMailer{}
	service := newTestUserService(repo, mailer)

	ctx := context.Background()
	stored := &User{ID: "u-1", Email: "a@b.com"}
	repo.On("GetByEmail", ctx, "a@b.com").Return(stored, nil)
	repo.On("SetResetToken", ctx, "u-1", mock.AnythingOfType("string"), mock.AnythingOfType("int64")).Return(nil)

	err := service.ForgotPassword(ctx, "a@b.com")
	require.NoError(t, err)

	require.Len(t, mailer.to, 1)
	assert.Equal(t, "a@b.com", mailer.to[0])
	assert.Contains(t, mailer.body[0], "/api/user/reset-password/")
	repo.AssertExpectations(t)
}

func TestUserService_ResetPassword(t *testing.T) {
	repo := new(mockUserRepository)
	service := newTestUserService(repo, &recordingMailer{})

	token, err := auth.Sign(testResetSecret, "u-1", "a@b.com", "", resetTokenTTL)
	require.NoError(t, err)

	ctx := context.Background()
	repo.On("GetByResetToken", ctx, token).Return(&User{ID: "u-1"}, nil)
	repo.On("UpdatePassword", ctx, "u-1", mock.MatchedBy(func(hash string) bool {
		return strings.HasPrefix(hash, "$2")
	})).Return(nil)

	_, err = service.ResetPassword(ctx, token, "newsecret", "newsecret")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUserService_ResetPassword_Rejections(t *testing.T) {
	repo := new(mockUserRepository)
	service := newTestUserService(repo, &recordingMailer{})

	ctx := context.Background()

	// A token signed with the wrong secret is rejected before any lookup
	forged, err := auth.Sign(testJWTSecret, "u-1", "a@b.com", "", resetTokenTTL)
	require.NoError(t, err)
	_, err = service.ResetPassword(ctx, forged, "newsecret", "newsecret")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
	repo.AssertNotCalled(t, "GetByResetToken", mock.Anything, mock.Anything)

	// A valid signature whose stored copy is gone (consumed or superseded)
	token, err := auth.Sign(testResetSecret, "u-1", "a@b.com", "", resetTokenTTL)
	require.NoError(t, err)
	repo.On("GetByResetToken", ctx, token).Return(nil, ErrResetTokenInvalid)
	_, err = service.ResetPassword(ctx, token, "newsecret", "newsecret")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)

	repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Delete_SelfOrAdmin(t *testing.T) {
	repo := new(mockUserRepository)
	service := newTestUserService(repo, &recordingMailer{})

	ctx := context.Background()
	self := authz.Identity{Authenticated: true, UserID: "u-1", Role: authz.RoleUser}
	admin := authz.Identity{Authenticated: true, UserID: "a-1", Role: authz.RoleAdmin}

	err := service.Delete(ctx, self, "u-2")
	assert.ErrorIs(t, err, authz.ErrForbidden)

	repo.On("GetByID", ctx, "u-1").Return(&User{ID: "u-1"}, nil)
	repo.On("Delete", ctx, "u-1").Return(nil).Once()
	assert.NoError(t, service.Delete(ctx, self, "u-1"))

	repo.On("GetByID", ctx, "u-2").Return(&User{ID: "u-2"}, nil)
	repo.On("Delete", ctx, "u-2").Return(nil).Once()
	assert.NoError(t, service.Delete(ctx, admin, "u-2"))
}
