package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"course-platform/internal/data/entity"
	"course-platform/internal/data/repository"
	"course-platform/internal/dto/request"
	"course-platform/pkg/token"
	"course-platform/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(_ context.Context, to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type authFixture struct {
	svc    *authService
	repo   repository.UserRepository
	sender *mockSender
	tokens *token.Manager
	hasher *utils.BcryptHasher
	now    time.Time
}

func testConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{FrontendURL: "http://localhost:5173"},
		JWT: utils.JWTConfig{
			Secret:     "test-secret",
			Issuer:     "course-platform",
			SessionTTL: 7 * 24 * time.Hour,
			ResetTTL:   time.Hour,
		},
		Auth: utils.AuthConfig{
			BcryptCost:    bcrypt.MinCost,
			RegisterRoles: []string{"student", "instructor"},
		},
		Storage: utils.StorageConfig{MaxBytes: 1024},
	}
}

func newAuthFixture(t *testing.T, config *utils.Config) *authFixture {
	t.Helper()

	f := &authFixture{
		repo:   repository.NewMemoryUserRepository(zap.NewNop()),
		sender: &mockSender{},
		hasher: utils.NewBcryptHasher(bcrypt.MinCost),
		now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	tokens, err := token.NewManager(config.JWT.Secret, config.JWT.Issuer,
		token.WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.tokens = tokens

	svc := NewAuthService(f.repo, f.hasher, tokens, f.sender, config, zap.NewNop()).(*authService)
	svc.dispatch = func(fn func()) { fn() }
	f.svc = svc
	return f
}

func aliceRequest() *request.RegisterRequest {
	return &request.RegisterRequest{
		Username:        "alice",
		Email:           "alice@ex.com",
		Password:        "password1",
		ConfirmPassword: "password1",
		PhoneNumber:     "555-0100",
	}
}

func requireKind(t *testing.T, err error, kind error) *Error {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)

	var svcErr *Error
	require.True(t, errors.As(err, &svcErr), "expected *usecase.Error, got %T", err)
	return svcErr
}

func TestRegister_DefaultsToStudentAndHashesPassword(t *testing.T) {
	f := newAuthFixture(t, testConfig())
	ctx := context.Background()

	user, err := f.svc.Register(ctx, aliceRequest())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, entity.RoleStudent, user.Role)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsVerified)

	stored, err := f.repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "password1", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.True(t, f.hasher.Verify("password1", stored.PasswordHash))
}

func TestRegister_TrimsFields(t *testing.T) {
	f := newAuthFixture(t, testConfig())

	req := aliceRequest()
	req.Username = "  alice "
	req.Email = " alice@ex.com"
	address := "   "
	req.Address = &address

	user, err := f.svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@ex.com", user.Email)
	assert.Nil(t, user.Address)
}

func TestRegister_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *request.RegisterRequest)
		message string
	}{
		{
			name: "everything missing reports username first",
			mutate: func(r *request.RegisterRequest) {
				*r = request.RegisterRequest{}
			},
			message: "Username is required",
		},
		{
			name:    "missing email",
			mutate:  func(r *request.RegisterRequest) { r.Email = "" },
			message: "Email is required",
		},
		{
			name:    "blank password",
			mutate:  func(r *request.RegisterRequest) { r.Password = "   " },
			message: "Password is required",
		},
		{
			name:    "missing phone number",
			mutate:  func(r *request.RegisterRequest) { r.PhoneNumber = "" },
			message: "Phone number is required",
		},
		{
			name: "short password before mismatch",
			mutate: func(r *request.RegisterRequest) {
				r.Password = "short"
				r.ConfirmPassword = "different"
			},
			message: "Password must be at least 8 characters",
		},
		{
			name:    "mismatched confirmation",
			mutate:  func(r *request.RegisterRequest) { r.ConfirmPassword = "password2" },
			message: "Passwords do not match",
		},
		{
			name:    "bad email format",
			mutate:  func(r *request.RegisterRequest) { r.Email = "not-an-email" },
			message: "Validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, testConfig())
			req := aliceRequest()
			tt.mutate(req)

			_, err := f.svc.Register(context.Background(), req)
			svcErr := requireKind(t, err, ErrInvalidInput)
			assert.Equal(t, tt.message, svcErr.Message)
		})
	}
}

func TestRegister_EmailFormatReportsField(t *testing.T) {
	f := newAuthFixture(t, testConfig())
	req := aliceRequest()
	req.Email = "alice-at-ex.com"

	_, err := f.svc.Register(context.Background(), req)
	svcErr := requireKind(t, err, ErrInvalidInput)
	assert.Contains(t, svcErr.Fields, "email")
}

func TestRegister_RoleAllowList(t *testing.T) {
	t.Run("instructor allowed by default", func(t *testing.T) {
		f := newAuthFixture(t, testConfig())
		req := aliceRequest()
		req.Role = "instructor"

		user, err := f.svc.Register(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleInstructor, user.Role)
	})

	t.Run("instructor rejected when restricted", func(t *testing.T) {
		config := testConfig()
		config.Auth.RegisterRoles = []string{"student"}
		f := newAuthFixture(t, config)
		req := aliceRequest()
		req.Role = "instructor"

		_, err := f.svc.Register(context.Background(), req)
		requireKind(t, err, ErrInvalidInput)

		stored, err := f.repo.FindByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("unknown role", func(t *testing.T) {
		f := newAuthFixture(t, testConfig())
		req := aliceRequest()
		req.Role = "admin"

		_, err := f.svc.Register(context.Background(), req)
		requireKind(t, err, ErrInvalidInput)
	})
}

func TestRegister_Conflict(t *testing.T) {
	f := newAuthFixture(t, testConfig())
	ctx := context.Background()

	_, err := f.svc.Register(ctx, aliceRequest())
	require.NoError(t, err)

	sameEmail := aliceRequest()
	sameEmail.Username = "alice2"
	_, err = f.svc.Register(ctx, sameEmail)
	emailErr := requireKind(t, err, ErrConflict)

	sameUsername := aliceRequest()
	sameUsername.Email = "other@ex.com"
	_, err = f.svc.Register(ctx, sameUsername)
	usernameErr := requireKind(t, err, ErrConflict)

	assert.Equal(t, emailErr.Message, usernameErr.Message, "collision field must not be disclosed")
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t, testConfig())
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, aliceRequest())
	require.NoError(t, err)

	for _, identifier := range []string{"alice", "alice@ex.com", " alice "} {
		resp, err := f.svc.Login(ctx, &request.LoginRequest{EmailOrUsername: identifier, Password: "password1"})
		require.NoError(t, err, identifier)
		assert.Equal(t, registered.ID, resp.User.ID)
		assert.True(t, resp.ExpiresAt.Equal(f.now.Add(7*24*time.Hour)))

		claims, err := f.tokens.VerifySession(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, claims.SubjectID)
		assert.Equal(t, "student", claims.Role)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t, testConfig())
	ctx := context.Background()

	_, err := f.svc.Register(ctx, aliceRequest())
	require.NoError(t, err)

	_, wrongPassword := f.svc.Login(ctx, &request.LoginRequest{EmailOrUsername: "alice@ex.com", Password: "short"})
	_, unknownUser := f.svc.Login(ctx, &request.LoginRequest{EmailOrUsername: "nonexistent@x.com", Password: "whatever"})

	a := requireKind(t, wrongPassword, ErrInvalidCredentials)
	b := requireKind(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.Error(), b.Error())
}

func TestLogin_DisabledAccount(t *testing.T) {
	f := newAuthFixture(t, testConfig())
	ctx := context.Background()

	_, err := f.svc.Register(ctx, aliceRequest())
	require.NoError(t, err)

	stored, err := f.repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	stored.IsActive = false
	require.NoError(t, f.repo.Update(ctx, stored))

	_, err = f.svc.Login(ctx, &request.LoginRequest{EmailOrUsername: "alice", Password: "password1"})
	requireKind(t, err, ErrAccountDisabled)

	// The wrong password still reads as bad credentials.
	_, err = f.svc.Login(ctx, &request.LoginRequest{EmailOrUsername: "alice", Password: "password2"})
	requireKind(t, err, ErrInvalidCredentials)
}

func TestLogin_MissingFields(t *testing.T) {
	f := newAuthFixture(t, testConfig())

	_, err := f.svc.Login(context.Background(), &request.LoginRequest{EmailOrUsername: "  "})
	requireKind(t, err, ErrInvalidInput)
}

func resetTokenFromBody(t *testing.T, body string) string {
	t.Helper()
	const marker = "http://localhost:5173/resetpassword/"
	i := strings.Index(body, marker)
	require.GreaterOrEqual(t, i, 0, "reset link missing from %q", body)
	rest := body[i+len(marker):]
	if j := strings.IndexByte(rest, '\n'); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newAuthFixture(t, testConfig())
	ctx := context.Background()

	_, err := f.svc.Register(ctx, aliceRequest())
	require.NoError(t, err)

	var body string
	f.sender.On("Send", "alice@ex.com", "Reset your password", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { body = args.String(2) }).
		Return(nil).Once()

	require.NoError(t, f.svc.ForgotPassword(ctx, &request.ForgotPasswordRequest{Email: "alice@ex.com"}))
	f.sender.AssertExpectations(t)

	resetToken := resetTokenFromBody(t, body)
	require.NoError(t, f.svc.ResetPassword(ctx, &request.ResetPasswordRequest{Token: resetToken, Password: "newpassword1"}))

	_, err = f.svc.Login(ctx, &request.LoginRequest{EmailOrUsername: "alice", Password: "password1"})
	requireKind(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, &request.LoginRequest{EmailOrUsername: "alice", Password: "newpassword1"})
	require.NoError(t, err)

	// No revocation: the same reset token stays usable until it expires.
	require.NoError(t, f.svc.ResetPassword(ctx, &request.ResetPasswordRequest{Token: resetToken, Password: "thirdpassword"}))
}

func TestForgotPassword_UnknownEmailLooksTheSame(t *testing.T) {
	f := newAuthFixture(t, testConfig())

	err := f.svc.ForgotPassword(context.Background(), &request.ForgotPasswordRequest{Email: "ghost@ex.com"})
	assert.NoError(t, err)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestForgotPassword_SendFailureIsHidden(t *testing.T) {
	f := newAuthFixture(t, testConfig())
	ctx := context.Background()

	_, err := f.svc.Register(ctx, aliceRequest())
	require.NoError(t, err)

	f.sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

	assert.NoError(t, f.svc.ForgotPassword(ctx, &request.ForgotPasswordRequest{Email: "alice@ex.com"}))
	f.sender.AssertExpectations(t)
}

func TestForgotPassword_RequiresEmail(t *testing.T) {
	f := newAuthFixture(t, testConfig())

	err := f.svc.ForgotPassword(context.Background(), &request.ForgotPasswordRequest{Email: " "})
	requireKind(t, err, ErrInvalidInput)
}

func TestResetPassword_Rejections(t *testing.T) {
	f := newAuthFixture(t, testConfig())
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, aliceRequest())
	require.NoError(t, err)

	t.Run("short password checked first", func(t *testing.T) {
		err := f.svc.ResetPassword(ctx, &request.ResetPasswordRequest{Token: "garbage", Password: "short"})
		requireKind(t, err, ErrInvalidInput)
	})

	t.Run("session token is not a reset token", func(t *testing.T) {
		session, err := f.tokens.IssueSession(registered.ID, "student", time.Hour)
		require.NoError(t, err)

		err = f.svc.ResetPassword(ctx, &request.ResetPasswordRequest{Token: session, Password: "newpassword1"})
		requireKind(t, err, ErrInvalidOrExpiredToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		err := f.svc.ResetPassword(ctx, &request.ResetPasswordRequest{Token: "not.a.jwt", Password: "newpassword1"})
		requireKind(t, err, ErrInvalidOrExpiredToken)
	})

	t.Run("expired token", func(t *testing.T) {
		reset, err := f.tokens.IssueReset(registered.ID, time.Hour)
		require.NoError(t, err)

		issuedAt := f.now
		f.now = issuedAt.Add(time.Hour + time.Second)
		defer func() { f.now = issuedAt }()

		err = f.svc.ResetPassword(ctx, &request.ResetPasswordRequest{Token: reset, Password: "newpassword1"})
		requireKind(t, err, ErrInvalidOrExpiredToken)
	})

	t.Run("unknown subject", func(t *testing.T) {
		reset, err := f.tokens.IssueReset(uuid.NewString(), time.Hour)
		require.NoError(t, err)

		err = f.svc.ResetPassword(ctx, &request.ResetPasswordRequest{Token: reset, Password: "newpassword1"})
		requireKind(t, err, ErrUserNotFound)
	})
}

func TestError_Unwrap(t *testing.T) {
	err := fmt.Errorf("register: %w", newError(ErrConflict, "taken"))
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrInternal)
	assert.Equal(t, "conflict: taken", newError(ErrConflict, "taken").Error())
}
