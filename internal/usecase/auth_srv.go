package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"course-platform/internal/data/entity"
	"course-platform/internal/data/repository"
	"course-platform/internal/dto/request"
	"course-platform/internal/dto/response"
	"course-platform/pkg/notifier"
	"course-platform/pkg/token"
	"course-platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72

	ForgotPasswordMessage = "If this email exists, a reset link has been sent."

	resetMailTimeout = 30 * time.Second
)

// PasswordHasher hashes and checks passwords. utils.BcryptHasher satisfies it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hashed string) bool
}

// TokenManager issues session and reset tokens. *token.Manager satisfies it.
type TokenManager interface {
	IssueSession(subjectID, role string, ttl time.Duration) (string, error)
	IssueReset(subjectID string, ttl time.Duration) (string, error)
	VerifyReset(tokenString string) (*token.Claims, error)
	ExpiresAt(ttl time.Duration) time.Time
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
}

type authService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenManager
	sender   notifier.Sender
	config   *utils.Config
	log      *zap.Logger

	// dispatch runs the reset mail delivery; tests make it synchronous.
	dispatch func(func())

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenManager,
	sender notifier.Sender,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		sender:   sender,
		config:   config,
		log:      log.With(zap.String("component", "auth_service")),
		dispatch: func(fn func()) { go fn() },
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.Address != nil {
		address := strings.TrimSpace(*req.Address)
		req.Address = &address
		if address == "" {
			req.Address = nil
		}
	}

	// 1. Required fields, password rules, then formats. First failure wins.
	switch {
	case req.Username == "":
		return nil, invalidInput("Username is required")
	case req.Email == "":
		return nil, invalidInput("Email is required")
	case strings.TrimSpace(req.Password) == "":
		return nil, invalidInput("Password is required")
	case req.PhoneNumber == "":
		return nil, invalidInput("Phone number is required")
	}
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}
	if req.Password != req.ConfirmPassword {
		return nil, invalidInput("Passwords do not match")
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, invalidFields(errs)
	}

	// 2. Role
	role := entity.RoleStudent
	if req.Role != "" {
		role = entity.UserRole(req.Role)
	}
	if !s.roleAllowed(role) {
		s.log.Warn("Register with disallowed role",
			zap.String("role", string(role)), zap.String("email", req.Email))
		return nil, invalidInput(fmt.Sprintf("Role %q cannot be chosen at registration", role))
	}

	// 3. Uniqueness pre-check; the store constraint has the final word
	existing, err := s.userRepo.FindByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		s.log.Error("Failed to check existing user", zap.Error(err), zap.String("email", req.Email))
		return nil, internal()
	}
	if existing != nil {
		return nil, errAlreadyRegistered()
	}

	// 4. Hash password
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, internal()
	}

	// 5. Save
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		Role:         role,
		IsActive:     true,
		IsVerified:   false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, errAlreadyRegistered()
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, internal()
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	identifier := strings.TrimSpace(req.EmailOrUsername)
	if identifier == "" || req.Password == "" {
		return nil, invalidInput("Email/username and password are required")
	}

	// 1. Find by email or username
	user, err := s.userRepo.FindByEmailOrUsername(ctx, identifier, identifier)
	if err != nil {
		s.log.Error("Failed to find user for login", zap.Error(err))
		return nil, internal()
	}

	// 2. Check password. Unknown identifiers still pay for a comparison.
	if user == nil {
		s.hasher.Verify(req.Password, s.dummyPasswordHash())
		s.log.Warn("Login with unknown identifier")
		return nil, errBadCredentials()
	}
	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, errBadCredentials()
	}

	// 3. Check if user is active
	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, newError(ErrAccountDisabled, "Account is disabled")
	}

	// 4. Issue session token
	ttl := s.config.JWT.SessionTTL
	expiresAt := s.tokens.ExpiresAt(ttl).Truncate(time.Second)
	tokenString, err := s.tokens.IssueSession(user.ID.String(), string(user.Role), ttl)
	if err != nil {
		s.log.Error("Failed to issue session token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, internal()
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return &response.LoginResponse{
		Token:     tokenString,
		ExpiresAt: expiresAt,
		User:      response.UserToResponse(user),
	}, nil
}

// ForgotPassword answers the same way whether or not the email is known. The
// reset mail is delivered in the background.
func (s *authService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return invalidInput("Email is required")
	}
	if !utils.ValidateVar(email, "email") {
		return invalidInput("Invalid email format")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for password reset", zap.Error(err))
		return internal()
	}
	if user == nil {
		s.log.Info("Password reset requested for unknown email")
		return nil
	}

	resetToken, err := s.tokens.IssueReset(user.ID.String(), s.config.JWT.ResetTTL)
	if err != nil {
		s.log.Error("Failed to issue reset token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil
	}

	link := s.config.App.FrontendURL + "/resetpassword/" + resetToken
	body := fmt.Sprintf(
		"Hello %s,\n\nUse the link below to reset your password. It expires in %s.\n\n%s\n\nIf you did not ask for this, ignore this email.\n",
		user.Username, s.config.JWT.ResetTTL, link,
	)

	userID := user.ID.String()
	to := user.Email
	s.dispatch(func() {
		mailCtx, cancel := context.WithTimeout(context.Background(), resetMailTimeout)
		defer cancel()

		if err := s.sender.Send(mailCtx, to, "Reset your password", body); err != nil {
			s.log.Error("Failed to send reset email", zap.Error(err), zap.String("user_id", userID))
			return
		}
		s.log.Info("Reset email sent", zap.String("user_id", userID))
	})

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	// 1. Validate new password
	if err := checkPassword(req.Password); err != nil {
		return err
	}

	// 2. Verify token
	claims, err := s.tokens.VerifyReset(req.Token)
	if err != nil {
		s.log.Warn("Reset token rejected", zap.Error(err))
		return errBadResetToken()
	}
	id, err := uuid.Parse(claims.SubjectID)
	if err != nil {
		s.log.Warn("Reset token with malformed subject", zap.Error(err))
		return errBadResetToken()
	}

	// 3. Resolve subject
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find user for reset", zap.Error(err), zap.String("user_id", id.String()))
		return internal()
	}
	if user == nil {
		return newError(ErrUserNotFound, "User not found")
	}

	// 4. Hash and save
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return internal()
	}
	user.PasswordHash = hashed
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrUserNotFound, "User not found")
		}
		s.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return internal()
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) roleAllowed(role entity.UserRole) bool {
	if !role.IsValid() {
		return false
	}
	for _, allowed := range s.config.Auth.RegisterRoles {
		if allowed == string(role) {
			return true
		}
	}
	return false
}

func (s *authService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hashed, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.log.Error("Failed to build dummy hash", zap.Error(err))
			return
		}
		s.dummyHash = hashed
	})
	return s.dummyHash
}

func checkPassword(password string) *Error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return invalidInput(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		return invalidInput(fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}

func errAlreadyRegistered() *Error {
	return newError(ErrConflict, "Username or email is already registered")
}

func errBadCredentials() *Error {
	return newError(ErrInvalidCredentials, "Invalid email/username or password")
}

func errBadResetToken() *Error {
	return newError(ErrInvalidOrExpiredToken, "Invalid or expired token")
}
