package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"course-platform/internal/data/entity"
	"course-platform/internal/data/repository"
	"course-platform/internal/dto/request"
	"course-platform/internal/dto/response"
	"course-platform/pkg/storage"
	"course-platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest, picture *request.Upload) (*response.UserResponse, error)
	ListStudents(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
}

type userService struct {
	userRepo repository.UserRepository
	storage  storage.Storage
	maxBytes int64
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, store storage.Storage, config *utils.Config, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		storage:  store,
		maxBytes: config.Storage.MaxBytes,
		log:      log.With(zap.String("component", "user_service")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// UpdateProfile replaces the non-empty fields of req and, when picture is
// set, stores it and points profilePicture at it.
func (us *userService) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	req *request.UpdateProfileRequest,
	picture *request.Upload,
) (*response.UserResponse, error) {
	// 1. Validate
	req.Username = strings.TrimSpace(req.Username)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Address = strings.TrimSpace(req.Address)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		us.log.Warn("Update profile validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, invalidFields(errs)
	}

	var contentType string
	if picture != nil {
		var err *Error
		if contentType, err = checkImage(picture, us.maxBytes, "Profile picture"); err != nil {
			return nil, err
		}
	}

	// 2. Load current user
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 3. Username must stay unique
	if req.Username != "" && req.Username != user.Username {
		taken, err := us.userRepo.FindByUsername(ctx, req.Username)
		if err != nil {
			us.log.Error("Failed to check username", zap.Error(err), zap.String("user_id", userID.String()))
			return nil, internal()
		}
		if taken != nil {
			return nil, errUsernameTaken()
		}
		user.Username = req.Username
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Address != "" {
		address := req.Address
		user.Address = &address
	}

	// 4. Store picture
	previous := user.ProfilePicture
	var stored string
	if picture != nil {
		url, err := storeImage(ctx, us.storage, "profile-", picture, contentType)
		if err != nil {
			us.log.Error("Failed to store profile picture", zap.Error(err), zap.String("user_id", userID.String()))
			return nil, internal()
		}
		stored = url
		user.ProfilePicture = &url
	}

	// 5. Save, dropping the new file if the row was not written
	user.UpdatedAt = time.Now()
	if err := us.userRepo.Update(ctx, user); err != nil {
		discardImage(ctx, us.storage, us.log, stored)
		switch {
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, errUsernameTaken()
		case errors.Is(err, repository.ErrNotFound):
			return nil, newError(ErrUserNotFound, "User not found")
		}
		us.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, internal()
	}

	if stored != "" && previous != nil {
		discardImage(ctx, us.storage, us.log, *previous)
	}

	us.log.Info("Profile updated", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) ListStudents(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	req.Normalize()

	users, err := us.userRepo.FindAllByRole(ctx, entity.RoleStudent, req.Limit(), req.Offset())
	if err != nil {
		us.log.Error("Failed to list students", zap.Error(err), zap.Int("page", req.Page))
		return nil, internal()
	}

	total, err := us.userRepo.CountByRole(ctx, entity.RoleStudent)
	if err != nil {
		us.log.Error("Failed to count students", zap.Error(err))
		return nil, internal()
	}

	students := make([]response.UserResponse, len(users))
	for i, user := range users {
		students[i] = response.UserToResponse(user)
	}

	totalPages := utils.CalculateTotalPages(total, req.PerPage)

	us.log.Debug("Students retrieved",
		zap.Int("count", len(users)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
		zap.Int("per_page", req.PerPage),
	)

	return response.NewPaginatedResponse(students, req.Page, req.PerPage, total, totalPages), nil
}

func (us *userService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, internal()
	}
	if user == nil {
		return nil, newError(ErrUserNotFound, "User not found")
	}
	return user, nil
}

func errUsernameTaken() *Error {
	return newError(ErrConflict, "Username is already taken")
}
