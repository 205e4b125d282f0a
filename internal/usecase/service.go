package usecase

import (
	"course-platform/internal/data/repository"
	"course-platform/pkg/notifier"
	"course-platform/pkg/storage"
	"course-platform/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth   AuthService
	User   UserService
	Course CourseService
	Lesson LessonService
}

// Dependencies are the collaborators built at startup from configuration.
type Dependencies struct {
	Hasher  PasswordHasher
	Tokens  TokenManager
	Sender  notifier.Sender
	Storage storage.Storage
}

func NewService(repo *repository.Repository, deps Dependencies, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:   NewAuthService(repo.User, deps.Hasher, deps.Tokens, deps.Sender, config, log),
		User:   NewUserService(repo.User, deps.Storage, config, log),
		Course: NewCourseService(repo, deps.Storage, config, log),
		Lesson: NewLessonService(repo, log),
	}
}
