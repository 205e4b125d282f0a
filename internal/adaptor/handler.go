package adaptor

import (
	"course-platform/internal/usecase"
	"course-platform/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth   *AuthHandler
	User   *UserHandler
	Course *CourseHandler
	Lesson *LessonHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(service.Auth, log),
		User:   NewUserHandler(service.User, config.Storage.MaxBytes, log),
		Course: NewCourseHandler(service.Course, config.Storage.MaxBytes, log),
		Lesson: NewLessonHandler(service.Lesson, log),
	}
}
