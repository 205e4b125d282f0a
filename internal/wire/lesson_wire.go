package wire

import (
	"course-platform/internal/adaptor"
	"course-platform/internal/data/entity"
	"course-platform/internal/data/repository"
	"course-platform/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireLesson(
	r chi.Router,
	lessonHandler *adaptor.LessonHandler,
	repo *repository.Repository,
	deps Deps,
	log *zap.Logger,
) {
	r.Use(middleware.AuthGuard(deps.Tokens, repo.User, log))

	// GET /api/lesson/{id} lists the lessons of course {id}
	r.Get("/{id}", lessonHandler.GetLessons)

	// ==================== INSTRUCTOR ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(entity.RoleInstructor, log))

		r.Post("/", lessonHandler.CreateLesson)
		r.Put("/{id}", lessonHandler.UpdateLesson)
		r.Delete("/{id}", lessonHandler.DeleteLesson)
	})
}
