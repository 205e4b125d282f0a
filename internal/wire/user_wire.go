package wire

import (
	"course-platform/internal/adaptor"
	"course-platform/internal/data/entity"
	"course-platform/internal/data/repository"
	"course-platform/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures profile routes and the instructor-only student list.
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	deps Deps,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		// ==================== PROTECTED ROUTES ====================
		r.Use(middleware.AuthGuard(deps.Tokens, repo.User, log))

		r.Get("/profile", userHandler.GetProfile)
		r.Put("/profile", userHandler.UpdateProfile)

		// ==================== INSTRUCTOR ROUTES ====================
		r.With(middleware.RequireRole(entity.RoleInstructor, log)).Get("/students", userHandler.GetStudents)
	})
}
