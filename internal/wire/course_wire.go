package wire

import (
	"course-platform/internal/adaptor"
	"course-platform/internal/data/entity"
	"course-platform/internal/data/repository"
	"course-platform/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireCourse mounts /api/course. Everyone signed in may read; only
// instructors may write, and the service limits writes to the owner.
func wireCourse(
	r chi.Router,
	courseHandler *adaptor.CourseHandler,
	repo *repository.Repository,
	deps Deps,
	log *zap.Logger,
) {
	r.Use(middleware.AuthGuard(deps.Tokens, repo.User, log))

	r.Get("/", courseHandler.GetCourses)
	r.Get("/{id}", courseHandler.GetCourse)

	// ==================== INSTRUCTOR ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(entity.RoleInstructor, log))

		r.Post("/", courseHandler.CreateCourse)
		r.Put("/{id}", courseHandler.UpdateCourse)
		r.Delete("/{id}", courseHandler.DeleteCourse)
	})
}
