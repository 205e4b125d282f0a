package adaptor

import (
	"net/http"

	"course-platform/internal/dto/request"
	"course-platform/internal/usecase"
	"course-platform/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LessonHandler struct {
	service usecase.LessonService
	log     *zap.Logger
}

func NewLessonHandler(service usecase.LessonService, log *zap.Logger) *LessonHandler {
	return &LessonHandler{
		service: service,
		log:     log.With(zap.String("handler", "lesson")),
	}
}

// CreateLesson handles POST /api/lesson
func (h *LessonHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.LessonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lesson, err := h.service.CreateLesson(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create lesson")
		return
	}

	utils.ResponseCreated(w, "Lesson created", lesson)
}

// GetLessons handles GET /api/lesson/{id}, where id names the course.
func (h *LessonHandler) GetLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.service.ListLessons(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "list lessons")
		return
	}

	utils.ResponseSuccess(w, "Lessons retrieved", lessons)
}

// UpdateLesson handles PUT /api/lesson/{id}
func (h *LessonHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.LessonUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lesson, err := h.service.UpdateLesson(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update lesson")
		return
	}

	utils.ResponseSuccess(w, "Lesson updated", lesson)
}

// DeleteLesson handles DELETE /api/lesson/{id}
func (h *LessonHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeleteLesson(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "delete lesson")
		return
	}

	utils.ResponseSuccess(w, "Lesson deleted successfully", nil)
}
