package adaptor

import (
	"net/http"

	"course-platform/internal/dto/request"
	"course-platform/internal/usecase"
	"course-platform/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CourseHandler struct {
	service   usecase.CourseService
	maxUpload int64
	log       *zap.Logger
}

func NewCourseHandler(service usecase.CourseService, maxUpload int64, log *zap.Logger) *CourseHandler {
	return &CourseHandler{
		service:   service,
		maxUpload: maxUpload,
		log:       log.With(zap.String("handler", "course")),
	}
}

// CreateCourse handles POST /api/course. The body is JSON or a multipart form
// with an optional "thumbnail" file.
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CourseRequest
	var thumbnail *request.Upload

	if isMultipart(r) {
		upload, cleanup, ok := parseUploadForm(w, r, h.maxUpload, "thumbnail", "Thumbnail")
		defer cleanup()
		if !ok {
			return
		}
		req.Title = r.FormValue("title")
		req.Description = r.FormValue("description")
		thumbnail = upload
	} else if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.service.CreateCourse(r.Context(), userID, &req, thumbnail)
	if err != nil {
		writeServiceError(w, h.log, err, "create course")
		return
	}

	utils.ResponseCreated(w, "Course created", course)
}

// GetCourses handles GET /api/course?page=&per_page=
func (h *CourseHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	courses, err := h.service.ListCourses(r.Context(), user, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "list courses")
		return
	}

	utils.ResponseSuccess(w, "Courses retrieved", courses)
}

// GetCourse handles GET /api/course/{id}
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.service.GetCourse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get course")
		return
	}

	utils.ResponseSuccess(w, "Course retrieved", course)
}

// UpdateCourse handles PUT /api/course/{id} (owner only)
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CourseUpdateRequest
	var thumbnail *request.Upload

	if isMultipart(r) {
		upload, cleanup, ok := parseUploadForm(w, r, h.maxUpload, "thumbnail", "Thumbnail")
		defer cleanup()
		if !ok {
			return
		}
		req.Title = r.FormValue("title")
		req.Description = r.FormValue("description")
		thumbnail = upload
	} else if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.service.UpdateCourse(r.Context(), userID, chi.URLParam(r, "id"), &req, thumbnail)
	if err != nil {
		writeServiceError(w, h.log, err, "update course")
		return
	}

	utils.ResponseSuccess(w, "Course updated", course)
}

// DeleteCourse handles DELETE /api/course/{id} (owner only)
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeleteCourse(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "delete course")
		return
	}

	utils.ResponseSuccess(w, "Course deleted successfully", nil)
}
