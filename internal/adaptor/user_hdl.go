package adaptor

import (
	"net/http"

	"course-platform/internal/dto/request"
	"course-platform/internal/usecase"
	"course-platform/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	service   usecase.UserService
	maxUpload int64
	log       *zap.Logger
}

func NewUserHandler(service usecase.UserService, maxUpload int64, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service:   service,
		maxUpload: maxUpload,
		log:       log,
	}
}

// GetProfile handles GET /api/user/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved", profile)
}

// UpdateProfile handles PUT /api/user/profile. The body is either JSON or a
// multipart form with an optional "profilePicture" file.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateProfileRequest
	var picture *request.Upload

	if isMultipart(r) {
		upload, cleanup, ok := parseUploadForm(w, r, h.maxUpload, "profilePicture", "Profile picture")
		defer cleanup()
		if !ok {
			return
		}
		req.Username = r.FormValue("username")
		req.PhoneNumber = r.FormValue("phoneNumber")
		req.Address = r.FormValue("address")
		picture = upload
	} else if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req, picture)
	if err != nil {
		writeServiceError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated", profile)
}

// GetStudents handles GET /api/user/students?page=&per_page=
func (h *UserHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	students, err := h.service.ListStudents(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "list students")
		return
	}

	utils.ResponseSuccess(w, "Students retrieved", students)
}
