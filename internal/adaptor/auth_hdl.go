package adaptor

import (
	"net/http"

	"course-platform/internal/dto/request"
	"course-platform/internal/usecase"
	"course-platform/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

// Register handles POST /api/user/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration successful", user)
}

// Login handles POST /api/user/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", resp)
}

// ForgotPassword handles POST /api/user/forgotpassword
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), &req); err != nil {
		writeServiceError(w, h.log, err, "forgot password")
		return
	}

	utils.ResponseSuccess(w, usecase.ForgotPasswordMessage, nil)
}

// ResetPassword handles POST /api/user/resetpassword
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		writeServiceError(w, h.log, err, "reset password")
		return
	}

	utils.ResponseSuccess(w, "Password has been reset", nil)
}
