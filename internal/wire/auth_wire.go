package wire

import (
	"course-platform/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Post("/forgotpassword", authHandler.ForgotPassword)
	r.Post("/resetpassword", authHandler.ResetPassword)
}
