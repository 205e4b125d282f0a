package request

// RegisterRequest is the body of POST /register. Presence and password rules
// are checked by the auth service in a fixed order; the tags only cover format
// and length.
type RegisterRequest struct {
	Username        string  `json:"username" validate:"max=100"`
	Email           string  `json:"email" validate:"omitempty,email,max=255"`
	Password        string  `json:"password" validate:"max=72"`
	ConfirmPassword string  `json:"confirmPassword"`
	Address         *string `json:"address,omitempty" validate:"omitempty,max=500"`
	PhoneNumber     string  `json:"phoneNumber" validate:"max=50"`
	Role            string  `json:"role,omitempty" validate:"omitempty,oneof=student instructor"`
}

type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password" validate:"max=72"`
}
