package request

import "io"

// UpdateProfileRequest carries the editable profile fields. Empty strings
// leave the stored value unchanged.
type UpdateProfileRequest struct {
	Username    string `json:"username" validate:"max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"max=50"`
	Address     string `json:"address" validate:"max=500"`
}

// Upload is an uploaded image such as a profile picture or a course
// thumbnail. Type and size are checked by the services.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}
