package entity

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleInstructor UserRole = "instructor"
)

// IsValid reports whether r is one of the roles the users table accepts.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleInstructor:
		return true
	default:
		return false
	}
}

type User struct {
	Base
	Username       string   `db:"username"`
	Email          string   `db:"email"`
	PasswordHash   string   `db:"password"`
	Address        *string  `db:"address"`
	PhoneNumber    string   `db:"phone_number"`
	Role           UserRole `db:"role"`
	IsActive       bool     `db:"is_active"`
	IsVerified     bool     `db:"is_verified"`
	ProfilePicture *string  `db:"profile_picture"`
}
