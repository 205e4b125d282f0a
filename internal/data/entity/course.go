package entity

import (
	"github.com/google/uuid"
)

type Course struct {
	Base
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Thumbnail    *string   `db:"thumbnail"`
	InstructorID uuid.UUID `db:"instructor_id"`
}

// OwnedBy reports whether userID is the instructor who created the course.
func (c *Course) OwnedBy(userID uuid.UUID) bool {
	return c.InstructorID == userID
}

type Lesson struct {
	Base
	CourseID uuid.UUID `db:"course_id"`
	Title    string    `db:"title"`
	Content  string    `db:"content"`
}
