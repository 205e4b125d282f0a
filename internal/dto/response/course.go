package response

import (
	"time"

	"course-platform/internal/data/entity"
)

type CourseResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Thumbnail    *string   `json:"thumbnail,omitempty"`
	InstructorID string    `json:"instructorId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func CourseToResponse(course *entity.Course) CourseResponse {
	return CourseResponse{
		ID:           course.ID.String(),
		Title:        course.Title,
		Description:  course.Description,
		Thumbnail:    course.Thumbnail,
		InstructorID: course.InstructorID.String(),
		CreatedAt:    course.CreatedAt,
		UpdatedAt:    course.UpdatedAt,
	}
}

type LessonResponse struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func LessonToResponse(lesson *entity.Lesson) LessonResponse {
	return LessonResponse{
		ID:        lesson.ID.String(),
		CourseID:  lesson.CourseID.String(),
		Title:     lesson.Title,
		Content:   lesson.Content,
		CreatedAt: lesson.CreatedAt,
		UpdatedAt: lesson.UpdatedAt,
	}
}
