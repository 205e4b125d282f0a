package repository

import (
	"errors"

	"course-platform/pkg/database"

	"go.uber.org/zap"
)

var (
	// ErrDuplicateKey is returned when a write violates the unique username or
	// email constraint.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound is returned by updates and deletes that matched no row.
	ErrNotFound = errors.New("record not found")
)

type Repository struct {
	User   UserRepository
	Course CourseRepository
	Lesson LessonRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:   NewUserRepository(db, log),
		Course: NewCourseRepository(db, log),
		Lesson: NewLessonRepository(db, log),
	}
}

// NewMemoryRepository keeps everything in process memory. Data is lost on
// restart; used for local runs without Postgres and in tests.
func NewMemoryRepository(log *zap.Logger) *Repository {
	return &Repository{
		User:   NewMemoryUserRepository(log),
		Course: NewMemoryCourseRepository(log),
		Lesson: NewMemoryLessonRepository(log),
	}
}
