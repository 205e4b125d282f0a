package repository

import (
	"context"
	"errors"
	"fmt"

	"course-platform/internal/data/entity"
	"course-platform/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type LessonRepository interface {
	Create(ctx context.Context, lesson *entity.Lesson) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Lesson, error)
	FindByCourseID(ctx context.Context, courseID uuid.UUID) ([]*entity.Lesson, error)
	Update(ctx context.Context, lesson *entity.Lesson) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCourseID(ctx context.Context, courseID uuid.UUID) error
}

type lessonRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewLessonRepository(db database.PgxIface, log *zap.Logger) LessonRepository {
	return &lessonRepository{
		db:  db,
		log: log.With(zap.String("repository", "lesson")),
	}
}

const lessonColumns = `id, course_id, title, content, created_at, updated_at`

func scanLesson(row pgx.Row) (*entity.Lesson, error) {
	var lesson entity.Lesson
	err := row.Scan(
		&lesson.ID,
		&lesson.CourseID,
		&lesson.Title,
		&lesson.Content,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepository) Create(ctx context.Context, lesson *entity.Lesson) error {
	query := `
		INSERT INTO lessons (id, course_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		lesson.ID,
		lesson.CourseID,
		lesson.Title,
		lesson.Content,
		lesson.CreatedAt,
		lesson.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create lesson",
			zap.Error(err),
			zap.String("course_id", lesson.CourseID.String()),
		)
		return fmt.Errorf("create lesson for course %s: %w", lesson.CourseID.String(), err)
	}
	return nil
}

func (r *lessonRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`

	lesson, err := scanLesson(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find lesson by ID", zap.Error(err), zap.String("lesson_id", id.String()))
		return nil, fmt.Errorf("find lesson %s: %w", id.String(), err)
	}
	return lesson, nil
}

// FindByCourseID returns the lessons of a course in the order they were added.
func (r *lessonRepository) FindByCourseID(ctx context.Context, courseID uuid.UUID) ([]*entity.Lesson, error) {
	query := `SELECT ` + lessonColumns + `
		FROM lessons
		WHERE course_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		r.log.Error("Failed to find lessons", zap.Error(err), zap.String("course_id", courseID.String()))
		return nil, fmt.Errorf("find lessons of course %s: %w", courseID.String(), err)
	}
	defer rows.Close()

	lessons := make([]*entity.Lesson, 0)
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			r.log.Error("Failed to scan lesson row", zap.Error(err))
			return nil, fmt.Errorf("scan lesson row: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate lesson rows: %w", err)
	}

	return lessons, nil
}

func (r *lessonRepository) Update(ctx context.Context, lesson *entity.Lesson) error {
	query := `
		UPDATE lessons
		SET title = $2, content = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, lesson.ID, lesson.Title, lesson.Content, lesson.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update lesson", zap.Error(err), zap.String("lesson_id", lesson.ID.String()))
		return fmt.Errorf("update lesson %s: %w", lesson.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update lesson %s: %w", lesson.ID.String(), ErrNotFound)
	}
	return nil
}

func (r *lessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete lesson", zap.Error(err), zap.String("lesson_id", id.String()))
		return fmt.Errorf("delete lesson %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete lesson %s: %w", id.String(), ErrNotFound)
	}
	return nil
}

func (r *lessonRepository) DeleteByCourseID(ctx context.Context, courseID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM lessons WHERE course_id = $1`, courseID); err != nil {
		r.log.Error("Failed to delete course lessons", zap.Error(err), zap.String("course_id", courseID.String()))
		return fmt.Errorf("delete lessons of course %s: %w", courseID.String(), err)
	}
	return nil
}
