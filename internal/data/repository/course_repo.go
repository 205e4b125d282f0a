package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"course-platform/internal/data/entity"
	"course-platform/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CourseFilter narrows course listings. A nil InstructorID lists every course.
type CourseFilter struct {
	InstructorID *uuid.UUID
}

type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Course, error)
	FindAll(ctx context.Context, filter CourseFilter, limit, offset int) ([]*entity.Course, error)
	CountAll(ctx context.Context, filter CourseFilter) (int64, error)
	Update(ctx context.Context, course *entity.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type courseRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCourseRepository(db database.PgxIface, log *zap.Logger) CourseRepository {
	return &courseRepository{
		db:  db,
		log: log.With(zap.String("repository", "course")),
	}
}

const courseColumns = `id, title, description, thumbnail, instructor_id, created_at, updated_at`

func scanCourse(row pgx.Row) (*entity.Course, error) {
	var course entity.Course
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Thumbnail,
		&course.InstructorID,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *entity.Course) error {
	query := `
		INSERT INTO courses (id, title, description, thumbnail, instructor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Thumbnail,
		course.InstructorID,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create course",
			zap.Error(err),
			zap.String("title", course.Title),
			zap.String("instructor_id", course.InstructorID.String()),
		)
		return fmt.Errorf("create course %s: %w", course.ID.String(), err)
	}

	return nil
}

func (r *courseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	course, err := scanCourse(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find course by ID", zap.Error(err), zap.String("course_id", id.String()))
		return nil, fmt.Errorf("find course %s: %w", id.String(), err)
	}
	return course, nil
}

// where builds the WHERE clause for filter, numbering placeholders from 1.
func (f CourseFilter) where() (string, []any) {
	if f.InstructorID == nil {
		return "", nil
	}
	return " WHERE instructor_id = $1", []any{*f.InstructorID}
}

// FindAll retrieves a page of courses, newest first.
func (r *courseRepository) FindAll(ctx context.Context, filter CourseFilter, limit, offset int) ([]*entity.Course, error) {
	where, args := filter.where()

	var query strings.Builder
	query.WriteString(`SELECT ` + courseColumns + ` FROM courses`)
	query.WriteString(where)
	query.WriteString(fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query.String(), args...)
	if err != nil {
		r.log.Error("Failed to find courses",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find courses limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	courses := make([]*entity.Course, 0, limit)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			r.log.Error("Failed to scan course row", zap.Error(err))
			return nil, fmt.Errorf("scan course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate course rows: %w", err)
	}

	return courses, nil
}

func (r *courseRepository) CountAll(ctx context.Context, filter CourseFilter) (int64, error) {
	where, args := filter.where()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`+where, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count courses", zap.Error(err))
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return total, nil
}

func (r *courseRepository) Update(ctx context.Context, course *entity.Course) error {
	query := `
		UPDATE courses
		SET title = $2, description = $3, thumbnail = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Thumbnail,
		course.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update course", zap.Error(err), zap.String("course_id", course.ID.String()))
		return fmt.Errorf("update course %s: %w", course.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update course %s: %w", course.ID.String(), ErrNotFound)
	}
	return nil
}

// Delete removes the course. Its lessons go with it through ON DELETE CASCADE.
func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete course", zap.Error(err), zap.String("course_id", id.String()))
		return fmt.Errorf("delete course %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete course %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Course deleted", zap.String("course_id", id.String()))
	return nil
}
