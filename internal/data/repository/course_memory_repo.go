package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"course-platform/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memoryCourseRepository struct {
	mu      sync.RWMutex
	courses map[uuid.UUID]entity.Course
	log     *zap.Logger
}

func NewMemoryCourseRepository(log *zap.Logger) CourseRepository {
	return &memoryCourseRepository{
		courses: make(map[uuid.UUID]entity.Course),
		log:     log.With(zap.String("repository", "course_memory")),
	}
}

func (r *memoryCourseRepository) Create(ctx context.Context, course *entity.Course) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.courses[course.ID]; exists {
		return fmt.Errorf("create course %s: %w", course.ID.String(), ErrDuplicateKey)
	}
	r.courses[course.ID] = cloneCourse(*course)
	return nil
}

func (r *memoryCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	course, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	clone := cloneCourse(course)
	return &clone, nil
}

func (r *memoryCourseRepository) FindAll(ctx context.Context, filter CourseFilter, limit, offset int) ([]*entity.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := r.matching(filter)
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.String() < matched[j].ID.String()
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return []*entity.Course{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *memoryCourseRepository) CountAll(ctx context.Context, filter CourseFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(len(r.matching(filter))), nil
}

func (r *memoryCourseRepository) Update(ctx context.Context, course *entity.Course) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.courses[course.ID]
	if !exists {
		return fmt.Errorf("update course %s: %w", course.ID.String(), ErrNotFound)
	}

	// instructor_id and created_at are not updatable
	stored.Title = course.Title
	stored.Description = course.Description
	stored.Thumbnail = course.Thumbnail
	stored.UpdatedAt = course.UpdatedAt
	r.courses[course.ID] = cloneCourse(stored)
	return nil
}

func (r *memoryCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.courses[id]; !exists {
		return fmt.Errorf("delete course %s: %w", id.String(), ErrNotFound)
	}
	delete(r.courses, id)
	return nil
}

func (r *memoryCourseRepository) matching(filter CourseFilter) []*entity.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*entity.Course, 0)
	for _, c := range r.courses {
		if filter.InstructorID != nil && c.InstructorID != *filter.InstructorID {
			continue
		}
		clone := cloneCourse(c)
		matched = append(matched, &clone)
	}
	return matched
}

func cloneCourse(c entity.Course) entity.Course {
	if c.Thumbnail != nil {
		thumbnail := *c.Thumbnail
		c.Thumbnail = &thumbnail
	}
	return c
}
