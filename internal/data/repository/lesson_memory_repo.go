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

type memoryLessonRepository struct {
	mu      sync.RWMutex
	lessons map[uuid.UUID]entity.Lesson
	log     *zap.Logger
}

func NewMemoryLessonRepository(log *zap.Logger) LessonRepository {
	return &memoryLessonRepository{
		lessons: make(map[uuid.UUID]entity.Lesson),
		log:     log.With(zap.String("repository", "lesson_memory")),
	}
}

func (r *memoryLessonRepository) Create(ctx context.Context, lesson *entity.Lesson) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.lessons[lesson.ID]; exists {
		return fmt.Errorf("create lesson %s: %w", lesson.ID.String(), ErrDuplicateKey)
	}
	r.lessons[lesson.ID] = *lesson
	return nil
}

func (r *memoryLessonRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Lesson, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	lesson, ok := r.lessons[id]
	if !ok {
		return nil, nil
	}
	return &lesson, nil
}

func (r *memoryLessonRepository) FindByCourseID(ctx context.Context, courseID uuid.UUID) ([]*entity.Lesson, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	lessons := make([]*entity.Lesson, 0)
	for _, l := range r.lessons {
		if l.CourseID == courseID {
			lesson := l
			lessons = append(lessons, &lesson)
		}
	}
	r.mu.RUnlock()

	sort.Slice(lessons, func(i, j int) bool {
		if lessons[i].CreatedAt.Equal(lessons[j].CreatedAt) {
			return lessons[i].ID.String() < lessons[j].ID.String()
		}
		return lessons[i].CreatedAt.Before(lessons[j].CreatedAt)
	})
	return lessons, nil
}

func (r *memoryLessonRepository) Update(ctx context.Context, lesson *entity.Lesson) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.lessons[lesson.ID]
	if !exists {
		return fmt.Errorf("update lesson %s: %w", lesson.ID.String(), ErrNotFound)
	}

	stored.Title = lesson.Title
	stored.Content = lesson.Content
	stored.UpdatedAt = lesson.UpdatedAt
	r.lessons[lesson.ID] = stored
	return nil
}

func (r *memoryLessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.lessons[id]; !exists {
		return fmt.Errorf("delete lesson %s: %w", id.String(), ErrNotFound)
	}
	delete(r.lessons, id)
	return nil
}

func (r *memoryLessonRepository) DeleteByCourseID(ctx context.Context, courseID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, l := range r.lessons {
		if l.CourseID == courseID {
			delete(r.lessons, id)
		}
	}
	return nil
}
