package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"course-platform/internal/data/entity"
	"course-platform/internal/data/repository"
	"course-platform/internal/dto/request"
	"course-platform/internal/dto/response"
	"course-platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LessonService interface {
	CreateLesson(ctx context.Context, actorID uuid.UUID, req *request.LessonRequest) (*response.LessonResponse, error)
	ListLessons(ctx context.Context, courseID string) ([]response.LessonResponse, error)
	UpdateLesson(ctx context.Context, actorID uuid.UUID, lessonID string, req *request.LessonUpdateRequest) (*response.LessonResponse, error)
	DeleteLesson(ctx context.Context, actorID uuid.UUID, lessonID string) error
}

type lessonService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewLessonService(repo *repository.Repository, log *zap.Logger) LessonService {
	return &lessonService{
		repo: repo,
		log:  log.With(zap.String("service", "lesson")),
	}
}

// CreateLesson adds a lesson to a course the actor owns.
func (s *lessonService) CreateLesson(ctx context.Context, actorID uuid.UUID, req *request.LessonRequest) (*response.LessonResponse, error) {
	req.CourseID = strings.TrimSpace(req.CourseID)
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create lesson validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, invalidFields(errs)
	}

	courseID, err := parseID(req.CourseID, "course")
	if err != nil {
		return nil, err
	}
	course, err := ownedCourse(ctx, s.repo.Course, s.log, actorID, courseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	lesson := &entity.Lesson{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CourseID: course.ID,
		Title:    req.Title,
		Content:  req.Content,
	}

	if err := s.repo.Lesson.Create(ctx, lesson); err != nil {
		s.log.Error("Failed to create lesson", zap.Error(err), zap.String("course_id", course.ID.String()))
		return nil, internal()
	}

	s.log.Info("Lesson created",
		zap.String("lesson_id", lesson.ID.String()),
		zap.String("course_id", course.ID.String()),
	)

	resp := response.LessonToResponse(lesson)
	return &resp, nil
}

func (s *lessonService) ListLessons(ctx context.Context, courseID string) ([]response.LessonResponse, error) {
	id, err := parseID(courseID, "course")
	if err != nil {
		return nil, err
	}

	if _, err := findCourse(ctx, s.repo.Course, s.log, id); err != nil {
		return nil, err
	}

	lessons, err := s.repo.Lesson.FindByCourseID(ctx, id)
	if err != nil {
		s.log.Error("Failed to list lessons", zap.Error(err), zap.String("course_id", courseID))
		return nil, internal()
	}

	data := make([]response.LessonResponse, len(lessons))
	for i, lesson := range lessons {
		data[i] = response.LessonToResponse(lesson)
	}
	return data, nil
}

func (s *lessonService) UpdateLesson(
	ctx context.Context,
	actorID uuid.UUID,
	lessonID string,
	req *request.LessonUpdateRequest,
) (*response.LessonResponse, error) {
	id, err := parseID(lessonID, "lesson")
	if err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update lesson validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, invalidFields(errs)
	}

	lesson, err := s.ownedLesson(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		lesson.Title = req.Title
	}
	if req.Content != "" {
		lesson.Content = req.Content
	}
	lesson.UpdatedAt = time.Now()

	if err := s.repo.Lesson.Update(ctx, lesson); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errLessonNotFound()
		}
		s.log.Error("Failed to update lesson", zap.Error(err), zap.String("lesson_id", lessonID))
		return nil, internal()
	}

	s.log.Info("Lesson updated", zap.String("lesson_id", lessonID))

	resp := response.LessonToResponse(lesson)
	return &resp, nil
}

func (s *lessonService) DeleteLesson(ctx context.Context, actorID uuid.UUID, lessonID string) error {
	id, err := parseID(lessonID, "lesson")
	if err != nil {
		return err
	}

	if _, err := s.ownedLesson(ctx, actorID, id); err != nil {
		return err
	}

	if err := s.repo.Lesson.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errLessonNotFound()
		}
		s.log.Error("Failed to delete lesson", zap.Error(err), zap.String("lesson_id", lessonID))
		return internal()
	}

	s.log.Info("Lesson deleted", zap.String("lesson_id", lessonID))
	return nil
}

// ownedLesson loads the lesson and checks that actorID owns its course.
func (s *lessonService) ownedLesson(ctx context.Context, actorID, id uuid.UUID) (*entity.Lesson, error) {
	lesson, err := s.repo.Lesson.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find lesson", zap.Error(err), zap.String("lesson_id", id.String()))
		return nil, internal()
	}
	if lesson == nil {
		return nil, errLessonNotFound()
	}

	if _, err := ownedCourse(ctx, s.repo.Course, s.log, actorID, lesson.CourseID); err != nil {
		return nil, err
	}
	return lesson, nil
}

func errLessonNotFound() *Error {
	return newError(ErrNotFound, "Lesson not found")
}
