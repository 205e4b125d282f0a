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
	"course-platform/pkg/storage"
	"course-platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CourseService interface {
	CreateCourse(ctx context.Context, instructorID uuid.UUID, req *request.CourseRequest, thumbnail *request.Upload) (*response.CourseResponse, error)
	ListCourses(ctx context.Context, viewer *entity.User, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CourseResponse], error)
	GetCourse(ctx context.Context, courseID string) (*response.CourseResponse, error)
	UpdateCourse(ctx context.Context, actorID uuid.UUID, courseID string, req *request.CourseUpdateRequest, thumbnail *request.Upload) (*response.CourseResponse, error)
	DeleteCourse(ctx context.Context, actorID uuid.UUID, courseID string) error
}

type courseService struct {
	repo     *repository.Repository
	storage  storage.Storage
	maxBytes int64
	log      *zap.Logger
}

func NewCourseService(repo *repository.Repository, store storage.Storage, config *utils.Config, log *zap.Logger) CourseService {
	return &courseService{
		repo:     repo,
		storage:  store,
		maxBytes: config.Storage.MaxBytes,
		log:      log.With(zap.String("service", "course")),
	}
}

func (s *courseService) CreateCourse(
	ctx context.Context,
	instructorID uuid.UUID,
	req *request.CourseRequest,
	thumbnail *request.Upload,
) (*response.CourseResponse, error) {
	// 1. Validate
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create course validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, invalidFields(errs)
	}

	var contentType string
	if thumbnail != nil {
		var err *Error
		if contentType, err = checkImage(thumbnail, s.maxBytes, "Thumbnail"); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	course := &entity.Course{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: instructorID,
	}

	// 2. Store thumbnail
	if thumbnail != nil {
		url, err := storeImage(ctx, s.storage, "course-", thumbnail, contentType)
		if err != nil {
			s.log.Error("Failed to store thumbnail", zap.Error(err), zap.String("instructor_id", instructorID.String()))
			return nil, internal()
		}
		course.Thumbnail = &url
	}

	// 3. Save
	if err := s.repo.Course.Create(ctx, course); err != nil {
		if course.Thumbnail != nil {
			discardImage(ctx, s.storage, s.log, *course.Thumbnail)
		}
		s.log.Error("Failed to create course", zap.Error(err), zap.String("instructor_id", instructorID.String()))
		return nil, internal()
	}

	s.log.Info("Course created",
		zap.String("course_id", course.ID.String()),
		zap.String("instructor_id", instructorID.String()),
	)

	resp := response.CourseToResponse(course)
	return &resp, nil
}

// ListCourses shows instructors the courses they own and everyone else the
// whole catalogue.
func (s *courseService) ListCourses(
	ctx context.Context,
	viewer *entity.User,
	req *request.PaginatedRequest,
) (*response.PaginatedResponse[response.CourseResponse], error) {
	req.Normalize()

	var filter repository.CourseFilter
	if viewer.Role == entity.RoleInstructor {
		filter.InstructorID = &viewer.ID
	}

	courses, err := s.repo.Course.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list courses", zap.Error(err), zap.Int("page", req.Page))
		return nil, internal()
	}

	total, err := s.repo.Course.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count courses", zap.Error(err))
		return nil, internal()
	}

	data := make([]response.CourseResponse, len(courses))
	for i, course := range courses {
		data[i] = response.CourseToResponse(course)
	}

	s.log.Debug("Courses retrieved",
		zap.Int("count", len(courses)),
		zap.Int64("total", total),
		zap.String("viewer_role", string(viewer.Role)),
	)

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total, utils.CalculateTotalPages(total, req.PerPage)), nil
}

func (s *courseService) GetCourse(ctx context.Context, courseID string) (*response.CourseResponse, error) {
	id, err := parseID(courseID, "course")
	if err != nil {
		return nil, err
	}

	course, err := findCourse(ctx, s.repo.Course, s.log, id)
	if err != nil {
		return nil, err
	}

	resp := response.CourseToResponse(course)
	return &resp, nil
}

func (s *courseService) UpdateCourse(
	ctx context.Context,
	actorID uuid.UUID,
	courseID string,
	req *request.CourseUpdateRequest,
	thumbnail *request.Upload,
) (*response.CourseResponse, error) {
	// 1. Validate
	id, err := parseID(courseID, "course")
	if err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update course validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, invalidFields(errs)
	}

	var contentType string
	if thumbnail != nil {
		var svcErr *Error
		if contentType, svcErr = checkImage(thumbnail, s.maxBytes, "Thumbnail"); svcErr != nil {
			return nil, svcErr
		}
	}

	// 2. Only the owner may edit
	course, err := ownedCourse(ctx, s.repo.Course, s.log, actorID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		course.Title = req.Title
	}
	if req.Description != "" {
		course.Description = req.Description
	}

	// 3. Replace thumbnail
	previous := course.Thumbnail
	var stored string
	if thumbnail != nil {
		url, err := storeImage(ctx, s.storage, "course-", thumbnail, contentType)
		if err != nil {
			s.log.Error("Failed to store thumbnail", zap.Error(err), zap.String("course_id", courseID))
			return nil, internal()
		}
		stored = url
		course.Thumbnail = &url
	}

	// 4. Save
	course.UpdatedAt = time.Now()
	if err := s.repo.Course.Update(ctx, course); err != nil {
		discardImage(ctx, s.storage, s.log, stored)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errCourseNotFound()
		}
		s.log.Error("Failed to update course", zap.Error(err), zap.String("course_id", courseID))
		return nil, internal()
	}

	if stored != "" && previous != nil {
		discardImage(ctx, s.storage, s.log, *previous)
	}

	s.log.Info("Course updated", zap.String("course_id", courseID))

	resp := response.CourseToResponse(course)
	return &resp, nil
}

// DeleteCourse removes the course, its lessons and its thumbnail.
func (s *courseService) DeleteCourse(ctx context.Context, actorID uuid.UUID, courseID string) error {
	id, err := parseID(courseID, "course")
	if err != nil {
		return err
	}

	course, err := ownedCourse(ctx, s.repo.Course, s.log, actorID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Lesson.DeleteByCourseID(ctx, id); err != nil {
		s.log.Error("Failed to delete course lessons", zap.Error(err), zap.String("course_id", courseID))
		return internal()
	}

	if err := s.repo.Course.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errCourseNotFound()
		}
		s.log.Error("Failed to delete course", zap.Error(err), zap.String("course_id", courseID))
		return internal()
	}

	if course.Thumbnail != nil {
		discardImage(ctx, s.storage, s.log, *course.Thumbnail)
	}

	s.log.Info("Course deleted", zap.String("course_id", courseID), zap.String("instructor_id", actorID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

func parseID(value, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, invalidInput("Invalid " + what + " id")
	}
	return id, nil
}

func findCourse(ctx context.Context, courses repository.CourseRepository, log *zap.Logger, id uuid.UUID) (*entity.Course, error) {
	course, err := courses.FindByID(ctx, id)
	if err != nil {
		log.Error("Failed to find course", zap.Error(err), zap.String("course_id", id.String()))
		return nil, internal()
	}
	if course == nil {
		return nil, errCourseNotFound()
	}
	return course, nil
}

// ownedCourse loads the course and fails Forbidden unless actorID created it.
func ownedCourse(ctx context.Context, courses repository.CourseRepository, log *zap.Logger, actorID, id uuid.UUID) (*entity.Course, error) {
	course, err := findCourse(ctx, courses, log, id)
	if err != nil {
		return nil, err
	}
	if !course.OwnedBy(actorID) {
		log.Warn("Course access by non-owner",
			zap.String("course_id", id.String()),
			zap.String("user_id", actorID.String()),
		)
		return nil, newError(ErrForbidden, "Not authorized")
	}
	return course, nil
}

func errCourseNotFound() *Error {
	return newError(ErrNotFound, "Course not found")
}
