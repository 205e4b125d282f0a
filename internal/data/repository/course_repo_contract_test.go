package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"course-platform/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCourse(instructorID uuid.UUID, title string, createdAt time.Time) *entity.Course {
	return &entity.Course{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: createdAt, UpdatedAt: createdAt},
		Title:        title,
		Description:  title + " description",
		InstructorID: instructorID,
	}
}

func newTestLesson(courseID uuid.UUID, title string, createdAt time.Time) *entity.Lesson {
	return &entity.Lesson{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: createdAt, UpdatedAt: createdAt},
		CourseID: courseID,
		Title:    title,
		Content:  title + " content",
	}
}

// testCourseRepository runs the behaviour the course and lesson stores share.
// Instructors are created first so Postgres foreign keys hold.
func testCourseRepository(t *testing.T, newRepos func(t *testing.T) *Repository) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	instructor := func(t *testing.T, repo *Repository, name string) uuid.UUID {
		t.Helper()
		u := newTestUser(name, name+"@ex.com", entity.RoleInstructor, base)
		require.NoError(t, repo.User.Create(ctx, u))
		return u.ID
	}

	t.Run("create find update", func(t *testing.T) {
		repo := newRepos(t)
		bob := instructor(t, repo, "bob")

		course := newTestCourse(bob, "Go", base)
		require.NoError(t, repo.Course.Create(ctx, course))

		got, err := repo.Course.FindByID(ctx, course.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Go", got.Title)
		assert.Equal(t, bob, got.InstructorID)
		assert.Nil(t, got.Thumbnail)

		thumb := "/uploads/course-1.png"
		got.Title = "Go 101"
		got.Thumbnail = &thumb
		got.UpdatedAt = base.Add(time.Hour)
		require.NoError(t, repo.Course.Update(ctx, got))

		again, err := repo.Course.FindByID(ctx, course.ID)
		require.NoError(t, err)
		assert.Equal(t, "Go 101", again.Title)
		require.NotNil(t, again.Thumbnail)
		assert.Equal(t, thumb, *again.Thumbnail)

		missing, err := repo.Course.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)

		assert.ErrorIs(t, repo.Course.Update(ctx, newTestCourse(bob, "ghost", base)), ErrNotFound)
		assert.ErrorIs(t, repo.Course.Delete(ctx, uuid.New()), ErrNotFound)
	})

	t.Run("list by instructor", func(t *testing.T) {
		repo := newRepos(t)
		bob := instructor(t, repo, "bob")
		carol := instructor(t, repo, "carol")

		for i := 0; i < 3; i++ {
			require.NoError(t, repo.Course.Create(ctx, newTestCourse(bob, fmt.Sprintf("bob%d", i), base.Add(time.Duration(i)*time.Minute))))
		}
		require.NoError(t, repo.Course.Create(ctx, newTestCourse(carol, "carol0", base)))

		all, err := repo.Course.CountAll(ctx, CourseFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), all)

		owned, err := repo.Course.CountAll(ctx, CourseFilter{InstructorID: &bob})
		require.NoError(t, err)
		assert.Equal(t, int64(3), owned)

		page, err := repo.Course.FindAll(ctx, CourseFilter{InstructorID: &bob}, 2, 0)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "bob2", page[0].Title, "newest first")
		assert.Equal(t, "bob1", page[1].Title)

		page, err = repo.Course.FindAll(ctx, CourseFilter{InstructorID: &carol}, 10, 0)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "carol0", page[0].Title)

		page, err = repo.Course.FindAll(ctx, CourseFilter{}, 10, 10)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("lessons", func(t *testing.T) {
		repo := newRepos(t)
		bob := instructor(t, repo, "bob")
		course := newTestCourse(bob, "Go", base)
		other := newTestCourse(bob, "Rust", base)
		require.NoError(t, repo.Course.Create(ctx, course))
		require.NoError(t, repo.Course.Create(ctx, other))

		second := newTestLesson(course.ID, "second", base.Add(time.Minute))
		first := newTestLesson(course.ID, "first", base)
		require.NoError(t, repo.Lesson.Create(ctx, second))
		require.NoError(t, repo.Lesson.Create(ctx, first))
		require.NoError(t, repo.Lesson.Create(ctx, newTestLesson(other.ID, "elsewhere", base)))

		lessons, err := repo.Lesson.FindByCourseID(ctx, course.ID)
		require.NoError(t, err)
		require.Len(t, lessons, 2)
		assert.Equal(t, "first", lessons[0].Title, "oldest first")
		assert.Equal(t, "second", lessons[1].Title)

		first.Content = "rewritten"
		first.UpdatedAt = base.Add(time.Hour)
		require.NoError(t, repo.Lesson.Update(ctx, first))
		got, err := repo.Lesson.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "rewritten", got.Content)

		require.NoError(t, repo.Lesson.Delete(ctx, second.ID))
		assert.ErrorIs(t, repo.Lesson.Delete(ctx, second.ID), ErrNotFound)
		assert.ErrorIs(t, repo.Lesson.Update(ctx, second), ErrNotFound)

		require.NoError(t, repo.Lesson.DeleteByCourseID(ctx, course.ID))
		require.NoError(t, repo.Course.Delete(ctx, course.ID))

		lessons, err = repo.Lesson.FindByCourseID(ctx, course.ID)
		require.NoError(t, err)
		assert.Empty(t, lessons)

		lessons, err = repo.Lesson.FindByCourseID(ctx, other.ID)
		require.NoError(t, err)
		assert.Len(t, lessons, 1)
	})
}
