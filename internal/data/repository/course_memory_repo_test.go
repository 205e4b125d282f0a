package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryCourseRepository(t *testing.T) {
	testCourseRepository(t, func(t *testing.T) *Repository {
		return NewMemoryRepository(zap.NewNop())
	})
}

func TestMemoryCourseRepository_KeepsOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCourseRepository(zap.NewNop())

	owner := uuid.New()
	course := newTestCourse(owner, "Go", time.Now())
	require.NoError(t, repo.Create(ctx, course))

	course.InstructorID = uuid.New()
	course.Title = "Go 2"
	require.NoError(t, repo.Update(ctx, course))

	got, err := repo.FindByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, owner, got.InstructorID)
	assert.Equal(t, "Go 2", got.Title)
}
