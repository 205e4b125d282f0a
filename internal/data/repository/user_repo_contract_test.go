package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"course-platform/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(username, email string, role entity.UserRole, createdAt time.Time) *entity.User {
	return &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$04$hash",
		PhoneNumber:  "555-0100",
		Role:         role,
		IsActive:     true,
	}
}

// testUserRepository runs the behaviour every UserRepository must share.
func testUserRepository(t *testing.T, newRepo func(t *testing.T) UserRepository) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("create and find", func(t *testing.T) {
		repo := newRepo(t)
		alice := newTestUser("alice", "alice@ex.com", entity.RoleStudent, base)
		address := "1 Main St"
		alice.Address = &address
		require.NoError(t, repo.Create(ctx, alice))

		byID, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "alice", byID.Username)
		require.NotNil(t, byID.Address)
		assert.Equal(t, "1 Main St", *byID.Address)
		assert.Nil(t, byID.ProfilePicture)

		byEmail, err := repo.FindByEmail(ctx, "alice@ex.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, alice.ID, byEmail.ID)

		byUsername, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, byUsername)
		assert.Equal(t, alice.ID, byUsername.ID)

		either, err := repo.FindByEmailOrUsername(ctx, "alice", "alice")
		require.NoError(t, err)
		require.NotNil(t, either)
		assert.Equal(t, alice.ID, either.ID)

		either, err = repo.FindByEmailOrUsername(ctx, "alice@ex.com", "alice@ex.com")
		require.NoError(t, err)
		require.NotNil(t, either)
		assert.Equal(t, alice.ID, either.ID)
	})

	t.Run("lookups are exact match", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, newTestUser("alice", "alice@ex.com", entity.RoleStudent, base)))

		user, err := repo.FindByEmail(ctx, "ALICE@ex.com")
		require.NoError(t, err)
		assert.Nil(t, user)

		user, err = repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("unique email and username", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, newTestUser("alice", "alice@ex.com", entity.RoleStudent, base)))

		err := repo.Create(ctx, newTestUser("alice2", "alice@ex.com", entity.RoleStudent, base))
		assert.ErrorIs(t, err, ErrDuplicateKey)

		err = repo.Create(ctx, newTestUser("alice", "other@ex.com", entity.RoleStudent, base))
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("concurrent duplicates admit one", func(t *testing.T) {
		repo := newRepo(t)

		var created atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				u := newTestUser("racer", fmt.Sprintf("racer%d@ex.com", i), entity.RoleStudent, base)
				if err := repo.Create(ctx, u); err == nil {
					created.Add(1)
				} else {
					assert.ErrorIs(t, err, ErrDuplicateKey)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), created.Load())
	})

	t.Run("update", func(t *testing.T) {
		repo := newRepo(t)
		alice := newTestUser("alice", "alice@ex.com", entity.RoleStudent, base)
		bob := newTestUser("bob", "bob@ex.com", entity.RoleStudent, base)
		require.NoError(t, repo.Create(ctx, alice))
		require.NoError(t, repo.Create(ctx, bob))

		picture := "/uploads/profile/p.png"
		alice.PhoneNumber = "555-0199"
		alice.ProfilePicture = &picture
		alice.UpdatedAt = base.Add(time.Hour)
		require.NoError(t, repo.Update(ctx, alice))

		got, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "555-0199", got.PhoneNumber)
		require.NotNil(t, got.ProfilePicture)
		assert.Equal(t, picture, *got.ProfilePicture)

		bob.Username = "alice"
		assert.ErrorIs(t, repo.Update(ctx, bob), ErrDuplicateKey)

		ghost := newTestUser("ghost", "ghost@ex.com", entity.RoleStudent, base)
		assert.ErrorIs(t, repo.Update(ctx, ghost), ErrNotFound)
	})

	t.Run("list by role", func(t *testing.T) {
		repo := newRepo(t)
		for i := 0; i < 5; i++ {
			u := newTestUser(fmt.Sprintf("s%d", i), fmt.Sprintf("s%d@ex.com", i), entity.RoleStudent, base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, repo.Create(ctx, u))
		}
		require.NoError(t, repo.Create(ctx, newTestUser("teach", "teach@ex.com", entity.RoleInstructor, base)))

		count, err := repo.CountByRole(ctx, entity.RoleStudent)
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)

		page, err := repo.FindAllByRole(ctx, entity.RoleStudent, 2, 0)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "s4", page[0].Username)
		assert.Equal(t, "s3", page[1].Username)

		page, err = repo.FindAllByRole(ctx, entity.RoleStudent, 2, 4)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "s0", page[0].Username)

		page, err = repo.FindAllByRole(ctx, entity.RoleStudent, 2, 10)
		require.NoError(t, err)
		assert.Empty(t, page)
	})
}
