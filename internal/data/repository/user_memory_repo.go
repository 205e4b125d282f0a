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

// memoryUserRepository mirrors the Postgres constraints: username and email
// are unique and checked under the same lock as the write.
type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]entity.User
	log   *zap.Logger
}

func NewMemoryUserRepository(log *zap.Logger) UserRepository {
	return &memoryUserRepository{
		users: make(map[uuid.UUID]entity.User),
		log:   log.With(zap.String("repository", "user_memory")),
	}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; exists {
		return ErrDuplicateKey
	}
	if r.conflictLocked(user) {
		return ErrDuplicateKey
	}

	r.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findFirst(ctx, func(u *entity.User) bool { return u.ID == id })
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findFirst(ctx, func(u *entity.User) bool { return u.Email == email })
}

func (r *memoryUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findFirst(ctx, func(u *entity.User) bool { return u.Username == username })
}

func (r *memoryUserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil || user != nil {
		return user, err
	}
	return r.FindByUsername(ctx, username)
}

func (r *memoryUserRepository) FindAllByRole(ctx context.Context, role entity.UserRole, limit, offset int) ([]*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := make([]*entity.User, 0)
	for _, u := range r.users {
		if u.Role == role {
			clone := cloneUser(u)
			matched = append(matched, &clone)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.String() < matched[j].ID.String()
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return []*entity.User{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *memoryUserRepository) CountByRole(ctx context.Context, role entity.UserRole) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, u := range r.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

func (r *memoryUserRepository) Update(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; !exists {
		return fmt.Errorf("update user %s: %w", user.ID.String(), ErrNotFound)
	}
	if r.conflictLocked(user) {
		return ErrDuplicateKey
	}

	r.users[user.ID] = cloneUser(*user)
	return nil
}

// conflictLocked reports whether another user already owns user's username or
// email. Callers hold r.mu.
func (r *memoryUserRepository) conflictLocked(user *entity.User) bool {
	for id, existing := range r.users {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username || existing.Email == user.Email {
			return true
		}
	}
	return false
}

func (r *memoryUserRepository) findFirst(ctx context.Context, match func(*entity.User) bool) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(&u) {
			clone := cloneUser(u)
			return &clone, nil
		}
	}
	return nil, nil
}

// cloneUser copies the pointer fields so callers cannot mutate stored rows.
func cloneUser(u entity.User) entity.User {
	if u.Address != nil {
		address := *u.Address
		u.Address = &address
	}
	if u.ProfilePicture != nil {
		picture := *u.ProfilePicture
		u.ProfilePicture = &picture
	}
	return u
}
