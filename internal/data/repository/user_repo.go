package repository

import (
	"context"
	"errors"
	"fmt"

	"course-platform/internal/data/entity"
	"course-platform/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error)
	FindAllByRole(ctx context.Context, role entity.UserRole, limit, offset int) ([]*entity.User, error)
	CountByRole(ctx context.Context, role entity.UserRole) (int64, error)
	Update(ctx context.Context, user *entity.User) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, username, email, password, address, phone_number, role,
	is_active, is_verified, profile_picture, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Address,
		&user.PhoneNumber,
		&user.Role,
		&user.IsActive,
		&user.IsVerified,
		&user.ProfilePicture,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, password, address, phone_number, role,
		                   is_active, is_verified, profile_picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Address,
		user.PhoneNumber,
		user.Role,
		user.IsActive,
		user.IsVerified,
		user.ProfilePicture,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) findOne(ctx context.Context, what, where string, args ...any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` LIMIT 1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user", zap.Error(err), zap.String("by", what))
		return nil, fmt.Errorf("find user by %s: %w", what, err)
	}
	return user, nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return ur.findOne(ctx, "id", `id = $1`, id)
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return ur.findOne(ctx, "email", `email = $1`, email)
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return ur.findOne(ctx, "username", `username = $1`, username)
}

// FindByEmailOrUsername returns a user whose email matches email or whose
// username matches username. An email match wins over a username match.
func (ur *userRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error) {
	return ur.findOne(ctx, "email or username",
		`email = $1 OR username = $2 ORDER BY (email = $1) DESC`, email, username)
}

// FindAllByRole retrieves a page of users with role, newest first.
func (ur *userRepository) FindAllByRole(ctx context.Context, role entity.UserRole, limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE role = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := ur.db.Query(ctx, query, role, limit, offset)
	if err != nil {
		ur.log.Error("Failed to list users",
			zap.Error(err),
			zap.String("role", string(role)),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find users role %s limit %d offset %d: %w", role, limit, offset, err)
	}
	defer rows.Close()

	users := make([]*entity.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) CountByRole(ctx context.Context, role entity.UserRole) (int64, error) {
	var count int64
	err := ur.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count)
	if err != nil {
		ur.log.Error("Database error counting users", zap.Error(err), zap.String("role", string(role)))
		return 0, fmt.Errorf("count users role %s: %w", role, err)
	}
	return count, nil
}

func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, password = $4, address = $5, phone_number = $6,
		    role = $7, is_active = $8, is_verified = $9, profile_picture = $10,
		    updated_at = $11
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Address,
		user.PhoneNumber,
		user.Role,
		user.IsActive,
		user.IsVerified,
		user.ProfilePicture,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("update user %s: %w", user.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update user %s: %w", user.ID.String(), ErrNotFound)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
