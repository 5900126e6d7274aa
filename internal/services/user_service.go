package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/Saadsid007/task-dashboard/internal/auth"
	"github.com/Saadsid007/task-dashboard/internal/models"
)

type userServiceImpl struct {
	logger zerolog.Logger
	pool   PoolProvider
}

func NewUserService(
	logger zerolog.Logger,
	pool PoolProvider,
) UserService {
	return &userServiceImpl{
		logger: logger,
		pool:   pool,
	}
}

// normalizeEmail makes lookups and the uniqueness constraint
// case-insensitive: the same address always maps to the same row.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userServiceImpl) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	pgPool, err := s.pool()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to set up postgres pool")
		return nil, err
	}

	now := time.Now()
	user := models.User{
		Name:      strings.TrimSpace(params.Name),
		Email:     normalizeEmail(params.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}
	user.ID = userUUID.String()

	passwordHash, err := auth.HashPassword(params.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}
	user.PasswordHash = passwordHash

	const insertUserQuery = `
INSERT INTO users (id,
                   name,
                   email,
                   password_hash,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err = pgPool.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.UniqueViolation {
				s.logger.Error().
					Str("email", user.Email).
					Msg("user with this email already exists")
				return nil, ErrEmailTaken
			}
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("inserted user")

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("registered user")
	return &user, nil
}

func (s *userServiceImpl) Login(ctx context.Context, params LoginParams) (*models.User, error) {
	pgPool, err := s.pool()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to set up postgres pool")
		return nil, err
	}

	user := models.User{
		Email: normalizeEmail(params.Email),
	}

	const selectUserByEmailQuery = `
SELECT id,
       name,
       password_hash,
       created_at,
       updated_at
FROM users
WHERE email = $1
`
	err = pgPool.QueryRow(
		ctx,
		selectUserByEmailQuery,
		user.Email,
	).Scan(
		&user.ID,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("email", user.Email).
				Msg("user not found")
			return nil, ErrInvalidCredentials
		}

		s.logger.Error().
			Err(err).
			Str("email", user.Email).
			Msg("failed to select user by email")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("selected user by email")

	if !auth.CheckPassword(params.Password, user.PasswordHash) {
		s.logger.Warn().
			Str("user_id", user.ID).
			Msg("password mismatch")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("logged in")
	return &user, nil
}

func (s *userServiceImpl) GetByID(ctx context.Context, userID string) (*models.User, error) {
	pgPool, err := s.pool()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to set up postgres pool")
		return nil, err
	}

	user := models.User{
		ID: userID,
	}

	const selectUserByIDQuery = `
SELECT name,
       email,
       created_at,
       updated_at
FROM users
WHERE id = $1
`
	err = pgPool.QueryRow(
		ctx,
		selectUserByIDQuery,
		user.ID,
	).Scan(
		&user.Name,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("user_id", user.ID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to select user by id")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("selected user by id")

	return &user, nil
}

func (s *userServiceImpl) UpdateName(ctx context.Context, userID, name string) (*models.User, error) {
	pgPool, err := s.pool()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to set up postgres pool")
		return nil, err
	}

	user := models.User{
		ID:        userID,
		Name:      strings.TrimSpace(name),
		UpdatedAt: time.Now(),
	}

	const updateUserNameQuery = `
UPDATE users
SET name = $1,
    updated_at = $2
WHERE id = $3
RETURNING email, created_at
`
	err = pgPool.QueryRow(
		ctx,
		updateUserNameQuery,
		user.Name,
		user.UpdatedAt,
		user.ID,
	).Scan(
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("user_id", user.ID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update user name")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("updated user name")

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("updated profile")
	return &user, nil
}
