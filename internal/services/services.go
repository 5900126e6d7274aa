package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Saadsid007/task-dashboard/internal/models"
)

// PoolProvider hands out the shared postgres pool. It is a function so the
// pool can be initialized lazily: the first operation triggers the
// single-flight connection setup, later ones reuse the established pool.
type PoolProvider func() (*pgxpool.Pool, error)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTaskNotFound       = errors.New("task not found")
)

type UserService interface {
	// Register creates a user with a hashed password and a normalized
	// (trimmed, lowercased) email.
	//
	// It returns ErrEmailTaken if a user with the same email already exists.
	Register(ctx context.Context, params RegisterParams) (*models.User, error)

	// Login authenticates the user by email and password.
	//
	// Both an unknown email and a wrong password collapse into
	// ErrInvalidCredentials so callers cannot probe which emails exist.
	Login(ctx context.Context, params LoginParams) (*models.User, error)

	// GetByID returns the user with the given id or ErrUserNotFound.
	GetByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateName changes the user's display name and returns the updated
	// record, or ErrUserNotFound if the id matches nothing.
	UpdateName(ctx context.Context, userID, name string) (*models.User, error)
}

type TaskService interface {
	// Create inserts a task owned by params.UserID. An empty status
	// defaults to todo.
	Create(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// List returns the owner's tasks matching the filter, newest first,
	// capped at 200 rows. The cap is a hard ceiling, not a page size.
	List(ctx context.Context, userID string, filter TaskFilter) ([]*models.Task, error)

	// Update applies a partial patch to a task matched by both id and owner.
	//
	// It returns ErrTaskNotFound when no task matches both, which covers
	// "doesn't exist" and "exists but belongs to someone else" alike.
	Update(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// Delete removes a task matched by both id and owner, or returns
	// ErrTaskNotFound.
	Delete(ctx context.Context, taskID, userID string) error
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type CreateTaskParams struct {
	UserID      string
	Title       string
	Description string
	Status      string
}

type TaskFilter struct {
	// TitleContains matches as a case-insensitive substring of the title.
	TitleContains string
	Status        string
}

type UpdateTaskParams struct {
	ID     string
	UserID string

	// Nil fields are left unchanged.
	Title       *string
	Description *string
	Status      *string
}
