package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Saadsid007/task-dashboard/internal/models"
)

// Hard ceiling on list results. There is no pagination cursor; callers
// needing more than this are out of luck by design.
const listTasksLimit = 200

type taskServiceImpl struct {
	logger zerolog.Logger
	pool   PoolProvider
}

func NewTaskService(
	logger zerolog.Logger,
	pool PoolProvider,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pool:   pool,
	}
}

func (s *taskServiceImpl) Create(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	pgPool, err := s.pool()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to set up postgres pool")
		return nil, err
	}

	now := time.Now()
	task := models.Task{
		UserID:      params.UserID,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Status:      params.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Status == "" {
		task.Status = models.StatusTodo
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   title,
                   description,
                   status,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err = pgPool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return &task, nil
}

// buildListTasksQuery assembles the owner-scoped select. The owner filter is
// always the first predicate; status and title filters narrow it further.
func buildListTasksQuery(userID string, filter TaskFilter) (string, []any) {
	query := `
SELECT id,
       title,
       description,
       status,
       created_at,
       updated_at
FROM tasks
WHERE user_id = $1`
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.TitleContains != "" {
		args = append(args, "%"+escapeLikePattern(filter.TitleContains)+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}

	args = append(args, listTasksLimit)
	query += fmt.Sprintf("\nORDER BY created_at DESC\nLIMIT $%d", len(args))
	return query, args
}

// escapeLikePattern neutralizes LIKE metacharacters so user input only ever
// matches literally.
func escapeLikePattern(s string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
	).Replace(s)
}

func (s *taskServiceImpl) List(ctx context.Context, userID string, filter TaskFilter) ([]*models.Task, error) {
	pgPool, err := s.pool()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to set up postgres pool")
		return nil, err
	}

	query, args := buildListTasksQuery(userID, filter)

	rows, err := pgPool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{UserID: userID}
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks")

	return tasks, nil
}

func (s *taskServiceImpl) Update(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	pgPool, err := s.pool()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to set up postgres pool")
		return nil, err
	}

	task := models.Task{
		ID:        params.ID,
		UserID:    params.UserID,
		UpdatedAt: time.Now(),
	}

	if params.Title != nil {
		trimmed := strings.TrimSpace(*params.Title)
		params.Title = &trimmed
	}
	if params.Description != nil {
		trimmed := strings.TrimSpace(*params.Description)
		params.Description = &trimmed
	}

	// Both id and user_id in the WHERE clause: a task id alone never
	// authorizes access, so someone else's task reads as not found.
	const updateTaskQuery = `
UPDATE tasks
SET title = COALESCE($1, title),
    description = COALESCE($2, description),
    status = COALESCE($3, status),
    updated_at = $4
WHERE id = $5 AND user_id = $6
RETURNING title, description, status, created_at
`
	err = pgPool.QueryRow(
		ctx,
		updateTaskQuery,
		params.Title,
		params.Description,
		params.Status,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	).Scan(
		&task.Title,
		&task.Description,
		&task.Status,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return &task, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, taskID, userID string) error {
	pgPool, err := s.pool()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to set up postgres pool")
		return err
	}

	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := pgPool.Exec(
		ctx,
		deleteTaskQuery,
		taskID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("task not found")
		return ErrTaskNotFound
	}
	s.logger.Debug().
		Str("task_id", taskID).
		Msg("deleted task")

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}
