package v1

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Saadsid007/task-dashboard/internal/auth"
	"github.com/Saadsid007/task-dashboard/internal/models"
	"github.com/Saadsid007/task-dashboard/internal/services"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

const testTokenTTL = time.Hour

func newTestCodec() auth.TokenCodec {
	return auth.NewTokenCodec("task-dashboard-test", []byte("test-signing-key"), testTokenTTL)
}

type testEnv struct {
	router *gin.Engine
	codec  auth.TokenCodec
	users  *fakeUserService
	tasks  *fakeTaskService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		codec: newTestCodec(),
		users: newFakeUserService(),
		tasks: newFakeTaskService(),
	}

	handler := New(Config{
		Logger:        zerolog.Nop(),
		Tokens:        env.codec,
		Users:         env.users,
		Tasks:         env.tasks,
		SecureCookies: false,
		TokenTTL:      testTokenTTL,
	})

	env.router = gin.New()
	RegisterRoutes(env.router, handler)
	return env
}

func (env *testEnv) seedUser(t *testing.T, name, email, password string) *models.User {
	t.Helper()
	user, err := env.users.Register(context.Background(), services.RegisterParams{
		Name:     name,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func (env *testEnv) seedTask(t *testing.T, userID, title, status string) *models.Task {
	t.Helper()
	task, err := env.tasks.Create(context.Background(), services.CreateTaskParams{
		UserID: userID,
		Title:  title,
		Status: status,
	})
	require.NoError(t, err)
	return task
}

func (env *testEnv) sessionFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := env.codec.Issue(userID)
	require.NoError(t, err)
	return token
}

// fakeUserService mirrors the pgx-backed user service against a map.
type fakeUserService struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{users: make(map[string]*models.User)}
}

func (f *fakeUserService) Register(_ context.Context, params services.RegisterParams) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(params.Email))
	for _, u := range f.users {
		if u.Email == email {
			return nil, services.ErrEmailTaken
		}
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(params.Name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.users[user.ID] = user
	return copyUser(user), nil
}

func (f *fakeUserService) Login(_ context.Context, params services.LoginParams) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(params.Email))
	for _, u := range f.users {
		if u.Email == email {
			if !auth.CheckPassword(params.Password, u.PasswordHash) {
				return nil, services.ErrInvalidCredentials
			}
			return copyUser(u), nil
		}
	}
	return nil, services.ErrInvalidCredentials
}

func (f *fakeUserService) GetByID(_ context.Context, userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (f *fakeUserService) UpdateName(_ context.Context, userID, name string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	user.Name = strings.TrimSpace(name)
	user.UpdatedAt = time.Now()
	return copyUser(user), nil
}

func (f *fakeUserService) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func copyUser(u *models.User) *models.User {
	clone := *u
	return &clone
}

// fakeTaskService mirrors the pgx-backed task service against a map,
// including the ownership filter, list ordering and the 200-row cap.
type fakeTaskService struct {
	mu    sync.Mutex
	tasks map[string]*models.Task
	seq   int
}

func newFakeTaskService() *fakeTaskService {
	return &fakeTaskService{tasks: make(map[string]*models.Task)}
}

func (f *fakeTaskService) Create(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	// Deterministic creation times so list-ordering assertions hold.
	created := time.Unix(int64(f.seq), 0)

	task := &models.Task{
		ID:          uuid.NewString(),
		UserID:      params.UserID,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Status:      params.Status,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	f.tasks[task.ID] = task
	return copyTask(task), nil
}

func (f *fakeTaskService) List(_ context.Context, userID string, filter services.TaskFilter) ([]*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.Task
	for _, task := range f.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.TitleContains != "" &&
			!strings.Contains(strings.ToLower(task.Title), strings.ToLower(filter.TitleContains)) {
			continue
		}
		out = append(out, copyTask(task))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > 200 {
		out = out[:200]
	}
	return out, nil
}

func (f *fakeTaskService) Update(_ context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	task, ok := f.tasks[params.ID]
	if !ok || task.UserID != params.UserID {
		return nil, services.ErrTaskNotFound
	}

	if params.Title != nil {
		task.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		task.Description = strings.TrimSpace(*params.Description)
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	task.UpdatedAt = time.Now()
	return copyTask(task), nil
}

func (f *fakeTaskService) Delete(_ context.Context, taskID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	task, ok := f.tasks[taskID]
	if !ok || task.UserID != userID {
		return services.ErrTaskNotFound
	}
	delete(f.tasks, taskID)
	return nil
}

func (f *fakeTaskService) get(taskID string) (*models.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	task, ok := f.tasks[taskID]
	if !ok {
		return nil, false
	}
	return copyTask(task), true
}

func (f *fakeTaskService) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}

func copyTask(t *models.Task) *models.Task {
	clone := *t
	return &clone
}
