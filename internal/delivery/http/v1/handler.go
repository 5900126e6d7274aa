package v1

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"

	"github.com/Saadsid007/task-dashboard/internal/auth"
	"github.com/Saadsid007/task-dashboard/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleGetMe(c *gin.Context)
	HandleUpdateMe(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleListTasks(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
}

type Config struct {
	Logger zerolog.Logger
	Tokens auth.TokenCodec
	Users  services.UserService
	Tasks  services.TaskService

	// SecureCookies marks the session cookie Secure; enabled in prod.
	SecureCookies bool
	TokenTTL      time.Duration
}

type handlerImpl struct {
	logger        zerolog.Logger
	tokens        auth.TokenCodec
	users         services.UserService
	tasks         services.TaskService
	secureCookies bool
	tokenTTL      time.Duration
}

func New(cfg Config) Handler {
	return &handlerImpl{
		logger:        cfg.Logger,
		tokens:        cfg.Tokens,
		users:         cfg.Users,
		tasks:         cfg.Tasks,
		secureCookies: cfg.SecureCookies,
		tokenTTL:      cfg.TokenTTL,
	}
}

// RegisterRoutes mounts the full API surface. Everything except the auth
// endpoints sits behind the auth middleware.
func RegisterRoutes(router gin.IRouter, h Handler) {
	authRouter := router.Group("/auth")
	authRouter.POST("/register", h.HandleRegister)
	authRouter.POST("/login", h.HandleLogin)
	authRouter.POST("/logout", h.HandleLogout)

	router.GET("/me", h.HandleAuthMiddleware, h.HandleGetMe)
	router.PUT("/me", h.HandleAuthMiddleware, h.HandleUpdateMe)

	taskRouter := router.Group("/tasks", h.HandleAuthMiddleware)
	taskRouter.GET("", h.HandleListTasks)
	taskRouter.POST("", h.HandleCreateTask)
	taskRouter.PUT("/:id", h.HandleUpdateTask)
	taskRouter.DELETE("/:id", h.HandleDeleteTask)
}

// normalizer lets a request type canonicalize its fields before validation.
type normalizer interface {
	normalize()
}

// bindJSON decodes the request body, normalizes it and only then runs the
// binding validation. Length rules therefore apply to the value that will be
// stored: whitespace padding cannot carry a field past a minimum.
func bindJSON(c *gin.Context, req normalizer) error {
	err := json.NewDecoder(c.Request.Body).Decode(req)
	if err != nil {
		return err
	}
	req.normalize()
	return binding.Validator.ValidateStruct(req)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
