package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/Saadsid007/task-dashboard/internal/auth"
	"github.com/Saadsid007/task-dashboard/internal/config"
	v1 "github.com/Saadsid007/task-dashboard/internal/delivery/http/v1"
	"github.com/Saadsid007/task-dashboard/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	cfg := config.Global()

	tokens := auth.NewTokenCodec(
		cfg.Auth.TokenIssuer,
		[]byte(cfg.Auth.TokenSecret),
		cfg.Auth.TokenTTL,
	)

	// Services receive the pool constructor, not the pool: postgres is not
	// touched until the first request that needs it.
	userService := services.NewUserService(globalLogger, PostgresPool)
	taskService := services.NewTaskService(globalLogger, PostgresPool)

	handler := v1.New(v1.Config{
		Logger:        globalLogger,
		Tokens:        tokens,
		Users:         userService,
		Tasks:         taskService,
		SecureCookies: cfg.Env == config.EnvProd,
		TokenTTL:      cfg.Auth.TokenTTL,
	})

	v1.RegisterRoutes(router, handler)
}
