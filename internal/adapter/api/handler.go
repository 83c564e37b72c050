package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"

	"github.com/gymops/go_gym_backend/internal/adapter/storage"
	"github.com/gymops/go_gym_backend/internal/app/assessmentapp"
	"github.com/gymops/go_gym_backend/internal/app/auth"
	"github.com/gymops/go_gym_backend/internal/app/catalogapp"
	"github.com/gymops/go_gym_backend/internal/app/clientapp"
	"github.com/gymops/go_gym_backend/internal/app/routineapp"
	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
)

type Server struct {
	handler *echo.Echo
	logger  *slog.Logger
	addr    string
	db      storage.DBContext

	authService       *auth.Service
	clientService     *clientapp.Service
	assessmentService *assessmentapp.Service
	routineService    *routineapp.Service
	catalogService    *catalogapp.Service

	msgBus    unitofwork.MessageBus
	validator *validator.Validate
}

func NewServer(opt ...Option) *Server {
	e := echo.New()

	e.Server.WriteTimeout = 10 * time.Second
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.IdleTimeout = 10 * time.Second
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.MaxHeaderBytes = 4096

	v := validator.New(validator.WithRequiredStructEnabled())

	s := &Server{
		handler:   e,
		validator: v,
	}

	for _, opt := range opt {
		opt(s)
	}

	e.Use(slogecho.NewWithConfig(s.logger, slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelInfo,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	}))
	// The SPA frontend is served from a different origin in dev.
	e.Use(middleware.CORS())

	s.Mount()
	return s
}

func (s *Server) Mount() {
	s.handler.GET("/health", s.Health)
	s.MountAuth()
	s.MountUsers()
	s.MountClients()
	s.MountAssessments()
	s.MountExercises()
	s.MountRoutines()
}

func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) Start() error {
	return s.handler.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.handler.Shutdown(ctx)
}

func (s *Server) bind(ctx echo.Context, i interface{}) error {
	if err := ctx.Bind(i); err != nil {
		return fmt.Errorf("bad request")
	}
	if err := s.validator.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return fmt.Errorf("bad request")
		}
		return fmt.Errorf("%s: %s", errs[0].Field(), errs[0].Error())
	}
	return nil
}
