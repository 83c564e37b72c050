package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/leporo/sqlf"
	"golang.org/x/crypto/bcrypt"

	"github.com/gymops/go_gym_backend/internal/adapter/api"
	"github.com/gymops/go_gym_backend/internal/adapter/storage"
	"github.com/gymops/go_gym_backend/internal/app/assessmentapp"
	"github.com/gymops/go_gym_backend/internal/app/auth"
	"github.com/gymops/go_gym_backend/internal/app/catalogapp"
	"github.com/gymops/go_gym_backend/internal/app/clientapp"
	"github.com/gymops/go_gym_backend/internal/app/messagebus"
	"github.com/gymops/go_gym_backend/internal/app/routineapp"
	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
	"github.com/gymops/go_gym_backend/internal/config"
	"github.com/gymops/go_gym_backend/internal/domain"
	"github.com/gymops/go_gym_backend/internal/domain/routine"
	"github.com/gymops/go_gym_backend/internal/domain/user"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)
	logger := initLogger(cfg)

	bus := messagebus.New(logger)
	bus.Register(user.EventCreated, func(event domain.Event) error {
		logger.Info("processed user created event")
		return nil
	})
	bus.Register(routine.EventCreated, func(event domain.Event) error {
		logger.Info("processed routine created event")
		return nil
	})
	defer bus.Close()

	sqlf.SetDialect(sqlf.PostgreSQL)

	db, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}

	authorizer := &auth.Authorizer{
		Cost:           bcrypt.DefaultCost,
		Secret:         cfg.JWT.Secret,
		AccessTokenTTL: cfg.JWT.AccessTokenTTL,
	}

	authService := auth.NewService(authorizer, logger)

	dbCtx := &storage.DB{DB: db}

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSeed()
	adminUoW := unitofwork.New[*auth.AtomicContext](dbCtx, auth.NewAtomicContext, bus, logger)
	if err := authService.EnsureAdmin(seedCtx, adminUoW, cfg.Admin.Email, cfg.Admin.FullName, cfg.Admin.Password); err != nil {
		panic("failed to seed admin user: " + err.Error())
	}

	server := api.NewServer(
		api.Addr(cfg.Server.Host, cfg.Server.Port),
		api.Logger(logger),
		api.DBContext(dbCtx),
		api.MessageBus(bus),
		api.AuthService(authService),
		api.ClientService(clientapp.New(logger)),
		api.AssessmentService(assessmentapp.New(logger)),
		api.RoutineService(routineapp.New(logger)),
		api.CatalogService(catalogapp.New(logger)),
	)

	ctx := context.Background()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error)

	go func() {
		defer close(errCh)
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server was not shutdown gracefully", "error", err)
		}
	case err := <-errCh:
		if err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server closed with unexpected error", "error", err)
			}
		}
	}
	logger.Info("server shutdown")
}

func initLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	switch cfg.App.Env {
	case config.Development:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		})
	case config.Production:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: false,
			Level:     slog.LevelInfo,
		})
	default:
		panic("invalid env")
	}

	return slog.New(handler)
}
