package api

import (
	"log/slog"
	"net"
	"strconv"

	"github.com/gymops/go_gym_backend/internal/adapter/storage"
	"github.com/gymops/go_gym_backend/internal/app/assessmentapp"
	"github.com/gymops/go_gym_backend/internal/app/auth"
	"github.com/gymops/go_gym_backend/internal/app/catalogapp"
	"github.com/gymops/go_gym_backend/internal/app/clientapp"
	"github.com/gymops/go_gym_backend/internal/app/routineapp"
	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
)

type Option func(*Server)

func Addr(host string, port int) Option {
	return func(s *Server) {
		s.addr = net.JoinHostPort(host, strconv.Itoa(port))
	}
}

func Logger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

func DBContext(db storage.DBContext) Option {
	return func(s *Server) {
		s.db = db
	}
}

func AuthService(service *auth.Service) Option {
	return func(s *Server) {
		s.authService = service
	}
}

func ClientService(service *clientapp.Service) Option {
	return func(s *Server) {
		s.clientService = service
	}
}

func AssessmentService(service *assessmentapp.Service) Option {
	return func(s *Server) {
		s.assessmentService = service
	}
}

func RoutineService(service *routineapp.Service) Option {
	return func(s *Server) {
		s.routineService = service
	}
}

func CatalogService(service *catalogapp.Service) Option {
	return func(s *Server) {
		s.catalogService = service
	}
}

func MessageBus(bus unitofwork.MessageBus) Option {
	return func(s *Server) {
		s.msgBus = bus
	}
}
