package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mileusna/useragent"

	"github.com/gymops/go_gym_backend/internal/app/auth"
	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
	"github.com/gymops/go_gym_backend/internal/domain/user"
)

func (s *Server) MountAuth() {
	authRoutes := s.handler.Group("/auth")
	authRoutes.POST("/login", s.Login)
}

func (s *Server) authUoW() *unitofwork.UnitOfWork[*auth.AtomicContext] {
	return unitofwork.New[*auth.AtomicContext](s.db, auth.NewAtomicContext, s.msgBus, s.logger)
}

type loginReq struct {
	Email    string `form:"username" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type loginResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) Login(c echo.Context) error {
	var b loginReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	agent := useragent.Parse(c.Request().UserAgent())

	ipAddress := c.Request().RemoteAddr
	if fwd := c.Request().Header.Get("X-Forwarded-For"); fwd != "" {
		ipAddress = fwd
	}

	device := auth.Device{
		Browser:   agent.Name,
		OS:        agent.OS,
		IPAddress: ipAddress,
		Model:     agent.Device,
	}

	token, err := s.authService.Login(c.Request().Context(), s.authUoW(), b.Email, b.Password, device)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			return JsonError(c, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, user.ErrUserInactive):
			return JsonError(c, http.StatusBadRequest, "user is inactive")
		default:
			return JsonError(c, http.StatusInternalServerError, err)
		}
	}
	return c.JSON(http.StatusOK, &loginResp{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
