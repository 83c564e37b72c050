package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/gymops/go_gym_backend/internal/domain/user"
)

func (s *Server) MountUsers() {
	loginRequired := LoginRequired(s.authService.Authorizer)

	users := s.handler.Group("/users", loginRequired)

	users.POST("", s.CreateUser)
	users.GET("", s.ListUsers)
	users.GET("/me", s.CurrentUser)
	users.GET("/:user_id", s.GetUser)
	users.PATCH("/:user_id", s.UpdateUser)
	users.DELETE("/:user_id", s.DeleteUser)
}

type createUserReq struct {
	Email    string    `json:"email" validate:"required,email"`
	FullName string    `json:"full_name" validate:"required,min=1,max=100"`
	Password string    `json:"password" validate:"required,min=6,max=72"`
	Role     user.Role `json:"role" validate:"omitempty,oneof=admin user"`
}

type userResp struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	Role      user.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func marshalUser(u *user.User) *userResp {
	return &userResp{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func (s *Server) CreateUser(c echo.Context) error {
	var b createUserReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	if b.Role == "" {
		b.Role = user.RoleUser
	}

	u, err := s.authService.CreateUser(
		c.Request().Context(), s.authUoW(), currentUser(c).Email,
		b.Email, b.FullName, b.Password, b.Role,
	)
	if err != nil {
		return s.userError(c, err)
	}
	return c.JSON(http.StatusCreated, marshalUser(u))
}

type listUsersReq struct {
	Offset int `query:"offset" validate:"min=0"`
	Limit  int `query:"limit" validate:"min=0,max=500"`
}

func (s *Server) ListUsers(c echo.Context) error {
	var b listUsersReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	if b.Limit == 0 {
		b.Limit = 100
	}

	users, err := s.authService.ListUsers(c.Request().Context(), s.authUoW(), currentUser(c).Email, b.Offset, b.Limit)
	if err != nil {
		return s.userError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(users, func(u *user.User, _ int) *userResp {
		return marshalUser(u)
	}))
}

func (s *Server) CurrentUser(c echo.Context) error {
	u, err := s.authService.GetUserByEmail(c.Request().Context(), s.authUoW(), currentUser(c).Email)
	if err != nil {
		return s.userError(c, err)
	}
	return c.JSON(http.StatusOK, marshalUser(u))
}

type userIDReq struct {
	UserID int64 `param:"user_id" validate:"required,min=1"`
}

func (s *Server) GetUser(c echo.Context) error {
	var b userIDReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	u, err := s.authService.GetUser(c.Request().Context(), s.authUoW(), currentUser(c).Email, b.UserID)
	if err != nil {
		return s.userError(c, err)
	}
	return c.JSON(http.StatusOK, marshalUser(u))
}

type updateUserReq struct {
	UserID   int64      `param:"user_id" validate:"required,min=1"`
	Email    *string    `json:"email" validate:"omitempty,email"`
	FullName *string    `json:"full_name" validate:"omitempty,min=1,max=100"`
	Password *string    `json:"password" validate:"omitempty,min=6,max=72"`
	IsActive *bool      `json:"is_active"`
	Role     *user.Role `json:"role" validate:"omitempty,oneof=admin user"`
}

func (s *Server) UpdateUser(c echo.Context) error {
	var b updateUserReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	patch := &user.Patch{
		Email:    b.Email,
		FullName: b.FullName,
		Password: b.Password,
		IsActive: b.IsActive,
		Role:     b.Role,
	}
	u, err := s.authService.UpdateUser(c.Request().Context(), s.authUoW(), currentUser(c).Email, b.UserID, patch)
	if err != nil {
		return s.userError(c, err)
	}
	return c.JSON(http.StatusOK, marshalUser(u))
}

func (s *Server) DeleteUser(c echo.Context) error {
	var b userIDReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	err := s.authService.DeleteUser(c.Request().Context(), s.authUoW(), currentUser(c).Email, b.UserID)
	if err != nil {
		return s.userError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) userError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, user.ErrUnauthorized):
		return JsonError(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, user.ErrForbidden):
		return JsonError(c, http.StatusForbidden, "operation is not permitted")
	case errors.Is(err, user.ErrUserNotFound):
		return JsonError(c, http.StatusNotFound, "user not found")
	case errors.Is(err, user.ErrEmailDuplicate):
		return JsonError(c, http.StatusBadRequest, "email is already registered")
	case errors.Is(err, user.ErrSelfDelete):
		return JsonError(c, http.StatusBadRequest, "users cannot delete themselves")
	default:
		return JsonError(c, http.StatusInternalServerError, err)
	}
}
