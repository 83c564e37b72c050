package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/gymops/go_gym_backend/internal/app/clientapp"
	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
	"github.com/gymops/go_gym_backend/internal/domain/client"
	"github.com/gymops/go_gym_backend/internal/domain/user"
)

func (s *Server) MountClients() {
	loginRequired := LoginRequired(s.authService.Authorizer)

	clients := s.handler.Group("/clients", loginRequired)

	clients.POST("", s.CreateClient)
	clients.GET("", s.ListClients)
	clients.GET("/:client_id", s.GetClient)
	clients.PATCH("/:client_id", s.UpdateClient)
	clients.DELETE("/:client_id", s.DeleteClient)
}

func (s *Server) clientUoW() *unitofwork.UnitOfWork[*clientapp.AtomicContext] {
	return unitofwork.New[*clientapp.AtomicContext](s.db, clientapp.NewAtomicContext, s.msgBus, s.logger)
}

const dateLayout = "2006-01-02"

type createClientReq struct {
	FirstName    string            `json:"first_name" validate:"required,min=1,max=100"`
	LastName     string            `json:"last_name" validate:"required,min=1,max=100"`
	Email        string            `json:"email" validate:"required,email"`
	Phone        *string           `json:"phone" validate:"omitempty,max=20"`
	BirthDate    *string           `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Membership   client.Membership `json:"membership" validate:"required,oneof=virtual onsite hybrid"`
	FitnessGoal  *string           `json:"fitness_goal"`
	MedicalNotes *string           `json:"medical_notes"`
}

type clientResp struct {
	ID           int64             `json:"id"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Email        string            `json:"email"`
	Phone        *string           `json:"phone"`
	BirthDate    *string           `json:"birth_date"`
	Membership   client.Membership `json:"membership"`
	FitnessGoal  *string           `json:"fitness_goal"`
	MedicalNotes *string           `json:"medical_notes"`
	Active       bool              `json:"active"`
	StartDate    string            `json:"start_date"`
	TrainerID    *int64            `json:"trainer_id"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func marshalClient(c *client.Client) *clientResp {
	var birthDate *string
	if c.BirthDate != nil {
		d := c.BirthDate.Format(dateLayout)
		birthDate = &d
	}
	return &clientResp{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		Phone:        c.Phone,
		BirthDate:    birthDate,
		Membership:   c.Membership,
		FitnessGoal:  c.FitnessGoal,
		MedicalNotes: c.MedicalNotes,
		Active:       c.Active,
		StartDate:    c.StartDate.Format(dateLayout),
		TrainerID:    c.TrainerID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (s *Server) CreateClient(c echo.Context) error {
	var b createClientReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	var birthDate *time.Time
	if b.BirthDate != nil {
		d, err := time.Parse(dateLayout, *b.BirthDate)
		if err != nil {
			return JsonError(c, http.StatusBadRequest, "birth_date: invalid date")
		}
		birthDate = &d
	}

	now := time.Now().UTC()
	cl := &client.Client{
		FirstName:    b.FirstName,
		LastName:     b.LastName,
		Email:        b.Email,
		Phone:        b.Phone,
		BirthDate:    birthDate,
		Membership:   b.Membership,
		FitnessGoal:  b.FitnessGoal,
		MedicalNotes: b.MedicalNotes,
		Active:       true,
		StartDate:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.clientService.Create(c.Request().Context(), s.clientUoW(), currentUser(c).Email, cl)
	if err != nil {
		return s.clientError(c, err)
	}
	return c.JSON(http.StatusCreated, marshalClient(cl))
}

type listClientsReq struct {
	Offset int `query:"offset" validate:"min=0"`
	Limit  int `query:"limit" validate:"min=0,max=500"`
}

func (s *Server) ListClients(c echo.Context) error {
	var b listClientsReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	if b.Limit == 0 {
		b.Limit = 100
	}

	clients, err := s.clientService.List(c.Request().Context(), s.clientUoW(), b.Offset, b.Limit)
	if err != nil {
		return s.clientError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(clients, func(cl *client.Client, _ int) *clientResp {
		return marshalClient(cl)
	}))
}

type clientIDReq struct {
	ClientID int64 `param:"client_id" validate:"required,min=1"`
}

func (s *Server) GetClient(c echo.Context) error {
	var b clientIDReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	cl, err := s.clientService.Get(c.Request().Context(), s.clientUoW(), b.ClientID)
	if err != nil {
		return s.clientError(c, err)
	}
	return c.JSON(http.StatusOK, marshalClient(cl))
}

type updateClientReq struct {
	ClientID    int64              `param:"client_id" validate:"required,min=1"`
	FirstName   *string            `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName    *string            `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email       *string            `json:"email" validate:"omitempty,email"`
	Phone       *string            `json:"phone" validate:"omitempty,max=20"`
	Membership  *client.Membership `json:"membership" validate:"omitempty,oneof=virtual onsite hybrid"`
	FitnessGoal *string            `json:"fitness_goal"`
	Active      *bool              `json:"active"`
}

func (s *Server) UpdateClient(c echo.Context) error {
	var b updateClientReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	patch := &client.Patch{
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		Email:       b.Email,
		Phone:       b.Phone,
		Membership:  b.Membership,
		FitnessGoal: b.FitnessGoal,
		Active:      b.Active,
	}
	cl, err := s.clientService.Update(c.Request().Context(), s.clientUoW(), b.ClientID, patch)
	if err != nil {
		return s.clientError(c, err)
	}
	return c.JSON(http.StatusOK, marshalClient(cl))
}

func (s *Server) DeleteClient(c echo.Context) error {
	var b clientIDReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	if err := s.clientService.Delete(c.Request().Context(), s.clientUoW(), b.ClientID); err != nil {
		return s.clientError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) clientError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, user.ErrUnauthorized):
		return JsonError(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, client.ErrClientNotFound):
		return JsonError(c, http.StatusNotFound, "client not found")
	case errors.Is(err, client.ErrEmailDuplicate):
		return JsonError(c, http.StatusBadRequest, "email is already registered")
	default:
		return JsonError(c, http.StatusInternalServerError, err)
	}
}
