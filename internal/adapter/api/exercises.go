package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/gymops/go_gym_backend/internal/app/catalogapp"
	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
	"github.com/gymops/go_gym_backend/internal/domain/exercise"
)

func (s *Server) MountExercises() {
	loginRequired := LoginRequired(s.authService.Authorizer)

	exercises := s.handler.Group("/exercises", loginRequired)

	exercises.GET("", s.ListExercises)
	exercises.POST("", s.CreateExercise)
}

func (s *Server) catalogUoW() *unitofwork.UnitOfWork[*catalogapp.AtomicContext] {
	return unitofwork.New[*catalogapp.AtomicContext](s.db, catalogapp.NewAtomicContext, s.msgBus, s.logger)
}

type createExerciseReq struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	MuscleGroup string  `json:"muscle_group" validate:"required,min=1,max=50"`
	Description *string `json:"description"`
	Equipment   *string `json:"equipment" validate:"omitempty,max=100"`
	VideoURL    *string `json:"video_url" validate:"omitempty,url"`
}

type exerciseResp struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	MuscleGroup string    `json:"muscle_group"`
	Description *string   `json:"description"`
	Equipment   *string   `json:"equipment"`
	VideoURL    *string   `json:"video_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func marshalExercise(e *exercise.Exercise) *exerciseResp {
	return &exerciseResp{
		ID:          e.ID,
		Name:        e.Name,
		MuscleGroup: e.MuscleGroup,
		Description: e.Description,
		Equipment:   e.Equipment,
		VideoURL:    e.VideoURL,
		CreatedAt:   e.CreatedAt,
	}
}

func (s *Server) CreateExercise(c echo.Context) error {
	var b createExerciseReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	e := exercise.New(b.Name, b.MuscleGroup, b.Description, b.Equipment, b.VideoURL)
	if err := s.catalogService.Create(c.Request().Context(), s.catalogUoW(), e); err != nil {
		return JsonError(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusCreated, marshalExercise(e))
}

type listExercisesReq struct {
	MuscleGroup string `query:"muscle_group" validate:"omitempty,max=50"`
	Search      string `query:"search" validate:"omitempty,max=100"`
}

func (s *Server) ListExercises(c echo.Context) error {
	var b listExercisesReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	list, err := s.catalogService.List(c.Request().Context(), s.catalogUoW(), exercise.Filter{
		MuscleGroup: b.MuscleGroup,
		Search:      b.Search,
	})
	if err != nil {
		return JsonError(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, lo.Map(list, func(e *exercise.Exercise, _ int) *exerciseResp {
		return marshalExercise(e)
	}))
}
