package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/gymops/go_gym_backend/internal/app/routineapp"
	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
	"github.com/gymops/go_gym_backend/internal/domain/client"
	"github.com/gymops/go_gym_backend/internal/domain/exercise"
	"github.com/gymops/go_gym_backend/internal/domain/routine"
	"github.com/gymops/go_gym_backend/internal/domain/user"
)

func (s *Server) MountRoutines() {
	loginRequired := LoginRequired(s.authService.Authorizer)

	routines := s.handler.Group("/routines", loginRequired)

	routines.POST("", s.CreateRoutine)
	routines.GET("/client/:client_id", s.ListClientRoutines)
	routines.DELETE("/:routine_id", s.DeleteRoutine)
}

func (s *Server) routineUoW() *unitofwork.UnitOfWork[*routineapp.AtomicContext] {
	return unitofwork.New[*routineapp.AtomicContext](s.db, routineapp.NewAtomicContext, s.msgBus, s.logger)
}

type routineDetailReq struct {
	ExerciseID    int64   `json:"exercise_id" validate:"required,min=1"`
	Sets          int     `json:"sets" validate:"required,min=1,max=10"`
	Reps          string  `json:"reps" validate:"required,min=1,max=50"`
	SuggestedLoad *string `json:"suggested_load" validate:"omitempty,max=50"`
	RestSeconds   int     `json:"rest_seconds" validate:"omitempty,min=0,max=600"`
	Notes         *string `json:"notes"`
}

type routineDayReq struct {
	Name      string             `json:"name" validate:"required,min=1,max=100"`
	Order     int                `json:"order" validate:"required,min=1"`
	Exercises []routineDetailReq `json:"exercises" validate:"required,min=1,dive"`
}

type createRoutineReq struct {
	Name          string          `json:"name" validate:"required,min=1,max=100"`
	Description   *string         `json:"description"`
	Objective     *string         `json:"objective"`
	Level         string          `json:"level" validate:"omitempty,max=50"`
	DurationWeeks int             `json:"duration_weeks" validate:"omitempty,min=1,max=52"`
	ClientID      int64           `json:"client_id" validate:"required,min=1"`
	Days          []routineDayReq `json:"days" validate:"required,min=1,dive"`
}

type routineDetailResp struct {
	ID            int64   `json:"id"`
	ExerciseID    int64   `json:"exercise_id"`
	ExerciseName  string  `json:"exercise_name,omitempty"`
	Order         int     `json:"order"`
	Sets          int     `json:"sets"`
	Reps          string  `json:"reps"`
	SuggestedLoad *string `json:"suggested_load"`
	RestSeconds   int     `json:"rest_seconds"`
	Notes         *string `json:"notes"`
}

type routineDayResp struct {
	ID        int64                `json:"id"`
	Name      string               `json:"name"`
	Order     int                  `json:"order"`
	Exercises []*routineDetailResp `json:"exercises"`
}

type routineResp struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Description   *string           `json:"description"`
	Objective     *string           `json:"objective"`
	Level         string            `json:"level"`
	DurationWeeks int               `json:"duration_weeks"`
	ClientID      int64             `json:"client_id"`
	TrainerID     int64             `json:"trainer_id"`
	Active        bool              `json:"active"`
	StartDate     string            `json:"start_date"`
	EndDate       *string           `json:"end_date"`
	Days          []*routineDayResp `json:"days"`
}

func marshalRoutine(r *routine.Routine) *routineResp {
	var endDate *string
	if r.EndDate != nil {
		d := r.EndDate.Format(dateLayout)
		endDate = &d
	}
	return &routineResp{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Objective:     r.Objective,
		Level:         r.Level,
		DurationWeeks: r.DurationWeeks,
		ClientID:      r.ClientID,
		TrainerID:     r.TrainerID,
		Active:        r.Active,
		StartDate:     r.StartDate.Format(dateLayout),
		EndDate:       endDate,
		Days: lo.Map(r.Days, func(d *routine.Day, _ int) *routineDayResp {
			return &routineDayResp{
				ID:    d.ID,
				Name:  d.Name,
				Order: d.Order,
				Exercises: lo.Map(d.Exercises, func(det *routine.Detail, _ int) *routineDetailResp {
					return &routineDetailResp{
						ID:            det.ID,
						ExerciseID:    det.ExerciseID,
						ExerciseName:  det.ExerciseName,
						Order:         det.Order,
						Sets:          det.Sets,
						Reps:          det.Reps,
						SuggestedLoad: det.SuggestedLoad,
						RestSeconds:   det.RestSeconds,
						Notes:         det.Notes,
					}
				}),
			}
		}),
	}
}

func (s *Server) CreateRoutine(c echo.Context) error {
	var b createRoutineReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	if b.Level == "" {
		b.Level = routine.DefaultLevel
	}
	if b.DurationWeeks == 0 {
		b.DurationWeeks = routine.DefaultDurationWeeks
	}

	days := lo.Map(b.Days, func(d routineDayReq, _ int) routine.DaySpec {
		return routine.DaySpec{
			Name:  d.Name,
			Order: d.Order,
			Exercises: lo.Map(d.Exercises, func(det routineDetailReq, _ int) routine.DetailSpec {
				return routine.DetailSpec{
					ExerciseID:    det.ExerciseID,
					Sets:          det.Sets,
					Reps:          det.Reps,
					SuggestedLoad: det.SuggestedLoad,
					RestSeconds:   det.RestSeconds,
					Notes:         det.Notes,
				}
			}),
		}
	})

	r, err := s.routineService.Create(
		c.Request().Context(), s.routineUoW(), currentUser(c).Email,
		b.Name, b.Description, b.Objective, b.Level, b.DurationWeeks, b.ClientID, days,
	)
	if err != nil {
		return s.routineError(c, err)
	}

	// The create response is the flat header; nested days come back through
	// the client-history read.
	return c.JSON(http.StatusCreated, marshalRoutine(r))
}

func (s *Server) ListClientRoutines(c echo.Context) error {
	var b clientIDReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	routines, err := s.routineService.ListByClient(c.Request().Context(), s.routineUoW(), b.ClientID)
	if err != nil {
		return s.routineError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(routines, func(r *routine.Routine, _ int) *routineResp {
		return marshalRoutine(r)
	}))
}

type routineIDReq struct {
	RoutineID int64 `param:"routine_id" validate:"required,min=1"`
}

func (s *Server) DeleteRoutine(c echo.Context) error {
	var b routineIDReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	err := s.routineService.Delete(c.Request().Context(), s.routineUoW(), currentUser(c).Email, b.RoutineID)
	if err != nil {
		return s.routineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) routineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, user.ErrUnauthorized):
		return JsonError(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, user.ErrForbidden):
		return JsonError(c, http.StatusForbidden, "operation is not permitted")
	case errors.Is(err, routine.ErrRoutineNotFound):
		return JsonError(c, http.StatusNotFound, "routine not found")
	case errors.Is(err, client.ErrClientNotFound):
		return JsonError(c, http.StatusNotFound, "client not found")
	case errors.Is(err, exercise.ErrExerciseNotFound):
		return JsonError(c, http.StatusNotFound, "exercise not found")
	default:
		return JsonError(c, http.StatusInternalServerError, err)
	}
}
